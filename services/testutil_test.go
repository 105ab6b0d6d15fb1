package services

import (
	"strings"
	"testing"

	"meetly/db"
	"meetly/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	// A second pooled connection would see a fresh in-memory database, and
	// the calendar aggregation queries concurrently.
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(database))
	db.ORM = database
}

func createTestAccount(t *testing.T, email string) *models.Account {
	t.Helper()
	if email == "" {
		email = gofakeit.Email()
	}
	email = strings.ToLower(email)
	account := models.Account{
		UID:      uuid.NewString(),
		Email:    email,
		Password: "x",
	}
	require.NoError(t, db.ORM.Create(&account).Error)
	profile := models.User{
		UID:         account.UID,
		Email:       account.Email,
		Friends:     models.StringList{},
		Permissions: models.PermissionList{},
		Schedule:    models.ScheduleList{},
	}
	require.NoError(t, db.ORM.Create(&profile).Error)
	return &account
}

func sessionFor(account *models.Account) *Session {
	return &Session{UID: account.UID, Email: account.Email}
}
