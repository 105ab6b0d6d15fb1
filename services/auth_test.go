package services

import (
	"context"
	"testing"

	"meetly/db"
	"meetly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestRegisterValidation(t *testing.T) {
	setupTestDB(t)

	h := AuthHandler{Email: strPtr("not-an-email"), Password: strPtr("secret123")}
	_, err := h.Register()
	assert.ErrorIs(t, err, ErrInvalidEmail)

	h = AuthHandler{Email: strPtr("a@x.com"), Password: strPtr("short")}
	_, err = h.Register()
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestRegisterCreatesAccountAndProfile(t *testing.T) {
	setupTestDB(t)

	h := AuthHandler{Email: strPtr("A@X.com"), Password: strPtr("secret123")}
	uid, err := h.Register()
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	var account models.Account
	require.NoError(t, db.ORM.First(&account, "uid = ?", uid).Error)
	assert.Equal(t, "a@x.com", account.Email)
	assert.NotEqual(t, "secret123", account.Password)

	var profile models.User
	require.NoError(t, db.ORM.First(&profile, "uid = ?", uid).Error)
	assert.Empty(t, profile.Friends)
	assert.Empty(t, profile.Permissions)
	assert.Empty(t, profile.Schedule)
}

func TestRegisterProfileWriteFailureIsDegradedSuccess(t *testing.T) {
	setupTestDB(t)

	// Profile writes fail while the account write still succeeds: drop the
	// profile table before registering.
	require.NoError(t, db.ORM.Migrator().DropTable(&models.User{}))

	h := AuthHandler{Email: strPtr("a@x.com"), Password: strPtr("secret123")}
	uid, err := h.Register()
	assert.ErrorIs(t, err, ErrProfileCreation)
	require.NotEmpty(t, uid)
	assert.Equal(t, "Account created, but profile setup failed. Some features may be unavailable.",
		AuthErrorMessage(err))

	// No rollback: the account row is in place.
	var account models.Account
	require.NoError(t, db.ORM.First(&account, "uid = ?", uid).Error)
	assert.Equal(t, "a@x.com", account.Email)

	// Later profile loads tolerate the missing document with defaults.
	require.NoError(t, db.ORM.Migrator().CreateTable(&models.User{}))
	profile, err := NewProfileService().LoadProfile(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, uid, profile.UID)
	assert.Empty(t, profile.Friends)
	assert.Empty(t, profile.Permissions)
	assert.Empty(t, profile.Schedule)
}

func TestRegisterEmailInUse(t *testing.T) {
	setupTestDB(t)

	h := AuthHandler{Email: strPtr("a@x.com"), Password: strPtr("secret123")}
	_, err := h.Register()
	require.NoError(t, err)

	h2 := AuthHandler{Email: strPtr("A@x.com "), Password: strPtr("different1")}
	_, err = h2.Register()
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestLoginFlow(t *testing.T) {
	setupTestDB(t)

	h := AuthHandler{Email: strPtr("a@x.com"), Password: strPtr("secret123")}
	uid, err := h.Register()
	require.NoError(t, err)

	login := AuthHandler{Email: strPtr("a@x.com"), Password: strPtr("wrong-pass")}
	_, err = login.Login()
	assert.ErrorIs(t, err, ErrWrongPassword)

	login = AuthHandler{Email: strPtr("missing@x.com"), Password: strPtr("secret123")}
	_, err = login.Login()
	assert.ErrorIs(t, err, ErrUserNotFound)

	login = AuthHandler{Email: strPtr("a@x.com"), Password: strPtr("secret123")}
	token, err := login.Login()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	resolved, err := CheckToken(token)
	require.NoError(t, err)
	assert.Equal(t, uid, resolved)

	session, err := SessionFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, uid, session.UID)
	assert.Equal(t, "a@x.com", session.Email)
}

func TestLoginDropsPreviousTokens(t *testing.T) {
	setupTestDB(t)

	h := AuthHandler{Email: strPtr("a@x.com"), Password: strPtr("secret123")}
	_, err := h.Register()
	require.NoError(t, err)

	login := AuthHandler{Email: strPtr("a@x.com"), Password: strPtr("secret123")}
	first, err := login.Login()
	require.NoError(t, err)

	login2 := AuthHandler{Email: strPtr("a@x.com"), Password: strPtr("secret123")}
	second, err := login2.Login()
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = CheckToken(first)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = CheckToken(second)
	assert.NoError(t, err)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	setupTestDB(t)

	h := AuthHandler{Email: strPtr("a@x.com"), Password: strPtr("secret123")}
	_, err := h.Register()
	require.NoError(t, err)

	login := AuthHandler{Email: strPtr("a@x.com"), Password: strPtr("secret123")}
	token, err := login.Login()
	require.NoError(t, err)

	require.NoError(t, login.Logout())
	_, err = CheckToken(token)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthErrorMessages(t *testing.T) {
	cases := map[error]string{
		ErrWeakPassword:  "Password should be at least 6 characters",
		ErrEmailInUse:    "That email is already in use",
		ErrInvalidEmail:  "Invalid email address",
		ErrUserNotFound:  "No account found with that email",
		ErrWrongPassword: "Incorrect password",
	}
	for err, want := range cases {
		assert.Equal(t, want, AuthErrorMessage(err))
	}
	assert.Equal(t, "Something went wrong. Please try again.", AuthErrorMessage(assert.AnError))
}
