package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"strings"

	"meetly/db"
	"meetly/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"
	"gorm.io/gorm"
)

// Fixed auth error taxonomy. Handlers map these to the user-facing messages
// in AuthErrorMessage; anything else falls back to the generic one.
var (
	ErrWeakPassword    = errors.New("weak password")
	ErrEmailInUse      = errors.New("email already in use")
	ErrInvalidEmail    = errors.New("invalid email")
	ErrUserNotFound    = errors.New("user not found")
	ErrWrongPassword   = errors.New("wrong password")
	ErrProfileCreation = errors.New("profile creation failed")
)

func AuthErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrWeakPassword):
		return "Password should be at least 6 characters"
	case errors.Is(err, ErrEmailInUse):
		return "That email is already in use"
	case errors.Is(err, ErrInvalidEmail):
		return "Invalid email address"
	case errors.Is(err, ErrUserNotFound):
		return "No account found with that email"
	case errors.Is(err, ErrWrongPassword):
		return "Incorrect password"
	case errors.Is(err, ErrProfileCreation):
		return "Account created, but profile setup failed. Some features may be unavailable."
	default:
		return "Something went wrong. Please try again."
	}
}

type AuthHandler struct {
	Email    *string
	Password *string
	Token    *string

	Account *models.Account
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash), nil
}

func verifyPassword(stored, password string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 2 {
		return false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(hash) == parts[1]
}

// Register creates the auth account and then provisions the profile document.
// The two writes are independent: a profile failure leaves the account in
// place and is reported as ErrProfileCreation so callers can surface a
// degraded-success message. Subsequent profile loads fall back to defaults.
func (h *AuthHandler) Register() (uid string, err error) {
	if h.Email == nil || !strings.Contains(*h.Email, "@") {
		return "", ErrInvalidEmail
	}
	if h.Password == nil || len(*h.Password) < 6 {
		return "", ErrWeakPassword
	}
	email := strings.ToLower(strings.TrimSpace(*h.Email))

	var existing int64
	if err = db.ORM.Model(&models.Account{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		log.Println("error checking existing account:", err)
		return "", err
	}
	if existing > 0 {
		return "", ErrEmailInUse
	}

	passwordHash, err := hashPassword(*h.Password)
	if err != nil {
		return "", err
	}

	account := models.Account{
		UID:      uuid.NewString(),
		Email:    email,
		Password: passwordHash,
	}
	if err = db.ORM.Create(&account).Error; err != nil {
		log.Println("error creating account:", err)
		return "", err
	}
	h.Account = &account

	if perr := NewProfileService().CreateProfile(context.Background(), account.UID, email); perr != nil {
		// No rollback: the account stays, the caller reports degraded success.
		log.Println("profile creation failed for", account.UID, ":", perr)
		return account.UID, ErrProfileCreation
	}

	return account.UID, nil
}

// Login verifies credentials and issues a fresh token, dropping any previous
// tokens for the account.
func (h *AuthHandler) Login() (token string, err error) {
	if h.Email == nil || h.Password == nil {
		return "", ErrUserNotFound
	}
	email := strings.ToLower(strings.TrimSpace(*h.Email))

	var account models.Account
	err = db.ORM.Where("email = ?", email).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if !verifyPassword(account.Password, *h.Password) {
		return "", ErrWrongPassword
	}

	h.Account = &account
	_ = h.Logout()

	tokenBytes := make([]byte, 32)
	if _, err = rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token = hex.EncodeToString(tokenBytes)

	err = db.ORM.Create(&models.UserTokens{
		UserID: account.UID,
		Token:  token,
	}).Error
	if err != nil {
		return "", err
	}
	return token, nil
}

// Logout removes all tokens for the account.
func (h *AuthHandler) Logout() error {
	if h.Account == nil {
		return ErrUserNotFound
	}
	return db.ORM.Where("user_id = ?", h.Account.UID).Delete(&models.UserTokens{}).Error
}

// CheckToken resolves a bearer token to the account UID.
func CheckToken(token string) (uid string, err error) {
	if token == "" {
		return "", errors.New("token is empty")
	}
	var record models.UserTokens
	err = db.ORM.Where("token = ?", token).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return record.UserID, nil
}
