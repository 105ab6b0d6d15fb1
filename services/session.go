package services

import (
	"errors"
	"strings"

	"meetly/db"
	"meetly/models"

	"gorm.io/gorm"
)

// Session is the explicit session context: resolved once per request from the
// bearer token and handed to the services that need the signed-in identity.
// Replaces the implicit global auth-state listener of earlier revisions.
type Session struct {
	UID   string
	Email string
}

// SessionFromToken resolves a bearer token into a Session. The email comes
// from the account record, not the profile, so a missing profile document
// does not break sign-in.
func SessionFromToken(token string) (*Session, error) {
	uid, err := CheckToken(token)
	if err != nil {
		return nil, err
	}
	var account models.Account
	err = db.ORM.Where("uid = ?", uid).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &Session{UID: account.UID, Email: strings.ToLower(account.Email)}, nil
}
