package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Account is the credential record owned by the auth subsystem. It is
// deliberately separate from User: signup writes the account first and the
// profile second with no transaction between them, so an account may exist
// without a matching profile.
type Account struct {
	UID       string    `gorm:"primaryKey;size:64" json:"uid"`
	Email     string    `gorm:"size:255;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:255" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// PermissionGrant - one schedule-visibility grant for a friend
type PermissionGrant struct {
	FriendID string `json:"friendId"`
	Level    int    `json:"level"`
}

// ScheduleEntry - one slot of a user's uploaded availability schedule
type ScheduleEntry struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Label     string `json:"label,omitempty"`
}

// StringList, PermissionList and ScheduleList are stored as JSON text columns.
// The profile documents are schema-less lists in the original store; JSON
// columns keep that shape while mapping to explicit structs.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

type PermissionList []PermissionGrant

func (l PermissionList) Value() (driver.Value, error) {
	if l == nil {
		l = PermissionList{}
	}
	return json.Marshal(l)
}

func (l *PermissionList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

type ScheduleList []ScheduleEntry

func (l ScheduleList) Value() (driver.Value, error) {
	if l == nil {
		l = ScheduleList{}
	}
	return json.Marshal(l)
}

func (l *ScheduleList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}
}

// User is the profile document: one row per account, keyed by the account UID.
// Missing profiles are tolerated (see services.LoadProfile) because signup may
// fail halfway.
type User struct {
	UID         string         `gorm:"primaryKey;size:64" json:"uid"`
	Email       string         `gorm:"size:255;index" json:"email"`
	Friends     StringList     `gorm:"type:text" json:"friends"`
	Permissions PermissionList `gorm:"type:text" json:"permissions"`
	Schedule    ScheduleList   `gorm:"type:text" json:"schedule"`
	Location    string         `gorm:"size:255" json:"location"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// HasFriend reports list membership; AddFriend uses it to stay idempotent.
func (u *User) HasFriend(friendID string) bool {
	for _, id := range u.Friends {
		if id == friendID {
			return true
		}
	}
	return false
}

// GrantFor returns the permission grant held for friendID, or nil.
func (u *User) GrantFor(friendID string) *PermissionGrant {
	for i := range u.Permissions {
		if u.Permissions[i].FriendID == friendID {
			return &u.Permissions[i]
		}
	}
	return nil
}

type UserTokens struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID string `gorm:"size:64;index:user_token_idx,unique" json:"user_id"`
	Token  string `gorm:"size:255;index:user_token_idx,unique" json:"token"`
}

func (UserTokens) TableName() string {
	return "user_tokens"
}
