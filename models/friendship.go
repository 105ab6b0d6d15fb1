package models

import "time"

// Friendship statuses. A pending request transitions to accepted or rejected
// exactly once and is never deleted.
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
	FriendshipRejected = "rejected"
)

// Friendship - directional request record between two users. Sender and
// receiver emails are denormalized so the requests inbox renders without a
// second lookup.
type Friendship struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	SenderID      string    `gorm:"size:64;index" json:"sender_id"`
	SenderEmail   string    `gorm:"size:255" json:"sender_email"`
	ReceiverID    string    `gorm:"size:64;index" json:"receiver_id"`
	ReceiverEmail string    `gorm:"size:255" json:"receiver_email"`
	Status        string    `gorm:"size:20;default:'pending'" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Friendship) TableName() string {
	return "friendships"
}
