package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"meetly/db"
	"meetly/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Messages surfaced verbatim by the search-and-request flow.
var (
	ErrNoUserFound        = errors.New("No user found with that email.")
	ErrSelfRequest        = errors.New("You cannot send a friend request to yourself")
	ErrRequestAlreadySent = errors.New("Friend request already sent")
	ErrRequestNotPending  = errors.New("friend request is not pending")
)

type FriendshipService struct{}

func NewFriendshipService() *FriendshipService {
	return &FriendshipService{}
}

// SearchByEmail matches by exact, case-insensitive email equality only.
// Searching for your own email is blocked.
func (fs *FriendshipService) SearchByEmail(ctx context.Context, session *Session, email string) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == session.Email {
		return nil, ErrSelfRequest
	}

	var account models.Account
	err := db.GetReadOnlyDB(ctx).Where("email = ?", email).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoUserFound
		}
		return nil, fmt.Errorf("failed to search user: %w", err)
	}
	return &account, nil
}

// SendRequest creates a pending friendship from the session user to
// receiverID. A pending request between the same ordered pair is rejected at
// request time. The receiver email is resolved from the accounts table, never
// taken from the caller.
func (fs *FriendshipService) SendRequest(ctx context.Context, session *Session, receiverID string) (*models.Friendship, error) {
	if receiverID == session.UID {
		return nil, ErrSelfRequest
	}

	var receiver models.Account
	err := db.GetReadOnlyDB(ctx).Where("uid = ?", receiverID).First(&receiver).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoUserFound
		}
		return nil, fmt.Errorf("failed to load receiver account: %w", err)
	}

	var existing models.Friendship
	err = db.GetReadOnlyDB(ctx).Where(
		"sender_id = ? AND receiver_id = ? AND status = ?",
		session.UID, receiverID, models.FriendshipPending,
	).First(&existing).Error
	if err == nil {
		return nil, ErrRequestAlreadySent
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing request: %w", err)
	}

	friendship := models.Friendship{
		ID:            uuid.NewString(),
		SenderID:      session.UID,
		SenderEmail:   session.Email,
		ReceiverID:    receiverID,
		ReceiverEmail: strings.ToLower(receiver.Email),
		Status:        models.FriendshipPending,
	}
	if err := db.GetWriteDB(ctx).Create(&friendship).Error; err != nil {
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}

	PublishFriendshipEvent(ctx, FriendshipEvent{
		Event:      "request_sent",
		UserID:     receiverID,
		FriendID:   session.UID,
		FriendMail: session.Email,
		CreatedAt:  time.Now(),
	})
	return &friendship, nil
}

// Accept transitions a pending request to accepted. A request that already
// transitioned cannot transition again.
func (fs *FriendshipService) Accept(ctx context.Context, session *Session, friendshipID string) error {
	return fs.transition(ctx, session, friendshipID, models.FriendshipAccepted)
}

// Reject transitions a pending request to rejected.
func (fs *FriendshipService) Reject(ctx context.Context, session *Session, friendshipID string) error {
	return fs.transition(ctx, session, friendshipID, models.FriendshipRejected)
}

func (fs *FriendshipService) transition(ctx context.Context, session *Session, friendshipID, status string) error {
	var friendship models.Friendship
	err := db.GetWriteDB(ctx).Where(
		"id = ? AND receiver_id = ?", friendshipID, session.UID,
	).First(&friendship).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("friend request not found")
		}
		return fmt.Errorf("failed to load friend request: %w", err)
	}
	if friendship.Status != models.FriendshipPending {
		return ErrRequestNotPending
	}

	friendship.Status = status
	friendship.UpdatedAt = time.Now()
	if err := db.GetWriteDB(ctx).Save(&friendship).Error; err != nil {
		return fmt.Errorf("failed to update friend request: %w", err)
	}

	PublishFriendshipEvent(ctx, FriendshipEvent{
		Event:      "request_" + status,
		UserID:     friendship.SenderID,
		FriendID:   session.UID,
		FriendMail: session.Email,
		CreatedAt:  time.Now(),
	})
	return nil
}

// AcceptedFriendIDs returns the ids of everyone the user holds an accepted
// friendship with, whichever side sent the request. Order follows the store
// with no explicit ordering clause.
func (fs *FriendshipService) AcceptedFriendIDs(ctx context.Context, uid string) ([]string, error) {
	var friendships []models.Friendship
	err := db.GetReadOnlyDB(ctx).Where(
		"(sender_id = ? OR receiver_id = ?) AND status = ?",
		uid, uid, models.FriendshipAccepted,
	).Find(&friendships).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get friendships: %w", err)
	}

	ids := make([]string, 0, len(friendships))
	seen := make(map[string]bool)
	for _, f := range friendships {
		friendID := f.SenderID
		if friendID == uid {
			friendID = f.ReceiverID
		}
		if !seen[friendID] {
			seen[friendID] = true
			ids = append(ids, friendID)
		}
	}
	return ids, nil
}

// PendingFor returns the requests inbox: pending friendships addressed to uid.
func (fs *FriendshipService) PendingFor(ctx context.Context, uid string) ([]models.Friendship, error) {
	var requests []models.Friendship
	err := db.GetReadOnlyDB(ctx).Where(
		"receiver_id = ? AND status = ?", uid, models.FriendshipPending,
	).Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending requests: %w", err)
	}
	return requests, nil
}
