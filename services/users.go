package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"meetly/db"
	"meetly/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileService struct{}

func NewProfileService() *ProfileService {
	return &ProfileService{}
}

// LoadProfile fetches the profile document for uid. A missing document is not
// an error: signup can fail after the account write, so absent profiles fall
// back to an empty one keyed by the uid.
func (ps *ProfileService) LoadProfile(ctx context.Context, uid string) (*models.User, error) {
	var user models.User
	err := db.GetReadOnlyDB(ctx).Where("uid = ?", uid).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.User{
				UID:         uid,
				Friends:     models.StringList{},
				Permissions: models.PermissionList{},
				Schedule:    models.ScheduleList{},
			}, nil
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if user.Friends == nil {
		user.Friends = models.StringList{}
	}
	if user.Permissions == nil {
		user.Permissions = models.PermissionList{}
	}
	if user.Schedule == nil {
		user.Schedule = models.ScheduleList{}
	}
	return &user, nil
}

// CreateProfile writes the initial empty profile document.
func (ps *ProfileService) CreateProfile(ctx context.Context, uid, email string) error {
	profile := models.User{
		UID:         uid,
		Email:       email,
		Friends:     models.StringList{},
		Permissions: models.PermissionList{},
		Schedule:    models.ScheduleList{},
	}
	if err := db.GetWriteDB(ctx).Create(&profile).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// AddFriend appends friendID to the caller's friend list (membership check
// keeps the list idempotent) and then writes a pending Friendship record.
// The friendship write happens on every call, with no duplicate check: two
// independent writes, no transaction between them. Known behavior, kept
// as-is; SendFriendRequest is the deduplicating path.
func (ps *ProfileService) AddFriend(ctx context.Context, session *Session, friendID string) error {
	profile, err := ps.LoadProfile(ctx, session.UID)
	if err != nil {
		return err
	}

	if !profile.HasFriend(friendID) {
		profile.Friends = append(profile.Friends, friendID)
		err = db.GetWriteDB(ctx).Model(&models.User{}).
			Where("uid = ?", session.UID).
			Update("friends", profile.Friends).Error
		if err != nil {
			return fmt.Errorf("failed to update friend list: %w", err)
		}
	}

	var friendAccount models.Account
	err = db.GetReadOnlyDB(ctx).Where("uid = ?", friendID).First(&friendAccount).Error
	if err != nil {
		return fmt.Errorf("friend account not found: %w", err)
	}

	friendship := models.Friendship{
		ID:            uuid.NewString(),
		SenderID:      session.UID,
		SenderEmail:   session.Email,
		ReceiverID:    friendID,
		ReceiverEmail: friendAccount.Email,
		Status:        models.FriendshipPending,
	}
	if err = db.GetWriteDB(ctx).Create(&friendship).Error; err != nil {
		return fmt.Errorf("failed to create friendship: %w", err)
	}
	return nil
}

// SetPermission upserts the schedule-visibility grant for friendID.
func (ps *ProfileService) SetPermission(ctx context.Context, uid, friendID string, level int) error {
	profile, err := ps.LoadProfile(ctx, uid)
	if err != nil {
		return err
	}
	updated := false
	for i := range profile.Permissions {
		if profile.Permissions[i].FriendID == friendID {
			profile.Permissions[i].Level = level
			updated = true
			break
		}
	}
	if !updated {
		profile.Permissions = append(profile.Permissions, models.PermissionGrant{
			FriendID: friendID,
			Level:    level,
		})
	}
	err = db.GetWriteDB(ctx).Model(&models.User{}).
		Where("uid = ?", uid).
		Update("permissions", profile.Permissions).Error
	if err != nil {
		return fmt.Errorf("failed to update permissions: %w", err)
	}
	return nil
}

// GetPermission returns the grant held for friendID, or nil.
func (ps *ProfileService) GetPermission(ctx context.Context, uid, friendID string) (*models.PermissionGrant, error) {
	profile, err := ps.LoadProfile(ctx, uid)
	if err != nil {
		return nil, err
	}
	return profile.GrantFor(friendID), nil
}

// UploadSchedule replaces the stored schedule wholesale.
func (ps *ProfileService) UploadSchedule(ctx context.Context, uid string, schedule models.ScheduleList) error {
	if schedule == nil {
		schedule = models.ScheduleList{}
	}
	err := db.GetWriteDB(ctx).Model(&models.User{}).
		Where("uid = ?", uid).
		Updates(map[string]interface{}{
			"schedule":   schedule,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to upload schedule: %w", err)
	}
	InvalidateScheduleCache(ctx, uid)
	return nil
}

// ViewFriendSchedule returns the friend's stored schedule, or nil when the
// caller holds no grant for that friend. Any grant suffices; the level is not
// compared against a threshold.
func (ps *ProfileService) ViewFriendSchedule(ctx context.Context, uid, friendID string) (models.ScheduleList, error) {
	grant, err := ps.GetPermission(ctx, uid, friendID)
	if err != nil {
		return nil, err
	}
	if grant == nil {
		return nil, nil
	}

	if cached, ok := cachedSchedule(ctx, friendID); ok {
		return cached, nil
	}

	friend, err := ps.LoadProfile(ctx, friendID)
	if err != nil {
		return nil, err
	}
	cacheSchedule(ctx, friendID, friend.Schedule)
	return friend.Schedule, nil
}

const scheduleCacheTTL = 5 * time.Minute

func scheduleCacheKey(uid string) string {
	return "schedule:" + uid
}

// Schedule reads are cached best-effort; a missing redis client or a cache
// error falls through to the database.
func cachedSchedule(ctx context.Context, uid string) (models.ScheduleList, bool) {
	if RedisClient == nil {
		return nil, false
	}
	raw, err := RedisClient.Get(ctx, scheduleCacheKey(uid)).Result()
	if err != nil {
		return nil, false
	}
	var schedule models.ScheduleList
	if err := json.Unmarshal([]byte(raw), &schedule); err != nil {
		log.Println("failed to decode cached schedule:", err)
		return nil, false
	}
	return schedule, true
}

func cacheSchedule(ctx context.Context, uid string, schedule models.ScheduleList) {
	if RedisClient == nil {
		return
	}
	raw, err := json.Marshal(schedule)
	if err != nil {
		return
	}
	if err := RedisClient.Set(ctx, scheduleCacheKey(uid), raw, scheduleCacheTTL).Err(); err != nil {
		log.Println("failed to cache schedule:", err)
	}
}

func InvalidateScheduleCache(ctx context.Context, uid string) {
	if RedisClient == nil {
		return
	}
	if err := RedisClient.Del(ctx, scheduleCacheKey(uid)).Err(); err != nil {
		log.Println("failed to invalidate schedule cache:", err)
	}
}
