package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meetly/db"
	"meetly/models"

	"github.com/google/uuid"
)

var (
	ErrMeetingNotSaved = errors.New("cannot delete a meeting that was never saved")
	ErrNotAccepted     = errors.New("meeting is not accepted")
)

// SaveMeeting inserts the meeting on first save (assigning the store id and
// creation stamp) and performs a full-field update on every save after that.
// Saving twice with the same id never creates a second row.
func SaveMeeting(ctx context.Context, m *models.Meeting) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
		m.CreatedAt = time.Now()
		m.UpdatedAt = m.CreatedAt
		if err := db.GetWriteDB(ctx).Create(m).Error; err != nil {
			m.ID = ""
			return fmt.Errorf("failed to create meeting: %w", err)
		}
		return nil
	}

	m.UpdatedAt = time.Now()
	err := db.GetWriteDB(ctx).Model(&models.Meeting{}).
		Where("id = ?", m.ID).
		Updates(map[string]interface{}{
			"title":      m.Title,
			"date":       m.Date,
			"start_time": m.StartTime,
			"end_time":   m.EndTime,
			"location":   m.Location,
			"accept":     m.Accept,
			"user_id":    m.UserID,
			"updated_at": m.UpdatedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update meeting: %w", err)
	}
	return nil
}

// DeleteMeeting removes the meeting row. An unsaved meeting fails before any
// store call is attempted.
func DeleteMeeting(ctx context.Context, m *models.Meeting) error {
	if m.ID == "" {
		return ErrMeetingNotSaved
	}
	if err := db.GetWriteDB(ctx).Delete(&models.Meeting{}, "id = ?", m.ID).Error; err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	return nil
}

// SetAcceptance flips the acceptance flag and persists it immediately.
func SetAcceptance(ctx context.Context, m *models.Meeting, status bool) error {
	m.Accept = status
	return SaveMeeting(ctx, m)
}

// MeetingCoordinator mediates between a signed-in session and its meetings.
type MeetingCoordinator struct {
	Session *Session
}

func NewMeetingCoordinator(session *Session) *MeetingCoordinator {
	return &MeetingCoordinator{Session: session}
}

// PickMeeting returns the first candidate, or nil for an empty list.
// TODO: replace with a selection policy once availability matching lands.
func (mc *MeetingCoordinator) PickMeeting(candidates []*models.Meeting) *models.Meeting {
	if len(candidates) == 0 {
		return nil
	}
	return candidates[0]
}

// ConfirmMeeting snapshots an accepted meeting into the confirmed-meetings
// collection, stamped with confirmation time and the confirming user, and
// returns the meeting unchanged. Unaccepted meetings are rejected.
func (mc *MeetingCoordinator) ConfirmMeeting(ctx context.Context, m *models.Meeting) (*models.Meeting, error) {
	if !m.Accept {
		return nil, ErrNotAccepted
	}

	snapshot := models.ConfirmedMeeting{
		ID:          uuid.NewString(),
		MeetingID:   m.ID,
		Title:       m.Title,
		Date:        m.Date,
		StartTime:   m.StartTime,
		EndTime:     m.EndTime,
		Location:    m.Location,
		UserID:      m.UserID,
		ConfirmedAt: time.Now(),
		ConfirmedBy: mc.Session.UID,
	}
	if err := db.GetWriteDB(ctx).Create(&snapshot).Error; err != nil {
		return nil, fmt.Errorf("failed to confirm meeting: %w", err)
	}
	return m, nil
}

// GetUserMeetings lists all meetings owned by the session user.
func (mc *MeetingCoordinator) GetUserMeetings(ctx context.Context) ([]models.Meeting, error) {
	var meetings []models.Meeting
	err := db.GetReadOnlyDB(ctx).Where("user_id = ?", mc.Session.UID).Find(&meetings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get meetings: %w", err)
	}
	return meetings, nil
}

// GetMeeting loads one meeting owned by the session user.
func (mc *MeetingCoordinator) GetMeeting(ctx context.Context, id string) (*models.Meeting, error) {
	var meeting models.Meeting
	err := db.GetReadOnlyDB(ctx).Where("id = ? AND user_id = ?", id, mc.Session.UID).First(&meeting).Error
	if err != nil {
		return nil, fmt.Errorf("meeting not found: %w", err)
	}
	return &meeting, nil
}

// CreateMeeting constructs a meeting owned by the session user and persists it.
func (mc *MeetingCoordinator) CreateMeeting(ctx context.Context, details models.MeetingDetails) (*models.Meeting, error) {
	meeting := models.Meeting{
		Title:     details.Title,
		Date:      details.Date,
		StartTime: details.StartTime,
		EndTime:   details.EndTime,
		Location:  details.Location,
		Accept:    details.Accept,
		UserID:    mc.Session.UID,
	}
	if err := SaveMeeting(ctx, &meeting); err != nil {
		return nil, err
	}
	return &meeting, nil
}
