package models

import "time"

// Meeting - one calendar event. ID is empty until the first successful save;
// after that a save is a full-field update.
type Meeting struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Title     string    `gorm:"size:255" json:"title"`
	Date      string    `gorm:"size:10;index" json:"date"` // YYYY-MM-DD
	StartTime string    `gorm:"size:5" json:"startTime"`
	EndTime   string    `gorm:"size:5" json:"endTime"`
	Location  string    `gorm:"size:255" json:"location"`
	Accept    bool      `json:"accept"`
	UserID    string    `gorm:"size:64;index" json:"userId"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Meeting) TableName() string {
	return "events"
}

// MeetingDetails is the immutable snapshot returned to callers.
type MeetingDetails struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Location  string `json:"location"`
	Accept    bool   `json:"accept"`
	UserID    string `json:"userId"`
}

func (m *Meeting) Details() MeetingDetails {
	return MeetingDetails{
		ID:        m.ID,
		Title:     m.Title,
		Date:      m.Date,
		StartTime: m.StartTime,
		EndTime:   m.EndTime,
		Location:  m.Location,
		Accept:    m.Accept,
		UserID:    m.UserID,
	}
}

// ConfirmedMeeting - append-only snapshot taken when an accepted meeting is
// confirmed. Never updated or deleted.
type ConfirmedMeeting struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	MeetingID   string    `gorm:"size:64;index" json:"meeting_id"`
	Title       string    `gorm:"size:255" json:"title"`
	Date        string    `gorm:"size:10" json:"date"`
	StartTime   string    `gorm:"size:5" json:"startTime"`
	EndTime     string    `gorm:"size:5" json:"endTime"`
	Location    string    `gorm:"size:255" json:"location"`
	UserID      string    `gorm:"size:64;index" json:"userId"`
	ConfirmedAt time.Time `json:"confirmedAt"`
	ConfirmedBy string    `gorm:"size:64" json:"confirmedBy"`
}

func (ConfirmedMeeting) TableName() string {
	return "confirmed_meetings"
}
