package handlers

import (
	"errors"
	"net/http"
	"time"

	"meetly/api/middleware"
	"meetly/models"
	"meetly/services"

	"github.com/gin-gonic/gin"
)

const serviceName = "meetly"

type MeetingRequest struct {
	Title     string `json:"title" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Location  string `json:"location"`
	Accept    bool   `json:"accept"`
}

func validateMeetingDate(date string) error {
	_, err := time.Parse("2006-01-02", date)
	return err
}

// CreateMeeting persists a new meeting owned by the caller.
func CreateMeeting(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	var req MeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := validateMeetingDate(req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return
	}

	start := time.Now()
	coordinator := services.NewMeetingCoordinator(session)
	meeting, err := coordinator.CreateMeeting(c.Request.Context(), models.MeetingDetails{
		Title:     req.Title,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  req.Location,
		Accept:    req.Accept,
	})
	middleware.RecordMeetingOperation("create", statusLabel(err), serviceName, time.Since(start), err)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"meeting": meeting.Details()})
}

// UpdateMeeting performs a full-field save of an existing meeting.
func UpdateMeeting(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	var req MeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := validateMeetingDate(req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return
	}

	coordinator := services.NewMeetingCoordinator(session)
	meeting, err := coordinator.GetMeeting(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "meeting not found"})
		return
	}

	meeting.Title = req.Title
	meeting.Date = req.Date
	meeting.StartTime = req.StartTime
	meeting.EndTime = req.EndTime
	meeting.Location = req.Location
	meeting.Accept = req.Accept

	start := time.Now()
	err = services.SaveMeeting(c.Request.Context(), meeting)
	middleware.RecordMeetingOperation("update", statusLabel(err), serviceName, time.Since(start), err)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meeting": meeting.Details()})
}

// DeleteMeeting removes a meeting owned by the caller.
func DeleteMeeting(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	coordinator := services.NewMeetingCoordinator(session)
	meeting, err := coordinator.GetMeeting(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "meeting not found"})
		return
	}

	start := time.Now()
	err = services.DeleteMeeting(c.Request.Context(), meeting)
	middleware.RecordMeetingOperation("delete", statusLabel(err), serviceName, time.Since(start), err)
	if err != nil {
		if errors.Is(err, services.ErrMeetingNotSaved) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "meeting deleted"})
}

// SetMeetingAcceptance flips the acceptance flag and persists immediately.
func SetMeetingAcceptance(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	type req struct {
		Accept bool `json:"accept"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	coordinator := services.NewMeetingCoordinator(session)
	meeting, err := coordinator.GetMeeting(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "meeting not found"})
		return
	}

	if err := services.SetAcceptance(c.Request.Context(), meeting, r.Accept); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meeting": meeting.Details()})
}

// ConfirmMeeting snapshots an accepted meeting into confirmed_meetings.
func ConfirmMeeting(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	coordinator := services.NewMeetingCoordinator(session)
	meeting, err := coordinator.GetMeeting(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "meeting not found"})
		return
	}

	start := time.Now()
	confirmed, err := coordinator.ConfirmMeeting(c.Request.Context(), meeting)
	middleware.RecordMeetingOperation("confirm", statusLabel(err), serviceName, time.Since(start), err)
	if err != nil {
		if errors.Is(err, services.ErrNotAccepted) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meeting": confirmed.Details(), "message": "meeting confirmed"})
}

// GetUserMeetings lists all meetings owned by the caller.
func GetUserMeetings(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	coordinator := services.NewMeetingCoordinator(session)
	meetings, err := coordinator.GetUserMeetings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meetings": meetings})
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
