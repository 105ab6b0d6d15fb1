package handlers

import (
	"net/http"

	"meetly/api/middleware"
	"meetly/models"
	"meetly/services"

	"github.com/gin-gonic/gin"
)

var profileService = services.NewProfileService()

// GetProfile returns the caller's profile document, defaults when absent.
func GetProfile(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	profile, err := profileService.LoadProfile(c.Request.Context(), session.UID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// AddFriend appends to the caller's friend list and records a pending
// friendship. See services.ProfileService.AddFriend for the write semantics.
func AddFriend(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	type req struct {
		FriendID string `json:"friend_id" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := profileService.AddFriend(c.Request.Context(), session, r.FriendID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "friend added"})
}

// SetPermission upserts a schedule-visibility grant.
func SetPermission(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	type req struct {
		FriendID string `json:"friend_id" binding:"required"`
		Level    int    `json:"level"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := profileService.SetPermission(c.Request.Context(), session.UID, r.FriendID, r.Level); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "permission updated"})
}

// UploadSchedule replaces the caller's schedule wholesale.
func UploadSchedule(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	type req struct {
		Schedule models.ScheduleList `json:"schedule"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := profileService.UploadSchedule(c.Request.Context(), session.UID, r.Schedule); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "schedule uploaded"})
}

// GetFriendSchedule returns a friend's schedule when the caller holds a
// grant for that friend, 403 otherwise.
func GetFriendSchedule(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	friendID := c.Param("id")
	if friendID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "friend id is required"})
		return
	}

	schedule, err := profileService.ViewFriendSchedule(c.Request.Context(), session.UID, friendID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if schedule == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "no permission to view this schedule"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}
