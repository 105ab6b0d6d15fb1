package handlers

import (
	"context"
	"errors"
	"net/http"

	"meetly/api/middleware"
	"meetly/services"

	"github.com/gin-gonic/gin"
)

var friendshipService = services.NewFriendshipService()

// SearchFriend matches by exact, case-insensitive email. A miss returns the
// fixed not-found message so the search panel can surface it verbatim.
func SearchFriend(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
		return
	}

	account, err := friendshipService.SearchByEmail(c.Request.Context(), session, email)
	if err != nil {
		if errors.Is(err, services.ErrNoUserFound) || errors.Is(err, services.ErrSelfRequest) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": gin.H{"uid": account.UID, "email": account.Email}})
}

// SendFriendRequest creates a pending friendship addressed to the receiver.
// The receiver's email is resolved server-side from the account record.
func SendFriendRequest(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	type req struct {
		ReceiverID string `json:"receiver_id" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	friendship, err := friendshipService.SendRequest(c.Request.Context(), session, r.ReceiverID)
	if err != nil {
		if errors.Is(err, services.ErrRequestAlreadySent) || errors.Is(err, services.ErrSelfRequest) {
			c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
			return
		}
		if errors.Is(err, services.ErrNoUserFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "friend request sent", "friendship": friendship})
}

// AcceptFriendRequest transitions a pending request addressed to the caller.
func AcceptFriendRequest(c *gin.Context) {
	transitionFriendRequest(c, friendshipService.Accept, "friend request accepted")
}

// RejectFriendRequest transitions a pending request addressed to the caller.
func RejectFriendRequest(c *gin.Context) {
	transitionFriendRequest(c, friendshipService.Reject, "friend request rejected")
}

func transitionFriendRequest(c *gin.Context, fn func(ctx context.Context, session *services.Session, id string) error, message string) {
	session := middleware.SessionFromContext(c)
	type req struct {
		FriendshipID string `json:"friendship_id" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := fn(c.Request.Context(), session, r.FriendshipID); err != nil {
		if errors.Is(err, services.ErrRequestNotPending) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// GetFriends lists the ids of accepted friends.
func GetFriends(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	ids, err := friendshipService.AcceptedFriendIDs(c.Request.Context(), session.UID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"friends": ids})
}

// GetPendingRequests returns the requests inbox.
func GetPendingRequests(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	requests, err := friendshipService.PendingFor(c.Request.Context(), session.UID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}
