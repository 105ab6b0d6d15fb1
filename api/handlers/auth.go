package handlers

import (
	"errors"
	"net/http"

	"meetly/api/middleware"
	"meetly/models"
	"meetly/services"

	"github.com/gin-gonic/gin"
)

type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup creates the auth account and provisions the profile document. A
// profile-write failure after the account write is reported as degraded
// success: the account exists and can log in, the profile loads as defaults.
func Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	authHandler := services.AuthHandler{
		Email:    &req.Email,
		Password: &req.Password,
	}
	uid, err := authHandler.Register()
	if err != nil {
		if errors.Is(err, services.ErrProfileCreation) {
			c.JSON(http.StatusCreated, gin.H{
				"uid":     uid,
				"warning": services.AuthErrorMessage(err),
			})
			return
		}
		status := http.StatusBadRequest
		if !errors.Is(err, services.ErrWeakPassword) &&
			!errors.Is(err, services.ErrInvalidEmail) &&
			!errors.Is(err, services.ErrEmailInUse) {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": services.AuthErrorMessage(err)})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"uid":     uid,
		"message": "Account created",
	})
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	authHandler := services.AuthHandler{
		Email:    &req.Email,
		Password: &req.Password,
	}
	token, err := authHandler.Login()
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) || errors.Is(err, services.ErrWrongPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": services.AuthErrorMessage(err)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": services.AuthErrorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"uid":     authHandler.Account.UID,
	})
}

func Logout(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	authHandler := services.AuthHandler{
		Account: &models.Account{UID: session.UID},
	}
	if err := authHandler.Logout(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}
