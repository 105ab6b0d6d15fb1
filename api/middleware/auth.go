package middleware

import (
	"net/http"
	"strings"

	"meetly/services"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware resolves the bearer token into a session context and aborts
// unauthenticated requests. Handlers read the session with SessionFromContext.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required: provide Authorization Bearer token"})
			c.Abort()
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		session, err := services.SessionFromToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}
		c.Set("session", session)
		c.Next()
	}
}

// SessionFromContext returns the session placed by AuthMiddleware, or nil.
func SessionFromContext(c *gin.Context) *services.Session {
	value, ok := c.Get("session")
	if !ok {
		return nil
	}
	session, ok := value.(*services.Session)
	if !ok {
		return nil
	}
	return session
}
