package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resort-backend/services"
)

// RequireAdmin rejects requests without a valid receptionist session cookie.
func RequireAdmin(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, _ := c.Cookie(services.AdminCookieName)
		claims, err := auth.Verify(tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}
		c.Set("admin", claims)
		c.Next()
	}
}
