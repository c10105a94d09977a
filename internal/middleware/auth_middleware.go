package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nerdgeek/tienda/internal/utils"
)

// AuthMiddleware authenticates via the session cookie set at login or
// activation, falling back to an Authorization: Bearer header.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie("token")
		if err != nil || tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == "" || tokenString == authHeader {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error": "Authentication required",
				})
				c.Abort()
				return
			}
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("superuser", claims.Superuser)
		c.Set("claims", claims)

		c.Next()
	}
}

// SuperuserMiddleware gates admin-only routes. Non-superusers get a silent
// redirect home rather than an error page.
func SuperuserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		superuser, exists := c.Get("superuser")
		if !exists || superuser != true {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		c.Next()
	}
}
