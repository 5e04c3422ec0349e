package middleware

import (
	"net/http" // HTTP status codes

	"real_estate_api/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// RequireRole re-checks the user's role from the database on each request,
// so a stale token cannot outlive a role change. The caller passes the roles
// permitted on the route group.
func RequireRole(db *gorm.DB, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := CurrentActor(c) // Get identity from context
		// Check if the identity exists in context
		if !exists {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, actor.ID).Error; err != nil {
			// If user not found or any error, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Unauthorized"})
			return
		}
		// Check if the stored role is one of the permitted roles
		for _, role := range roles {
			if user.Role == role {
				c.Next() // Permitted, proceed to the next handler
				return
			}
		}
		// Role not permitted on this route
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Unauthorized"})
	}
}
