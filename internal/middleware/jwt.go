package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"real_estate_api/internal/auth"  // Actor identity
	"real_estate_api/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// Context key under which the authenticated actor is stored
const ActorKey = "actor"

// JWTAuthMiddleware validates JWT tokens and extracts the caller's identity
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string and parse it
		claims, err := utils.ParseJWT(tokenStr, secret)       // Parse the JWT token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		// Store the full identity in context for handlers and role gates
		c.Set(ActorKey, auth.Actor{
			ID:       claims.UserID,   // User ID claim
			Username: claims.Username, // Username claim
			Role:     claims.Role,     // Role claim
		})
		c.Next() // Proceed to the next handler
	}
}

// CurrentActor returns the authenticated identity stored by JWTAuthMiddleware.
func CurrentActor(c *gin.Context) (auth.Actor, bool) {
	v, exists := c.Get(ActorKey) // Get actor from context
	if !exists {
		return auth.Actor{}, false // Not authenticated
	}
	actor, ok := v.(auth.Actor) // Type assertion
	return actor, ok
}
