package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes

	"real_estate_api/internal/auth"       // Authorization rules
	"real_estate_api/internal/domain"     // Importing domain models
	"real_estate_api/internal/middleware" // Actor extraction
	"real_estate_api/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"golang.org/x/crypto/bcrypt"   // Password hashing
	"gorm.io/gorm"                 // GORM ORM library
)

// Request struct for account update; nil fields are left untouched
type UpdateUserRequest struct {
	Username *string `json:"username"` // New username, optional
	Email    *string `json:"email"`    // New email, optional
	Password *string `json:"password"` // New password, optional, re-hashed
	Role     *string `json:"role"`     // New role, optional, must be assignable
}

// GetUserHandler returns a user's public projection, self-or-admin only
func GetUserHandler(db *gorm.DB, authz *auth.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := middleware.CurrentActor(c) // Get identity from context
		// Check if the identity exists in context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		id, ok := idParam(c) // Parse the target user ID
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		// Only the user themselves or an admin may view the account
		if !authz.Allows(actor, auth.ActionViewUser, auth.AccountRef(id)) {
			c.JSON(http.StatusForbidden, gin.H{"message": "Unauthorized"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, id).Error; err != nil {
			// If user not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		// Return the public projection
		c.JSON(http.StatusOK, publicUser(&user))
	}
}

// UpdateUserHandler applies a partial account update, self-or-admin only
func UpdateUserHandler(db *gorm.DB, authz *auth.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := middleware.CurrentActor(c) // Get identity from context
		// Check if the identity exists in context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		id, ok := idParam(c) // Parse the target user ID
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		// Only the user themselves or an admin may update the account
		if !authz.Allows(actor, auth.ActionUpdateUser, auth.AccountRef(id)) {
			c.JSON(http.StatusForbidden, gin.H{"message": "Unauthorized"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, id).Error; err != nil {
			// If user not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		var req UpdateUserRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Apply only the supplied fields
		if req.Username != nil && *req.Username != user.Username {
			// Reject if the new username belongs to a different existing user
			var other domain.User
			if err := db.Where("username = ?", *req.Username).First(&other).Error; err == nil && other.ID != user.ID {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Username already in use"})
				return
			}
			user.Username = *req.Username // Apply new username
		}
		if req.Email != nil && *req.Email != user.Email {
			// Reject if the new email belongs to a different existing user
			var other domain.User
			if err := db.Where("email = ?", *req.Email).First(&other).Error; err == nil && other.ID != user.ID {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Email already in use"})
				return
			}
			user.Email = *req.Email // Apply new email
		}
		if req.Password != nil {
			// Re-hash the new password before storing it
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
				return
			}
			user.Password = string(hash) // Apply new hash
		}
		if req.Role != nil {
			// Role changes stay within the self-service roles; admin is never grantable here
			if !domain.AssignableRole(*req.Role) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
				return
			}
			user.Role = *req.Role // Apply new role
		}
		// Persist the updated account
		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
		// Return the updated public projection
		c.JSON(http.StatusOK, publicUser(&user))
	}
}

// DeleteUserHandler removes an account and everything it owns, self-or-admin
// only. The cascade is explicit: wishlist entries and applications of the
// account, then the dependents of each owned property, then the properties,
// then the account, all in one transaction.
func DeleteUserHandler(db *gorm.DB, authz *auth.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := middleware.CurrentActor(c) // Get identity from context
		// Check if the identity exists in context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		id, ok := idParam(c) // Parse the target user ID
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		// Only the user themselves or an admin may delete the account
		if !authz.Allows(actor, auth.ActionDeleteUser, auth.AccountRef(id)) {
			c.JSON(http.StatusForbidden, gin.H{"message": "Unauthorized"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, id).Error; err != nil {
			// If user not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		var affected []uint // Wishlist owners touched by the cascade, for cache invalidation
		// Atomic cascade delete
		err := db.Transaction(func(tx *gorm.DB) error {
			var propIDs []uint // Properties listed by this user
			if err := tx.Model(&domain.Property{}).Where("listed_by = ?", user.ID).Pluck("id", &propIDs).Error; err != nil {
				return err // Return error to rollback
			}
			if len(propIDs) > 0 {
				// Record which users had these properties wishlisted
				if err := tx.Model(&domain.Wishlist{}).Where("property_id IN ?", propIDs).Distinct("user_id").Pluck("user_id", &affected).Error; err != nil {
					return err // Return error to rollback
				}
				// Remove dependents of the owned properties first (FK-safe order)
				if err := tx.Where("property_id IN ?", propIDs).Delete(&domain.Application{}).Error; err != nil {
					return err // Return error to rollback
				}
				if err := tx.Where("property_id IN ?", propIDs).Delete(&domain.Wishlist{}).Error; err != nil {
					return err // Return error to rollback
				}
			}
			// Remove the account's own applications and wishlist entries
			if err := tx.Where("user_id = ?", user.ID).Delete(&domain.Application{}).Error; err != nil {
				return err // Return error to rollback
			}
			if err := tx.Where("user_id = ?", user.ID).Delete(&domain.Wishlist{}).Error; err != nil {
				return err // Return error to rollback
			}
			// Remove the owned properties, then the account itself
			if err := tx.Where("listed_by = ?", user.ID).Delete(&domain.Property{}).Error; err != nil {
				return err // Return error to rollback
			}
			return tx.Delete(&domain.User{}, user.ID).Error // Commit on success
		})
		// Handle transaction result
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // Deleted account
				"actor":   actor.ID,    // Caller
				"error":   err.Error(), // Error message
			}).Error("Account deletion failed") // Log deletion failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
			return
		}
		// Log successful deletion
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,  // Deleted account
			"actor":   actor.ID, // Caller
		}).Info("Account deleted") // Log deletion
		// Invalidate caches the cascade may have changed
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			ctx := context.Background() // Context for Redis operations
			keys := []string{
				utils.PropertiesCacheKey(),      // Listings may have vanished
				utils.WishlistCacheKey(user.ID), // The account's own wishlist
			}
			// Wishlists of users who had the deleted user's properties saved
			for _, uid := range affected {
				keys = append(keys, utils.WishlistCacheKey(uid))
			}
			_ = utils.DeleteCache(ctx, rdb, keys...) // Invalidate
		}
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
	}
}
