package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"time"     // Time durations

	"real_estate_api/internal/auth"       // Authorization rules
	"real_estate_api/internal/domain"     // Importing domain models
	"real_estate_api/internal/middleware" // Actor extraction
	"real_estate_api/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// Request struct for creating a listing
type CreatePropertyRequest struct {
	Title       string  `json:"title" binding:"required"`       // Listing title
	Description string  `json:"description" binding:"required"` // Description
	Price       float64 `json:"price" binding:"required,gt=0"`  // Asking price
	Location    string  `json:"location" binding:"required"`    // Location
}

// Request struct for updating a listing; nil fields are left untouched
type UpdatePropertyRequest struct {
	Title       *string  `json:"title"`       // New title, optional
	Description *string  `json:"description"` // New description, optional
	Price       *float64 `json:"price"`       // New price, optional
	Location    *string  `json:"location"`    // New location, optional
}

// ListPropertiesHandler returns every listing to any authenticated user.
// There is no ownership filter; browsing is system-wide.
func ListPropertiesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Context for Redis operations
		cacheKey := utils.PropertiesCacheKey()
		var properties []domain.Property // Slice to hold listings
		// Try to get from cache
		found, err := utils.GetCache(ctx, rdb, cacheKey, &properties)
		if err == nil && found {
			// Return cached listings
			c.JSON(http.StatusOK, properties)
			return
		}
		// If not in cache, fetch from DB
		if err := db.Find(&properties).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch properties"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, properties, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, properties)                                  // Return listings
	}
}

// CreatePropertyHandler creates a listing owned by the caller. Any
// authenticated role may list a property.
func CreatePropertyHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := middleware.CurrentActor(c) // Get identity from context
		// Check if the identity exists in context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req CreatePropertyRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Create the listing with the caller as owner
		property := domain.Property{
			Title:       req.Title,       // Listing title
			Description: req.Description, // Description
			Price:       req.Price,       // Asking price
			Location:    req.Location,    // Location
			ListedBy:    actor.ID,        // Owner is always the caller
		}
		// Persist the listing
		if err := db.Create(&property).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create property"})
			return
		}
		// Log the new listing
		logrus.WithFields(logrus.Fields{
			"property_id": property.ID, // New listing ID
			"listed_by":   actor.ID,    // Owner
			"price":       req.Price,   // Asking price
		}).Info("Property listed") // Log creation
		// Invalidate the cached listing feed
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.DeleteCache(context.Background(), rdb, utils.PropertiesCacheKey())
		}
		// Return the created listing
		c.JSON(http.StatusCreated, property)
	}
}

// UpdatePropertyHandler applies a partial update to a listing, owner only
func UpdatePropertyHandler(db *gorm.DB, authz *auth.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := middleware.CurrentActor(c) // Get identity from context
		// Check if the identity exists in context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		id, ok := idParam(c) // Parse the target listing ID
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": "Property not found"})
			return
		}
		var property domain.Property // Fetch listing from database
		if err := db.First(&property, id).Error; err != nil {
			// Absent listings are reported before any ownership check
			c.JSON(http.StatusNotFound, gin.H{"message": "Property not found"})
			return
		}
		// Only the listing user may update; admins get no override here
		if !authz.Allows(actor, auth.ActionUpdateProperty, auth.ListingRef(property.ListedBy)) {
			c.JSON(http.StatusForbidden, gin.H{"message": "Unauthorized to update this property"})
			return
		}
		var req UpdatePropertyRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Apply only the supplied fields
		if req.Title != nil {
			property.Title = *req.Title // New title
		}
		if req.Description != nil {
			property.Description = *req.Description // New description
		}
		if req.Price != nil {
			property.Price = *req.Price // New price
		}
		if req.Location != nil {
			property.Location = *req.Location // New location
		}
		// Persist the updated listing
		if err := db.Save(&property).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update property"})
			return
		}
		// Invalidate the listing feed and the wishlists embedding the old
		// snapshot; cached wishlist rows carry title, description, price and
		// location
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			ctx := context.Background() // Context for Redis operations
			keys := []string{utils.PropertiesCacheKey()}
			var affected []uint // Wishlist owners holding the stale snapshot
			if err := db.Model(&domain.Wishlist{}).Where("property_id = ?", property.ID).Distinct("user_id").Pluck("user_id", &affected).Error; err == nil {
				for _, uid := range affected {
					keys = append(keys, utils.WishlistCacheKey(uid))
				}
			}
			_ = utils.DeleteCache(ctx, rdb, keys...) // Invalidate
		}
		// Return the updated listing
		c.JSON(http.StatusOK, property)
	}
}

// DeletePropertyHandler removes a listing and its dependents, owner only.
// Applications and wishlist entries referencing the listing are removed in
// the same transaction.
func DeletePropertyHandler(db *gorm.DB, authz *auth.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := middleware.CurrentActor(c) // Get identity from context
		// Check if the identity exists in context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		id, ok := idParam(c) // Parse the target listing ID
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": "Property not found"})
			return
		}
		var property domain.Property // Fetch listing from database
		if err := db.First(&property, id).Error; err != nil {
			// Absent listings are reported before any ownership check
			c.JSON(http.StatusNotFound, gin.H{"message": "Property not found"})
			return
		}
		// Only the listing user may delete; admins get no override here
		if !authz.Allows(actor, auth.ActionDeleteProperty, auth.ListingRef(property.ListedBy)) {
			c.JSON(http.StatusForbidden, gin.H{"message": "Unauthorized to delete this property"})
			return
		}
		var affected []uint // Wishlist owners touched by the cascade, for cache invalidation
		// Atomic cascade delete
		err := db.Transaction(func(tx *gorm.DB) error {
			// Record which users had this property wishlisted
			if err := tx.Model(&domain.Wishlist{}).Where("property_id = ?", property.ID).Distinct("user_id").Pluck("user_id", &affected).Error; err != nil {
				return err // Return error to rollback
			}
			// Remove dependents first (FK-safe order)
			if err := tx.Where("property_id = ?", property.ID).Delete(&domain.Application{}).Error; err != nil {
				return err // Return error to rollback
			}
			if err := tx.Where("property_id = ?", property.ID).Delete(&domain.Wishlist{}).Error; err != nil {
				return err // Return error to rollback
			}
			return tx.Delete(&domain.Property{}, property.ID).Error // Commit on success
		})
		// Handle transaction result
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"property_id": property.ID, // Target listing
				"actor":       actor.ID,    // Caller
				"error":       err.Error(), // Error message
			}).Error("Property deletion failed") // Log deletion failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete property"})
			return
		}
		// Log successful deletion
		logrus.WithFields(logrus.Fields{
			"property_id": property.ID, // Deleted listing
			"actor":       actor.ID,    // Caller
		}).Info("Property deleted") // Log deletion
		// Invalidate the listing feed and the wishlists that referenced it
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			ctx := context.Background() // Context for Redis operations
			keys := []string{utils.PropertiesCacheKey()}
			for _, uid := range affected {
				keys = append(keys, utils.WishlistCacheKey(uid)) // Stale joined rows
			}
			_ = utils.DeleteCache(ctx, rdb, keys...) // Invalidate
		}
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Property deleted"})
	}
}
