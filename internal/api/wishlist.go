package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"time"     // Time durations

	"real_estate_api/internal/domain"     // Importing domain models
	"real_estate_api/internal/middleware" // Actor extraction
	"real_estate_api/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// Request struct for adding or removing a wishlist entry. A zero or absent
// property_id falls through to the lookup and surfaces as NotFound.
type WishlistRequest struct {
	PropertyID uint `json:"property_id"` // Target property
}

// WishlistItemResponse is a wishlist entry joined with its property snapshot
type WishlistItemResponse struct {
	WishlistID          uint    `json:"wishlist_id"`          // Entry ID
	PropertyID          uint    `json:"property_id"`          // Saved property
	PropertyTitle       string  `json:"property_title"`       // Title snapshot
	PropertyDescription string  `json:"property_description"` // Description snapshot
	PropertyPrice       float64 `json:"property_price"`       // Price snapshot
	PropertyLocation    string  `json:"property_location"`    // Location snapshot
}

// ListWishlistHandler returns the caller's wishlist joined with property
// details. Duplicate entries appear once per saved row.
func ListWishlistHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := middleware.CurrentActor(c) // Get identity from context
		// Check if the identity exists in context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := context.Background() // Context for Redis operations
		cacheKey := utils.WishlistCacheKey(actor.ID)
		items := make([]WishlistItemResponse, 0) // Joined rows
		// Try cache first
		found, err := utils.GetCache(ctx, rdb, cacheKey, &items)
		if err == nil && found {
			// Return cached wishlist
			c.JSON(http.StatusOK, items)
			return
		}
		// Join wishlist entries with their property snapshot
		if err := db.Table("wishlists").
			Select("wishlists.id AS wishlist_id, properties.id AS property_id, properties.title AS property_title, properties.description AS property_description, properties.price AS property_price, properties.location AS property_location").
			Joins("JOIN properties ON properties.id = wishlists.property_id").
			Where("wishlists.user_id = ?", actor.ID).
			Scan(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, items, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, items)                                  // Return joined rows
	}
}

// AddWishlistItemHandler saves a property to the caller's wishlist. Entries
// are inserted unconditionally; re-adding a property yields a duplicate.
func AddWishlistItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := middleware.CurrentActor(c) // Get identity from context
		// Check if the identity exists in context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req WishlistRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// The target property must exist
		var property domain.Property
		if err := db.First(&property, req.PropertyID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Property not found"})
			return
		}
		// Insert the entry; no uniqueness check per product behavior
		item := domain.Wishlist{
			UserID:     actor.ID,    // Owning user
			PropertyID: property.ID, // Saved property
		}
		// Persist the entry
		if err := db.Create(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add wishlist item"})
			return
		}
		// Invalidate the caller's cached wishlist
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.DeleteCache(context.Background(), rdb, utils.WishlistCacheKey(actor.ID))
		}
		// Return the created entry
		c.JSON(http.StatusCreated, item)
	}
}

// RemoveWishlistItemHandler deletes one (caller, property) wishlist entry
func RemoveWishlistItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := middleware.CurrentActor(c) // Get identity from context
		// Check if the identity exists in context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req WishlistRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var item domain.Wishlist // Find the matching entry
		// The pair must exist for the caller
		if err := db.Where("user_id = ? AND property_id = ?", actor.ID, req.PropertyID).First(&item).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Wishlist item not found"})
			return
		}
		// Delete the single matched entry; duplicates keep their other rows
		if err := db.Delete(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove wishlist item"})
			return
		}
		// Invalidate the caller's cached wishlist
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.DeleteCache(context.Background(), rdb, utils.WishlistCacheKey(actor.ID))
		}
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Wishlist item removed"})
	}
}
