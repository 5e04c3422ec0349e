package api

import (
	"strconv" // Route parameter parsing

	"real_estate_api/internal/auth"       // Authorization rules
	"real_estate_api/internal/domain"     // Role constants
	"real_estate_api/internal/middleware" // Auth middleware

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// idParam parses the :id route parameter. A non-numeric id is treated the
// same as an absent row.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id")) // Convert to integer
	if err != nil || id <= 0 {
		return 0, false // Not a valid row ID
	}
	return uint(id), true
}

// NewRouter builds the gin engine with every route. Register and login are
// open; everything else requires a bearer token.
func NewRouter(db *gorm.DB, rdb *redis.Client, jwtSecret string) *gin.Engine {
	r := gin.Default()            // Gin router instance
	authz := auth.NewAuthorizer() // Shared rule table

	// Open routes
	r.POST("/register", RegisterHandler(db))      // Registration endpoint
	r.POST("/login", LoginHandler(db, jwtSecret)) // Login endpoint

	// Authenticated routes, with the Redis client injected into context for
	// mutation handlers to invalidate caches
	authed := r.Group("/")
	authed.Use(middleware.JWTAuthMiddleware(jwtSecret), func(c *gin.Context) {
		c.Set("redisClient", rdb)
		c.Next()
	})

	// Account routes (self-or-admin, checked per handler)
	authed.GET("/register/:id", GetUserHandler(db, authz))       // View account
	authed.PUT("/register/:id", UpdateUserHandler(db, authz))    // Update account
	authed.DELETE("/register/:id", DeleteUserHandler(db, authz)) // Delete account

	// Listing routes
	authed.GET("/properties", ListPropertiesHandler(db, rdb))          // Browse listings
	authed.POST("/properties", CreatePropertyHandler(db))              // Create listing
	authed.PUT("/properties/:id", UpdatePropertyHandler(db, authz))    // Update listing, owner only
	authed.DELETE("/properties/:id", DeletePropertyHandler(db, authz)) // Delete listing, owner only

	// Application routes
	authed.POST("/applications", SubmitApplicationHandler(db))           // Submit application
	authed.GET("/applications", ListOwnApplicationsHandler(db))          // Own applications
	authed.PUT("/applications/:id", ReviewApplicationHandler(db, authz)) // Review, agent/admin
	// System-wide application listing, gated by a role check against the store
	authed.GET("/applications/agent",
		middleware.RequireRole(db, domain.RoleAgent, domain.RoleAdmin),
		ListAllApplicationsHandler(db))

	// Wishlist routes
	authed.GET("/wishlist", ListWishlistHandler(db, rdb))     // List saved properties
	authed.POST("/wishlist", AddWishlistItemHandler(db))      // Save a property
	authed.DELETE("/wishlist", RemoveWishlistItemHandler(db)) // Remove a saved property

	return r
}
