package api

import (
	"net/http" // HTTP status codes

	"real_estate_api/internal/domain" // Importing domain models
	"real_estate_api/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// Request struct for registration
type RegisterRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
	Role     string `json:"role" binding:"required"`     // Role must be provided
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Response struct for authentication
type AuthResponse struct {
	AccessToken string `json:"access_token"` // Identity token
}

// UserResponse is the public projection of a user account
type UserResponse struct {
	ID       uint   `json:"id"`       // User ID
	Username string `json:"username"` // Username
	Email    string `json:"email"`    // Email
	Role     string `json:"role"`     // Role
}

// publicUser maps a user row to its public projection
func publicUser(u *domain.User) UserResponse {
	return UserResponse{
		ID:       u.ID,       // User ID
		Username: u.Username, // Username
		Email:    u.Email,    // Email
		Role:     u.Role,     // Role
	}
}

// RegisterHandler creates a new user account
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Only self-service roles may be chosen; admin is seeded out-of-band
		if !domain.AssignableRole(req.Role) {
			// If role is invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		// Reject duplicate emails before creating the account
		var existing domain.User
		if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			// If a user with this email exists, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
			return
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		// Create the user row
		user := domain.User{
			Username: req.Username, // Chosen username
			Email:    req.Email,    // Chosen email
			Password: string(hash), // Hashed password
			Role:     req.Role,     // Validated role
		}
		// Attempt to create the user in the database
		if err := db.Create(&user).Error; err != nil {
			// If creation fails (e.g., duplicate username), return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
			return
		}
		// Log successful registration
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,       // New user ID
			"username": user.Username, // Username
			"role":     user.Role,     // Role
		}).Info("User registered") // Log registration
		// Return the created user's public projection
		c.JSON(http.StatusCreated, publicUser(&user))
	}
}

// LoginHandler authenticates a user and returns an identity token
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			// If user not found, return unauthorized without revealing which field failed
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		// Generate the identity token embedding id, username and role
		token, err := utils.GenerateJWT(user.ID, user.Username, user.Role, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Return the token in the response
		c.JSON(http.StatusOK, AuthResponse{AccessToken: token})
	}
}
