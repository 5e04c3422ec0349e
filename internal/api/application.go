package api

import (
	"net/http" // HTTP status codes

	"real_estate_api/internal/auth"       // Authorization rules
	"real_estate_api/internal/domain"     // Importing domain models
	"real_estate_api/internal/middleware" // Actor extraction

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Request struct for submitting an application. A zero or absent property_id
// falls through to the store lookup and surfaces as NotFound.
type SubmitApplicationRequest struct {
	PropertyID uint `json:"property_id"` // Target property
}

// Request struct for reviewing an application
type ReviewApplicationRequest struct {
	Status string `json:"status" binding:"required"` // Target status, approved or rejected
}

// SubmitApplicationHandler creates a pending application for the caller.
// There is no duplicate check; applying twice yields two applications.
func SubmitApplicationHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := middleware.CurrentActor(c) // Get identity from context
		// Check if the identity exists in context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req SubmitApplicationRequest // Bind JSON request to struct
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
		// Create the application; status defaults to pending, the submission
		// timestamp is server-assigned
		application := domain.Application{
			UserID:     actor.ID,             // Applicant is always the caller
			PropertyID: property.ID,          // Target property
			Status:     domain.StatusPending, // Initial status
		}
		// Persist the application
		if err := db.Create(&application).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit application"})
			return
		}
		// Log the submission
		logrus.WithFields(logrus.Fields{
			"application_id": application.ID, // New application
			"user_id":        actor.ID,       // Applicant
			"property_id":    property.ID,    // Target property
		}).Info("Application submitted") // Log submission
		// Return the created application
		c.JSON(http.StatusCreated, application)
	}
}

// ListOwnApplicationsHandler returns only the caller's applications
func ListOwnApplicationsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := middleware.CurrentActor(c) // Get identity from context
		// Check if the identity exists in context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var applications []domain.Application // Slice to hold applications
		// Fetch only rows owned by the caller
		if err := db.Where("user_id = ?", actor.ID).Find(&applications).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
			return
		}
		c.JSON(http.StatusOK, applications) // Return the caller's applications
	}
}

// ListAllApplicationsHandler returns every application system-wide. The route
// is gated to agent/admin by middleware.RequireRole; there is no
// property-owner scoping.
func ListAllApplicationsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var applications []domain.Application // Slice to hold applications
		// Fetch all rows
		if err := db.Find(&applications).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
			return
		}
		c.JSON(http.StatusOK, applications) // Return all applications
	}
}

// ReviewApplicationHandler moves a pending application to approved or
// rejected, agent/admin only. Reviewed applications are final.
func ReviewApplicationHandler(db *gorm.DB, authz *auth.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := middleware.CurrentActor(c) // Get identity from context
		// Check if the identity exists in context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// Only agents and admins may review; checked before loading the row
		if !authz.Allows(actor, auth.ActionReviewApplication, nil) {
			c.JSON(http.StatusForbidden, gin.H{"message": "Unauthorized"})
			return
		}
		id, ok := idParam(c) // Parse the target application ID
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": "Application not found"})
			return
		}
		var application domain.Application // Fetch application from database
		if err := db.First(&application, id).Error; err != nil {
			// If application not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"message": "Application not found"})
			return
		}
		var req ReviewApplicationRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
			return
		}
		// The only legal transitions are pending to approved/rejected
		if !application.CanTransitionTo(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
			return
		}
		application.Status = req.Status // Apply the decision
		// Persist the decision
		if err := db.Save(&application).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update application"})
			return
		}
		// Log the review decision
		logrus.WithFields(logrus.Fields{
			"application_id": application.ID, // Reviewed application
			"status":         req.Status,     // Decision
			"reviewer":       actor.ID,       // Caller
			"role":           actor.Role,     // Reviewing role
		}).Info("Application reviewed") // Log review
		// Return the updated application
		c.JSON(http.StatusOK, application)
	}
}
