package db

import (
	"real_estate_api/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing for seeded accounts

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
)

// Migrate performs automatic migration for the database schema
func Migrate(dsn string) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{}) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	err = db.AutoMigrate(&domain.User{}, &domain.Property{}, &domain.Application{}, &domain.Wishlist{})
	if err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	logrus.Info("Migration completed.") // Log successful migration
}

// SeedAdmin creates the out-of-band admin account if it does not exist.
// Admin is never assignable through registration, so this is the only way
// the role enters the system.
func SeedAdmin(db *gorm.DB, username, email, password string) error {
	// Skip when the seed variables are not configured
	if username == "" || email == "" || password == "" {
		logrus.Info("Admin seed variables not set, skipping") // Nothing to seed
		return nil
	}
	var existing domain.User // Check for an existing account with this email
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		logrus.Info("Admin account already present, skipping") // Already seeded
		return nil
	}
	// Hash the configured password
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err // Return error if hashing fails
	}
	// Create the admin account
	admin := domain.User{
		Username: username,         // Configured username
		Email:    email,            // Configured email
		Password: string(hash),     // Hashed password
		Role:     domain.RoleAdmin, // The one role register can never grant
	}
	if err := db.Create(&admin).Error; err != nil {
		return err // Return error if creation fails
	}
	// Log the seeded account
	logrus.WithFields(logrus.Fields{
		"user_id":  admin.ID,       // Seeded account
		"username": admin.Username, // Username
	}).Info("Admin account seeded") // Log seeding
	return nil
}
