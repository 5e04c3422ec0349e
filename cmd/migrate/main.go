package main

import (
	"real_estate_api/internal/config" // Custom import path (Config)
	"real_estate_api/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
)

// Main entry point for migration and admin seeding
func main() {
	cfg := config.LoadConfig() // Load configuration

	db.Migrate(cfg.DSN()) // Create/update the schema

	// Seed the out-of-band admin account when configured
	conn, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Fatal if connection fails
	}
	if err := db.SeedAdmin(conn, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logrus.Fatalf("admin seeding failed: %v", err) // Fatal if seeding fails
	}
}
