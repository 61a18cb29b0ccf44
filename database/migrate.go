// database/migrate.go - Database Migration Runner
package database

import (
	"teammatch/models"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// RunMigrations runs all database migrations
func RunMigrations(db *gorm.DB) error {
	log.Debug("🔄 Running database migrations...")

	// Core account and catalogue models
	if err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Olympiad{},
	); err != nil {
		return errors.Wrap(err, "core migrations")
	}

	if err := RunTeamMigrations(db); err != nil {
		return errors.Wrap(err, "team migrations")
	}

	createCoreIndexes(db)

	log.Debug("✅ All migrations completed successfully")
	return nil
}

// createCoreIndexes creates indexes for core tables
func createCoreIndexes(db *gorm.DB) {
	db.Exec("CREATE INDEX IF NOT EXISTS idx_olympiads_subject_year ON olympiads(subject, year)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_created ON users(created_at)")
}
