// database/db.go - Database Connection (PostgreSQL, SQLite for local runs)
package database

import (
	"os"
	"path/filepath"
	"time"

	"teammatch/config"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// InitDB opens the configured database, runs migrations and keeps the handle
// for GetDB.
func InitDB(cfg *config.Config) error {
	dialector, err := Dialector(cfg)
	if err != nil {
		return err
	}

	conn, err := Open(dialector, cfg.GormLogLevel())
	if err != nil {
		return errors.Wrapf(err, "failed to connect to %s database", cfg.DBDriver)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get database instance")
	}

	if cfg.DBDriver == config.DriverSQLite {
		// SQLite serialises writers anyway; one connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	log.WithField("driver", cfg.DBDriver).Info("✅ Database connected successfully")

	if err := RunMigrations(conn); err != nil {
		return err
	}

	db = conn
	return nil
}

// Dialector picks the gorm driver for the configured backend.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return postgres.Open(cfg.DatabaseURL), nil
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrapf(err, "creating %s", dir)
			}
		}
		return sqlite.Open(cfg.SQLitePath + "?_foreign_keys=on&_busy_timeout=5000"), nil
	default:
		return nil, errors.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Open connects with the settings every caller needs: UTC timestamps and
// translated driver errors (unique violations surface as gorm.ErrDuplicatedKey).
func Open(dialector gorm.Dialector, level logger.LogLevel) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// OpenMemory returns a migrated in-memory SQLite database. Used by tests and
// the CLI dry-run mode.
func OpenMemory() (*gorm.DB, error) {
	conn, err := Open(sqlite.Open("file::memory:?_foreign_keys=on"), logger.Silent)
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	// Every new connection to :memory: is a new, empty database.
	sqlDB.SetMaxOpenConns(1)

	if err := RunMigrations(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	if db == nil {
		log.Fatal("Database not initialized. Call InitDB() first.")
	}
	return db
}

// CloseDB closes the database connection
func CloseDB() error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if err := sqlDB.Close(); err != nil {
		return errors.Wrap(err, "failed to close database")
	}

	log.Info("Database connection closed")
	return nil
}
