// Package database wires GORM to PostgreSQL with the retry-on-boot
// discipline the teacher's shared/database package uses across every
// ToxicToastGo service.
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/maowbot/maowbot/internal/config"
)

// Connect opens a PostgreSQL connection, making up to 5 attempts with
// linear backoff before giving up.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := cfg.GetDatabaseURL()
	log.Printf("Connecting to database at %s:%s/%s", cfg.Host, cfg.Port, cfg.Name)

	var lastErr error
	for i := 0; i < 5; i++ {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			lastErr = err
			log.Printf("Attempt %d: failed to open database connection: %v", i+1, err)
			time.Sleep(time.Duration(i+1) * time.Second)
			continue
		}

		sqlDB, err := db.DB()
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(i+1) * time.Second)
			continue
		}

		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.MaxLifetime)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = sqlDB.PingContext(ctx)
		cancel()
		if err == nil {
			return db, nil
		}

		lastErr = err
		log.Printf("Attempt %d: database ping failed: %v", i+1, err)
		sqlDB.Close()
		time.Sleep(time.Duration(i+1) * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to database after 5 attempts: %w", lastErr)
}

// CheckHealth pings the database for health-check endpoints.
func CheckHealth(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql DB: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// AutoMigrate runs GORM auto-migration for the given entities.
func AutoMigrate(db *gorm.DB, entities ...interface{}) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	log.Println("Running GORM auto-migrations...")
	for _, e := range entities {
		if err := db.AutoMigrate(e); err != nil {
			return fmt.Errorf("failed to auto-migrate entity %T: %w", e, err)
		}
	}
	log.Println("GORM auto-migrations completed")
	return nil
}
