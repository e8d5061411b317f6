package db

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB() (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	// Every pooled connection to ":memory:" would get its own empty database.
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get test database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := AutoMigrate(gdb); err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return gdb, nil
}

// SetupSeededTestDB is SetupTestDB plus the default categories and tags.
func SetupSeededTestDB() (*gorm.DB, error) {
	gdb, err := SetupTestDB()
	if err != nil {
		return nil, err
	}
	if err := SeedLookups(gdb); err != nil {
		return nil, fmt.Errorf("failed to seed test database: %w", err)
	}
	return gdb, nil
}

// CleanupTestDB cleans up the test database
func CleanupTestDB(gdb *gorm.DB) {
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}

// TruncateAllTables removes all data from tables
func TruncateAllTables(gdb *gorm.DB) error {
	tables := []string{"image_tag", "images", "tags", "categories"}
	for _, table := range tables {
		if err := gdb.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return err
		}
	}
	return nil
}
