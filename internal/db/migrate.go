package db

import (
	"fmt"

	"github.com/shirokumado/menu-backend/internal/app/model"
	"github.com/shirokumado/menu-backend/pkg/logger"
	"gorm.io/gorm"
)

// DefaultCategories and DefaultTags are inserted on an empty database. Tag
// order matters: the dashboard historically addressed 通常メニュー as id 1 and
// 限定メニュー as id 2.
var (
	DefaultCategories = []string{"かき氷", "サイドメニュー", "ドリンク"}
	DefaultTags       = []string{"通常メニュー", "限定メニュー", "冬季限定"}
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	if err := AutoMigrate(DB); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models()),
	})
	return nil
}

// AutoMigrate registers the image_tag join model and migrates every table.
func AutoMigrate(gdb *gorm.DB) error {
	if err := gdb.SetupJoinTable(&model.Image{}, "Tags", &model.ImageTag{}); err != nil {
		return fmt.Errorf("failed to set up image_tag join table: %w", err)
	}
	return gdb.AutoMigrate(models()...)
}

func models() []interface{} {
	return []interface{}{
		&model.Category{},
		&model.Tag{},
		&model.Image{},
		&model.ImageTag{},
	}
}

// Seed adds the lookup rows the menu sections depend on.
func Seed() error {
	return SeedLookups(DB)
}

// SeedLookups inserts default categories and tags when their tables are empty.
func SeedLookups(gdb *gorm.DB) error {
	logger.Info("Seeding initial data...")

	if err := seedCategories(gdb); err != nil {
		logger.Error("Failed to seed categories", err)
		return err
	}
	if err := seedTags(gdb); err != nil {
		logger.Error("Failed to seed tags", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

func seedCategories(gdb *gorm.DB) error {
	var count int64
	if err := gdb.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Categories already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	for _, name := range DefaultCategories {
		category := model.Category{Name: name}
		if err := gdb.Create(&category).Error; err != nil {
			logger.Error("Failed to create category", err, map[string]interface{}{
				"category": name,
			})
			return err
		}
	}

	logger.Info("Categories seeded successfully", map[string]interface{}{
		"total_categories": len(DefaultCategories),
	})
	return nil
}

func seedTags(gdb *gorm.DB) error {
	var count int64
	if err := gdb.Model(&model.Tag{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Tags already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	for _, name := range DefaultTags {
		tag := model.Tag{Name: name}
		if err := gdb.Create(&tag).Error; err != nil {
			logger.Error("Failed to create tag", err, map[string]interface{}{
				"tag": name,
			})
			return err
		}
	}

	logger.Info("Tags seeded successfully", map[string]interface{}{
		"total_tags": len(DefaultTags),
	})
	return nil
}
