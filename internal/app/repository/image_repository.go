package repository

import (
	"github.com/shirokumado/menu-backend/internal/app/model"
	"github.com/shirokumado/menu-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ImageFilter narrows FindAll. Zero values mean "no filter".
type ImageFilter struct {
	CategoryID      *uint
	TagID           *uint
	IsPublic        *bool
	OnlyCategorized bool
}

type ImageRepository interface {
	Create(image *model.Image) error
	FindAll(filter ImageFilter) ([]model.Image, error)
	FindByID(id uint) (*model.Image, error)
	Update(image *model.Image) error
	ReplaceTags(image *model.Image, tags []model.Tag) error
	UpdateDisplayOrder(id uint, displayOrder int) (int64, error)
	Delete(id uint) error
}

type imageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

// Create inserts the image row and links image.Tags through image_tag in one
// transaction, so a failed tag link leaves no row behind.
func (r *imageRepository) Create(image *model.Image) error {
	logger.Debug("Creating image in database", map[string]interface{}{
		"title":       image.Title,
		"file_path":   image.FilePath,
		"category_id": image.CategoryID,
		"tag_count":   len(image.Tags),
	})

	tags := image.Tags
	image.Tags = nil
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(image).Error; err != nil {
			return err
		}
		if len(tags) == 0 {
			return nil
		}
		return syncTags(tx, image, tags)
	})
	if err != nil {
		logger.Error("Failed to create image in database", err, map[string]interface{}{
			"title":     image.Title,
			"file_path": image.FilePath,
		})
		image.ID = 0
		image.Tags = tags
		return err
	}

	logger.Debug("Image created in database", map[string]interface{}{
		"image_id": image.ID,
	})
	return nil
}

func (r *imageRepository) baseQuery() *gorm.DB {
	return r.db.Model(&model.Image{}).
		Preload("Category").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.id ASC")
		})
}

// FindAll returns images matching filter ordered by id. Display ordering is
// applied by the caller.
func (r *imageRepository) FindAll(filter ImageFilter) ([]model.Image, error) {
	logger.Debug("Finding images with filter", map[string]interface{}{
		"category_id":      filter.CategoryID,
		"tag_id":           filter.TagID,
		"is_public":        filter.IsPublic,
		"only_categorized": filter.OnlyCategorized,
	})

	query := r.baseQuery()
	if filter.CategoryID != nil {
		query = query.Where("images.category_id = ?", *filter.CategoryID)
	}
	if filter.OnlyCategorized {
		query = query.Where("images.category_id IS NOT NULL")
	}
	if filter.IsPublic != nil {
		query = query.Where("images.is_public = ?", *filter.IsPublic)
	}
	if filter.TagID != nil {
		tagged := r.db.Table("image_tag").Select("image_id").Where("tag_id = ?", *filter.TagID)
		query = query.Where("images.id IN (?)", tagged)
	}

	var images []model.Image
	if err := query.Order("images.id ASC").Find(&images).Error; err != nil {
		logger.Error("Failed to find images", err)
		return nil, err
	}

	logger.Debug("Images found", map[string]interface{}{
		"count": len(images),
	})
	return images, nil
}

func (r *imageRepository) FindByID(id uint) (*model.Image, error) {
	var image model.Image
	if err := r.baseQuery().First(&image, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find image by ID", err, map[string]interface{}{
				"image_id": id,
			})
		}
		return nil, err
	}
	return &image, nil
}

// Update writes every column of image. Relations are left alone; tags go
// through ReplaceTags.
func (r *imageRepository) Update(image *model.Image) error {
	logger.Debug("Updating image in database", map[string]interface{}{
		"image_id": image.ID,
	})

	if err := r.db.Omit(clause.Associations).Save(image).Error; err != nil {
		logger.Error("Failed to update image in database", err, map[string]interface{}{
			"image_id": image.ID,
		})
		return err
	}
	return nil
}

// ReplaceTags makes tags the exact tag set of image.
func (r *imageRepository) ReplaceTags(image *model.Image, tags []model.Tag) error {
	return syncTags(r.db, image, tags)
}

func syncTags(db *gorm.DB, image *model.Image, tags []model.Tag) error {
	assoc := db.Model(image).Association("Tags")

	var err error
	if len(tags) == 0 {
		err = assoc.Clear()
	} else {
		err = assoc.Replace(tags)
	}
	if err != nil {
		logger.Error("Failed to sync image tags", err, map[string]interface{}{
			"image_id":  image.ID,
			"tag_count": len(tags),
		})
		return err
	}

	logger.Debug("Image tags synced", map[string]interface{}{
		"image_id":  image.ID,
		"tag_count": len(tags),
	})
	return nil
}

// UpdateDisplayOrder sets one row's display_order and reports how many rows
// matched.
func (r *imageRepository) UpdateDisplayOrder(id uint, displayOrder int) (int64, error) {
	result := r.db.Model(&model.Image{}).
		Where("id = ?", id).
		Update("display_order", displayOrder)
	if result.Error != nil {
		logger.Error("Failed to update display order", result.Error, map[string]interface{}{
			"image_id":      id,
			"display_order": displayOrder,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Delete removes the image's tag links and then the row itself.
func (r *imageRepository) Delete(id uint) error {
	logger.Debug("Deleting image from database", map[string]interface{}{
		"image_id": id,
	})

	image := &model.Image{ID: id}
	if err := r.db.Model(image).Association("Tags").Clear(); err != nil {
		logger.Error("Failed to detach tags before delete", err, map[string]interface{}{
			"image_id": id,
		})
		return err
	}

	result := r.db.Delete(&model.Image{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete image from database", result.Error, map[string]interface{}{
			"image_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
