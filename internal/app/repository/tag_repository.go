package repository

import (
	"github.com/shirokumado/menu-backend/internal/app/model"
	"github.com/shirokumado/menu-backend/pkg/logger"
	"gorm.io/gorm"
)

type TagRepository interface {
	FindAll() ([]model.Tag, error)
	FindByIDs(ids []uint) ([]model.Tag, error)
	FindByName(name string) (*model.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) FindAll() ([]model.Tag, error) {
	var tags []model.Tag
	if err := r.db.Order("id ASC").Find(&tags).Error; err != nil {
		logger.Error("Failed to list tags", err)
		return nil, err
	}
	return tags, nil
}

// FindByIDs returns the tags that exist among ids, ordered by id. Callers
// compare the length to detect unknown ids.
func (r *tagRepository) FindByIDs(ids []uint) ([]model.Tag, error) {
	tags := []model.Tag{}
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.Where("id IN ?", ids).Order("id ASC").Find(&tags).Error; err != nil {
		logger.Error("Failed to find tags by IDs", err, map[string]interface{}{
			"tag_ids": ids,
		})
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) FindByName(name string) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}
