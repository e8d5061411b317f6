package service

import (
	"errors"

	"github.com/shirokumado/menu-backend/internal/app/model"
	"github.com/shirokumado/menu-backend/internal/app/repository"
	"github.com/shirokumado/menu-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryService interface {
	ListCategories() ([]model.Category, error)
	GetCategory(id uint) (*model.Category, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) ListCategories() ([]model.Category, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, nil
}

func (s *categoryService) GetCategory(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Category not found", map[string]interface{}{
				"category_id": id,
			})
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}
