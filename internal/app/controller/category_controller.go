package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shirokumado/menu-backend/internal/app/service"
	apperrors "github.com/shirokumado/menu-backend/internal/errors"
	"github.com/shirokumado/menu-backend/internal/middleware"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// ListCategories returns every category
// GET /api/categories
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.categoryService.ListCategories()
	if err != nil {
		log.Error("Failed to list categories", err, nil)
		apperrors.InternalError(c, "Failed to load categories")
		return
	}

	c.JSON(http.StatusOK, categories)
}
