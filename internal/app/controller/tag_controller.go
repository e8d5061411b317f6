package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shirokumado/menu-backend/internal/app/service"
	apperrors "github.com/shirokumado/menu-backend/internal/errors"
	"github.com/shirokumado/menu-backend/internal/middleware"
)

type TagController struct {
	tagService service.TagService
}

func NewTagController(tagService service.TagService) *TagController {
	return &TagController{tagService: tagService}
}

// ListTags returns every tag
// GET /api/tags
func (ctrl *TagController) ListTags(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	tags, err := ctrl.tagService.ListTags()
	if err != nil {
		log.Error("Failed to list tags", err, nil)
		apperrors.InternalError(c, "Failed to load tags")
		return
	}

	log.Info("Tags listed", map[string]interface{}{
		"count": len(tags),
	})

	c.JSON(http.StatusOK, tags)
}
