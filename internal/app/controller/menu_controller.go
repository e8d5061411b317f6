package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shirokumado/menu-backend/internal/app/model"
	"github.com/shirokumado/menu-backend/internal/app/service"
	apperrors "github.com/shirokumado/menu-backend/internal/errors"
	"github.com/shirokumado/menu-backend/internal/menu"
	"github.com/shirokumado/menu-backend/internal/middleware"
	"github.com/shirokumado/menu-backend/internal/view"
)

const (
	menuPageTitle = "白熊堂 メニュー"
	faqPageTitle  = "よくある質問"
)

type MenuController struct {
	menuService  service.MenuService
	imageService service.ImageService
	rules        menu.Rules
}

func NewMenuController(menuService service.MenuService, imageService service.ImageService, rules menu.Rules) *MenuController {
	return &MenuController{
		menuService:  menuService,
		imageService: imageService,
		rules:        rules,
	}
}

type MoveRequest struct {
	From *int `json:"from" binding:"required,gte=0"`
	To   *int `json:"to" binding:"required,gte=0"`
}

type SortRequest struct {
	Direction string `json:"direction" binding:"required,oneof=asc desc"`
}

// GetMenu returns the currently visible menu by section
// GET /api/menu
func (ctrl *MenuController) GetMenu(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	result, err := ctrl.menuService.PublicMenu(ctrl.menuService.Now())
	if err != nil {
		respondServiceError(c, log, err, "get menu")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		string(menu.BucketLimited): newImageResponses(result.Limited, ctrl.imageService.ImageURL),
		string(menu.BucketNormal):  newImageResponses(result.Normal, ctrl.imageService.ImageURL),
		string(menu.BucketSide):    newImageResponses(result.Side, ctrl.imageService.ImageURL),
	})
}

// GetBuckets returns the admin reorder buckets
// GET /api/menu/buckets
func (ctrl *MenuController) GetBuckets(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	board, err := ctrl.menuService.Board()
	if err != nil {
		respondServiceError(c, log, err, "get menu buckets")
		return
	}

	resp := gin.H{}
	for _, b := range menu.Buckets {
		resp[string(b)] = newImageResponses(board.Items(b), ctrl.imageService.ImageURL)
	}
	c.JSON(http.StatusOK, resp)
}

// MoveInBucket moves one item within a bucket and rewrites the bucket order
// POST /api/menu/buckets/:bucket/move
func (ctrl *MenuController) MoveInBucket(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	bucket, err := menu.ParseBucket(c.Param("bucket"))
	if err != nil {
		respondServiceError(c, log, err, "move menu item")
		return
	}

	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid move request", map[string]interface{}{
			"bucket": bucket,
			"error":  err.Error(),
		})
		apperrors.RespondWithValidationError(c, bindingFields(err, &req))
		return
	}

	items, err := ctrl.menuService.MoveInBucket(bucket, *req.From, *req.To)
	if err != nil {
		respondServiceError(c, log, err, "move menu item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bucket": bucket,
		"items":  newImageResponses(items, ctrl.imageService.ImageURL),
	})
}

// SortBucket sorts a bucket by id and rewrites its order
// POST /api/menu/buckets/:bucket/sort
func (ctrl *MenuController) SortBucket(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	bucket, err := menu.ParseBucket(c.Param("bucket"))
	if err != nil {
		respondServiceError(c, log, err, "sort menu bucket")
		return
	}

	var req SortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithValidationError(c, bindingFields(err, &req))
		return
	}

	items, err := ctrl.menuService.SortBucket(bucket, req.Direction == "asc")
	if err != nil {
		respondServiceError(c, log, err, "sort menu bucket")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bucket": bucket,
		"items":  newImageResponses(items, ctrl.imageService.ImageURL),
	})
}

// MenuPage renders the public menu
// GET /
func (ctrl *MenuController) MenuPage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	result, err := ctrl.menuService.PublicMenu(ctrl.menuService.Now())
	if err != nil {
		log.Error("Failed to load menu page", err, nil)
		c.HTML(http.StatusInternalServerError, "not_found.html", gin.H{"Title": "しばらくしてから再度お試しください"})
		return
	}

	page := view.MenuPage{Title: menuPageTitle}
	for _, s := range []struct {
		title  string
		images []model.Image
	}{
		{ctrl.rules.LimitedTag, result.Limited},
		{ctrl.rules.NormalTag, result.Normal},
		{ctrl.rules.SideCategory, result.Side},
	} {
		if section := view.NewSection(s.title, s.images, ctrl.imageService.ImageURL); section != nil {
			page.Sections = append(page.Sections, *section)
		}
	}

	c.HTML(http.StatusOK, "menu.html", page)
}

// DetailPage renders one published item
// GET /menu/:id
func (ctrl *MenuController) DetailPage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	image, err := ctrl.menuService.VisibleItem(id, ctrl.menuService.Now())
	if err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			c.HTML(http.StatusNotFound, "not_found.html", gin.H{"Title": "メニューが見つかりません"})
			return
		}
		log.Error("Failed to load menu item page", err, map[string]interface{}{
			"image_id": id,
		})
		c.HTML(http.StatusInternalServerError, "not_found.html", gin.H{"Title": "しばらくしてから再度お試しください"})
		return
	}

	c.HTML(http.StatusOK, "detail.html", view.DetailPage{
		Title: image.Title,
		Item:  view.NewItem(image, ctrl.imageService.ImageURL),
	})
}

// FAQPage renders the fixed question list
// GET /faq
func (ctrl *MenuController) FAQPage(c *gin.Context) {
	c.HTML(http.StatusOK, "faq.html", view.FAQPage{
		Title:   faqPageTitle,
		Entries: view.FAQ,
	})
}
