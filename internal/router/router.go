package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/shirokumado/menu-backend/config"
	"github.com/shirokumado/menu-backend/internal/app/controller"
	"github.com/shirokumado/menu-backend/internal/middleware"
	"github.com/shirokumado/menu-backend/internal/view"
)

type Router struct {
	imageController    *controller.ImageController
	categoryController *controller.CategoryController
	tagController      *controller.TagController
	menuController     *controller.MenuController
	config             *config.Config
}

func NewRouter(
	imageController *controller.ImageController,
	categoryController *controller.CategoryController,
	tagController *controller.TagController,
	menuController *controller.MenuController,
	cfg *config.Config,
) *Router {
	return &Router{
		imageController:    imageController,
		categoryController: categoryController,
		tagController:      tagController,
		menuController:     menuController,
		config:             cfg,
	}
}

func (r *Router) Setup() (*gin.Engine, error) {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(r.config.CORS.AllowedOrigins))

	if r.config.Storage.MaxBytes > 0 {
		// multipart bodies beyond this spill to temp files
		router.MaxMultipartMemory = r.config.Storage.MaxBytes
	}

	templates, err := view.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(templates)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Menu API is running",
		})
	})

	// Uploaded images are served from disk only with the local driver; S3
	// objects are addressed by their own URLs.
	if r.config.Storage.Driver == config.StorageDriverLocal {
		router.Static(r.config.Storage.PublicPath, r.config.Storage.UploadDir)
	}

	router.GET("/", r.menuController.MenuPage)
	router.GET("/menu/:id", r.menuController.DetailPage)
	router.GET("/faq", r.menuController.FAQPage)

	api := router.Group("/api")
	{
		images := api.Group("/images")
		{
			images.GET("", r.imageController.ListImages)
			images.POST("", r.imageController.CreateImage)
			images.POST("/display-order", r.imageController.UpdateDisplayOrder)
			images.GET("/:id", r.imageController.GetImage)
			images.PATCH("/:id", r.imageController.UpdateImage)
			images.DELETE("/:id", r.imageController.DeleteImage)
		}

		api.GET("/categories", r.categoryController.ListCategories)
		api.GET("/tags", r.tagController.ListTags)

		menuGroup := api.Group("/menu")
		{
			menuGroup.GET("", r.menuController.GetMenu)
			menuGroup.GET("/buckets", r.menuController.GetBuckets)
			menuGroup.POST("/buckets/:bucket/move", r.menuController.MoveInBucket)
			menuGroup.POST("/buckets/:bucket/sort", r.menuController.SortBucket)
		}
	}

	return router, nil
}
