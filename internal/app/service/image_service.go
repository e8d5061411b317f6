package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shirokumado/menu-backend/internal/app/model"
	"github.com/shirokumado/menu-backend/internal/app/repository"
	"github.com/shirokumado/menu-backend/internal/menu"
	"github.com/shirokumado/menu-backend/internal/storage"
	"github.com/shirokumado/menu-backend/pkg/logger"
	"github.com/shirokumado/menu-backend/pkg/util"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrImageNotFound        = errors.New("menu item not found")
	ErrTitleRequired        = errors.New("title is required")
	ErrInvalidPublishWindow = errors.New("end_at must not be before start_at")
	ErrInvalidUpload        = errors.New("uploaded file is not an allowed image")
	ErrStorageFailed        = errors.New("failed to store uploaded file")
)

type ImageListOptions struct {
	CategoryID *uint
	TagID      *uint
	IsPublic   *bool
	// Editable keeps only images with a category, as the admin edit list does.
	Editable bool
}

// Upload is the file part of a create request.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type ImageCreateInput struct {
	Title        string
	AltText      *string
	Caption      *string
	CategoryID   uint
	PriceS       decimal.NullDecimal
	PriceL       decimal.NullDecimal
	PriceOther   decimal.NullDecimal
	IsPublic     bool
	DisplayOrder *int
	StartAt      *time.Time
	EndAt        *time.Time
	TagIDs       []uint
	File         Upload
}

// ImageMutation is a partial update. Only fields with Set are applied; a Set
// field that is not Valid clears the column.
type ImageMutation struct {
	Title        util.Optional[string]
	AltText      util.Optional[string]
	Caption      util.Optional[string]
	CategoryID   util.Optional[uint]
	PriceS       util.Optional[decimal.NullDecimal]
	PriceL       util.Optional[decimal.NullDecimal]
	PriceOther   util.Optional[decimal.NullDecimal]
	IsPublic     util.Optional[bool]
	DisplayOrder util.Optional[int]
	StartAt      util.Optional[time.Time]
	EndAt        util.Optional[time.Time]
	TagIDs       util.Optional[[]uint]
}

// ReorderResult counts what happened to a display-order batch.
type ReorderResult struct {
	Applied int
	Missing int
	Failed  int
}

type ImageService interface {
	ListImages(opts ImageListOptions) ([]model.Image, error)
	GetImage(id uint) (*model.Image, error)
	CreateImage(ctx context.Context, input ImageCreateInput) (*model.Image, error)
	UpdateImage(id uint, m ImageMutation) (*model.Image, error)
	DeleteImage(ctx context.Context, id uint) error
	ApplyDisplayOrders(orders []model.DisplayOrderUpdate) ReorderResult
	ImageURL(image *model.Image) string
}

type imageService struct {
	imageRepo       repository.ImageRepository
	categoryService CategoryService
	tagService      TagService
	storage         storage.FileStorage
}

func NewImageService(
	imageRepo repository.ImageRepository,
	categoryService CategoryService,
	tagService TagService,
	fileStorage storage.FileStorage,
) ImageService {
	return &imageService{
		imageRepo:       imageRepo,
		categoryService: categoryService,
		tagService:      tagService,
		storage:         fileStorage,
	}
}

// ListImages returns the filtered images in display order.
func (s *imageService) ListImages(opts ImageListOptions) ([]model.Image, error) {
	images, err := s.imageRepo.FindAll(repository.ImageFilter{
		CategoryID:      opts.CategoryID,
		TagID:           opts.TagID,
		IsPublic:        opts.IsPublic,
		OnlyCategorized: opts.Editable,
	})
	if err != nil {
		return nil, err
	}
	if opts.Editable {
		return menu.Editable(images), nil
	}
	return menu.Filter(images), nil
}

func (s *imageService) GetImage(id uint) (*model.Image, error) {
	image, err := s.imageRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return image, nil
}

// CreateImage validates the input, stores the upload, inserts the row and
// links its tags. A failure after the upload removes the row (if any) and
// then the stored file.
func (s *imageService) CreateImage(ctx context.Context, input ImageCreateInput) (*model.Image, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if err := validateWindow(input.StartAt, input.EndAt); err != nil {
		return nil, err
	}
	if _, err := s.categoryService.GetCategory(input.CategoryID); err != nil {
		return nil, err
	}
	tags, err := s.tagService.ResolveTags(input.TagIDs)
	if err != nil {
		return nil, err
	}

	contentType := storage.DetectContentType(input.File.ContentType, input.File.Filename)
	if err := storage.ValidateContentType(contentType, storage.AllowedImageTypes); err != nil {
		logger.Warn("Rejected upload content type", map[string]interface{}{
			"filename":     input.File.Filename,
			"content_type": contentType,
		})
		return nil, fmt.Errorf("%w: %v", ErrInvalidUpload, err)
	}

	name, err := s.storage.Save(ctx, input.File.Filename, contentType, input.File.Body)
	if err != nil {
		logger.Error("Failed to store uploaded image", err, map[string]interface{}{
			"filename": input.File.Filename,
		})
		return nil, fmt.Errorf("%w: %v", ErrStorageFailed, err)
	}

	categoryID := input.CategoryID
	image := &model.Image{
		Title:        title,
		FilePath:     name,
		AltText:      input.AltText,
		Caption:      input.Caption,
		CategoryID:   &categoryID,
		PriceS:       input.PriceS,
		PriceL:       input.PriceL,
		PriceOther:   input.PriceOther,
		IsPublic:     input.IsPublic,
		DisplayOrder: input.DisplayOrder,
		StartAt:      input.StartAt,
		EndAt:        input.EndAt,
	}

	if err := s.imageRepo.Create(image); err != nil {
		s.discardUpload(ctx, name)
		return nil, err
	}
	if len(tags) > 0 {
		if err := s.imageRepo.ReplaceTags(image, tags); err != nil {
			// the row goes before the file so it never points at a missing upload
			if delErr := s.imageRepo.Delete(image.ID); delErr != nil {
				logger.Error("Failed to remove half-created image", delErr, map[string]interface{}{
					"image_id": image.ID,
				})
				return nil, err
			}
			s.discardUpload(ctx, name)
			return nil, err
		}
		image.Tags = tags
	}

	logger.Info("Menu item created", map[string]interface{}{
		"image_id":    image.ID,
		"title":       image.Title,
		"category_id": categoryID,
		"tag_ids":     image.TagIDs(),
	})

	return s.GetImage(image.ID)
}

func (s *imageService) discardUpload(ctx context.Context, name string) {
	if err := s.storage.Delete(ctx, name); err != nil {
		logger.Error("Failed to remove orphaned upload", err, map[string]interface{}{
			"file_path": name,
		})
	}
}

// UpdateImage applies m to the image and, when TagIDs is set, replaces its
// tag set.
func (s *imageService) UpdateImage(id uint, m ImageMutation) (*model.Image, error) {
	image, err := s.GetImage(id)
	if err != nil {
		return nil, err
	}

	if m.Title.Set {
		title := strings.TrimSpace(m.Title.Value)
		if !m.Title.Valid || title == "" {
			return nil, ErrTitleRequired
		}
		image.Title = title
	}
	if m.AltText.Set {
		image.AltText = m.AltText.Ptr()
	}
	if m.Caption.Set {
		image.Caption = m.Caption.Ptr()
	}
	if m.CategoryID.Set {
		if m.CategoryID.Valid {
			if _, err := s.categoryService.GetCategory(m.CategoryID.Value); err != nil {
				return nil, err
			}
		}
		image.CategoryID = m.CategoryID.Ptr()
		image.Category = nil
	}
	if m.PriceS.Set {
		image.PriceS = m.PriceS.Value
	}
	if m.PriceL.Set {
		image.PriceL = m.PriceL.Value
	}
	if m.PriceOther.Set {
		image.PriceOther = m.PriceOther.Value
	}
	if m.IsPublic.Set && m.IsPublic.Valid {
		image.IsPublic = m.IsPublic.Value
	}
	if m.DisplayOrder.Set {
		image.DisplayOrder = m.DisplayOrder.Ptr()
	}
	if m.StartAt.Set {
		image.StartAt = m.StartAt.Ptr()
	}
	if m.EndAt.Set {
		image.EndAt = m.EndAt.Ptr()
	}
	if err := validateWindow(image.StartAt, image.EndAt); err != nil {
		return nil, err
	}

	var tags []model.Tag
	if m.TagIDs.Set {
		if tags, err = s.tagService.ResolveTags(m.TagIDs.Value); err != nil {
			return nil, err
		}
	}

	if err := s.imageRepo.Update(image); err != nil {
		return nil, err
	}
	if m.TagIDs.Set {
		if err := s.imageRepo.ReplaceTags(image, tags); err != nil {
			return nil, err
		}
	}

	logger.Info("Menu item updated", map[string]interface{}{
		"image_id":    image.ID,
		"tags_synced": m.TagIDs.Set,
	})

	return s.GetImage(id)
}

// DeleteImage removes the row and its tag links, then the stored file. A file
// that cannot be removed is logged and otherwise ignored.
func (s *imageService) DeleteImage(ctx context.Context, id uint) error {
	image, err := s.GetImage(id)
	if err != nil {
		return err
	}

	if err := s.imageRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return err
	}

	if err := s.storage.Delete(ctx, image.FilePath); err != nil {
		logger.Warn("Failed to remove stored image", map[string]interface{}{
			"image_id":  id,
			"file_path": image.FilePath,
			"error":     err.Error(),
		})
	}

	logger.Info("Menu item deleted", map[string]interface{}{
		"image_id": id,
	})
	return nil
}

// ApplyDisplayOrders writes each entry as its own update. Failures and ids
// that match no row are logged and counted; they never stop the batch.
func (s *imageService) ApplyDisplayOrders(orders []model.DisplayOrderUpdate) ReorderResult {
	var result ReorderResult
	for _, o := range orders {
		rows, err := s.imageRepo.UpdateDisplayOrder(o.ID, o.DisplayOrder)
		switch {
		case err != nil:
			result.Failed++
		case rows == 0:
			result.Missing++
			logger.Warn("Display order update matched no image", map[string]interface{}{
				"image_id":      o.ID,
				"display_order": o.DisplayOrder,
			})
		default:
			result.Applied++
		}
	}

	logger.Info("Display orders applied", map[string]interface{}{
		"requested": len(orders),
		"applied":   result.Applied,
		"missing":   result.Missing,
		"failed":    result.Failed,
	})
	return result
}

func (s *imageService) ImageURL(image *model.Image) string {
	return s.storage.URL(image.FilePath)
}

func validateWindow(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return ErrInvalidPublishWindow
	}
	return nil
}
