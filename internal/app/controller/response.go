package controller

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shirokumado/menu-backend/internal/app/model"
	"github.com/shirokumado/menu-backend/internal/app/service"
	apperrors "github.com/shirokumado/menu-backend/internal/errors"
	"github.com/shirokumado/menu-backend/internal/menu"
	"github.com/shirokumado/menu-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// ImageResponse is the JSON shape of a menu item. Tags are sent as ids, the
// form the dashboard edits them in.
type ImageResponse struct {
	ID           uint                `json:"id"`
	Title        string              `json:"title"`
	FilePath     string              `json:"file_path"`
	ImageURL     string              `json:"image_url"`
	AltText      *string             `json:"alt_text"`
	Caption      *string             `json:"caption"`
	CategoryID   *uint               `json:"category_id"`
	CategoryName *string             `json:"category_name"`
	PriceS       decimal.NullDecimal `json:"price_s"`
	PriceL       decimal.NullDecimal `json:"price_l"`
	PriceOther   decimal.NullDecimal `json:"price_other"`
	IsPublic     bool                `json:"is_public"`
	DisplayOrder *int                `json:"display_order"`
	StartAt      *time.Time          `json:"start_at"`
	EndAt        *time.Time          `json:"end_at"`
	Tags         []uint              `json:"tags"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func newImageResponse(img *model.Image, url string) ImageResponse {
	resp := ImageResponse{
		ID:           img.ID,
		Title:        img.Title,
		FilePath:     img.FilePath,
		ImageURL:     url,
		AltText:      img.AltText,
		Caption:      img.Caption,
		CategoryID:   img.CategoryID,
		PriceS:       img.PriceS,
		PriceL:       img.PriceL,
		PriceOther:   img.PriceOther,
		IsPublic:     img.IsPublic,
		DisplayOrder: img.DisplayOrder,
		StartAt:      img.StartAt,
		EndAt:        img.EndAt,
		Tags:         img.TagIDs(),
		CreatedAt:    img.CreatedAt,
		UpdatedAt:    img.UpdatedAt,
	}
	if img.Category != nil {
		name := img.Category.Name
		resp.CategoryName = &name
	}
	return resp
}

func newImageResponses(images []model.Image, urlFor func(*model.Image) string) []ImageResponse {
	out := make([]ImageResponse, 0, len(images))
	for i := range images {
		out = append(out, newImageResponse(&images[i], urlFor(&images[i])))
	}
	return out
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

// bindingFields turns a gin binding error into per-field messages keyed by
// the request's form or json names. Errors that happen before validation
// (a value that does not parse) carry no field and land under "request".
func bindingFields(err error, req interface{}) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"request": err.Error()}
	}

	t := reflect.TypeOf(req)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			name = paramName(sf)
		}
		fields[name] = validationMessage(fe)
	}
	return fields
}

func paramName(sf reflect.StructField) string {
	for _, key := range []string{"form", "json"} {
		if tag := strings.Split(sf.Tag.Get(key), ",")[0]; tag != "" && tag != "-" {
			return tag
		}
	}
	return sf.Name
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	return "is invalid"
}

// respondServiceError maps service and menu sentinel errors to responses.
// Anything unrecognised is logged and parsed as a storage/database error.
func respondServiceError(c *gin.Context, log *logger.Logger, err error, context string) {
	switch {
	case errors.Is(err, service.ErrImageNotFound):
		log.Warn("Menu item not found", map[string]interface{}{"context": context})
		apperrors.NotFound(c, apperrors.ImageNotFound, "Menu item not found")
	case errors.Is(err, service.ErrCategoryNotFound):
		apperrors.BadRequest(c, apperrors.CategoryNotFound, "The category does not exist")
	case errors.Is(err, service.ErrTagNotFound):
		apperrors.BadRequest(c, apperrors.TagNotFound, err.Error())
	case errors.Is(err, service.ErrTitleRequired):
		apperrors.RespondWithValidationError(c, map[string]string{"title": err.Error()})
	case errors.Is(err, service.ErrInvalidPublishWindow):
		apperrors.RespondWithValidationError(c, map[string]string{"end_at": err.Error()})
	case errors.Is(err, service.ErrInvalidUpload):
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
	case errors.Is(err, service.ErrStorageFailed):
		log.Error("Upload storage failed", err, map[string]interface{}{"context": context})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to store the uploaded image")
	case errors.Is(err, menu.ErrUnknownBucket):
		apperrors.NotFound(c, apperrors.MenuUnknownBucket, "Unknown menu bucket")
	case errors.Is(err, menu.ErrMoveOutOfRange):
		apperrors.BadRequest(c, apperrors.MenuMoveOutOfRange, err.Error())
	default:
		log.Error("Request failed", err, map[string]interface{}{"context": context})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}
