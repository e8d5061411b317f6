package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirokumado/menu-backend/internal/app/model"
	"github.com/shirokumado/menu-backend/internal/app/service"
	apperrors "github.com/shirokumado/menu-backend/internal/errors"
	"github.com/shirokumado/menu-backend/internal/middleware"
	"github.com/shirokumado/menu-backend/pkg/util"
	"github.com/shopspring/decimal"
)

type ImageController struct {
	imageService   service.ImageService
	loc            *time.Location
	maxUploadBytes int64
}

func NewImageController(imageService service.ImageService, loc *time.Location, maxUploadBytes int64) *ImageController {
	if loc == nil {
		loc = time.UTC
	}
	return &ImageController{
		imageService:   imageService,
		loc:            loc,
		maxUploadBytes: maxUploadBytes,
	}
}

// UpdateImageRequest is a partial update; absent keys are left alone and
// null clears a nullable column.
type UpdateImageRequest struct {
	Title        util.Optional[string]     `json:"title"`
	AltText      util.Optional[string]     `json:"alt_text"`
	Caption      util.Optional[string]     `json:"caption"`
	CategoryID   util.Optional[uint]       `json:"category_id"`
	PriceS       util.Optional[util.Price] `json:"price_s"`
	PriceL       util.Optional[util.Price] `json:"price_l"`
	PriceOther   util.Optional[util.Price] `json:"price_other"`
	IsPublic     util.Optional[util.Flag]  `json:"is_public"`
	DisplayOrder util.Optional[util.Int]   `json:"display_order"`
	StartAt      util.Optional[string]     `json:"start_at"`
	EndAt        util.Optional[string]     `json:"end_at"`
	Tags         util.Optional[[]uint]     `json:"tags"`
}

// ImageListQuery filters GET /api/images
type ImageListQuery struct {
	CategoryID *uint      `form:"category_id" binding:"omitempty,gt=0"`
	TagID      *uint      `form:"tag_id" binding:"omitempty,gt=0"`
	IsPublic   *util.Flag `form:"is_public"`
	Editable   util.Flag  `form:"editable"`
}

// CreateImageForm is the multipart body of POST /api/images besides the
// file itself. Tags arrive as tags[] from the dashboard and as repeated
// tags from plain forms.
type CreateImageForm struct {
	Title        string     `form:"title" binding:"required"`
	AltText      string     `form:"alt_text"`
	Caption      string     `form:"caption"`
	CategoryID   uint       `form:"category_id" binding:"required,gt=0"`
	PriceS       util.Price `form:"price_s"`
	PriceL       util.Price `form:"price_l"`
	PriceOther   util.Price `form:"price_other"`
	IsPublic     util.Flag  `form:"is_public,default=1"`
	DisplayOrder util.Int   `form:"display_order"`
	StartAt      string     `form:"start_at"`
	EndAt        string     `form:"end_at"`
	Tags         []string   `form:"tags[]"`
	TagList      []string   `form:"tags"`
}

// ListImages returns menu items in display order
// GET /api/images
// Query params:
//   - category_id, tag_id: filter (optional)
//   - is_public: 1/0 (optional)
//   - editable: 1 to drop items without a category
func (ctrl *ImageController) ListImages(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var query ImageListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		fields := bindingFields(err, &query)
		log.Warn("Invalid image list query", map[string]interface{}{
			"fields": fields,
		})
		apperrors.RespondWithValidationError(c, fields)
		return
	}

	opts := service.ImageListOptions{
		CategoryID: query.CategoryID,
		TagID:      query.TagID,
		Editable:   bool(query.Editable),
	}
	if query.IsPublic != nil {
		v := bool(*query.IsPublic)
		opts.IsPublic = &v
	}

	images, err := ctrl.imageService.ListImages(opts)
	if err != nil {
		respondServiceError(c, log, err, "list images")
		return
	}

	log.Info("Images listed", map[string]interface{}{
		"count": len(images),
	})

	c.JSON(http.StatusOK, newImageResponses(images, ctrl.imageService.ImageURL))
}

// GetImage returns one menu item
// GET /api/images/:id
func (ctrl *ImageController) GetImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	image, err := ctrl.imageService.GetImage(id)
	if err != nil {
		respondServiceError(c, log, err, "get image")
		return
	}

	c.JSON(http.StatusOK, newImageResponse(image, ctrl.imageService.ImageURL(image)))
}

// CreateImage uploads a photo and creates its menu item
// POST /api/images (multipart/form-data)
func (ctrl *ImageController) CreateImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		log.Warn("Image file missing from upload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.UploadMissingFile, "An image file is required")
		return
	}
	if ctrl.maxUploadBytes > 0 && fileHeader.Size > ctrl.maxUploadBytes {
		log.Warn("Uploaded image too large", map[string]interface{}{
			"size":      fileHeader.Size,
			"max_bytes": ctrl.maxUploadBytes,
		})
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "The image file is too large")
		return
	}

	var form CreateImageForm
	if err := c.ShouldBind(&form); err != nil {
		fields := bindingFields(err, &form)
		log.Warn("Invalid image create request", map[string]interface{}{
			"fields": fields,
		})
		apperrors.RespondWithValidationError(c, fields)
		return
	}

	input, fields := ctrl.toCreateInput(form)
	if len(fields) > 0 {
		log.Warn("Invalid image create request", map[string]interface{}{
			"fields": fields,
		})
		apperrors.RespondWithValidationError(c, fields)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", err, nil)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to read the uploaded image")
		return
	}
	defer file.Close()

	input.File = service.Upload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Body:        file,
	}

	image, err := ctrl.imageService.CreateImage(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, log, err, "create image")
		return
	}

	log.Info("Image created", map[string]interface{}{
		"image_id": image.ID,
		"title":    image.Title,
	})

	c.JSON(http.StatusCreated, newImageResponse(image, ctrl.imageService.ImageURL(image)))
}

func (ctrl *ImageController) toCreateInput(form CreateImageForm) (service.ImageCreateInput, map[string]string) {
	fields := map[string]string{}
	input := service.ImageCreateInput{
		Title:        form.Title,
		AltText:      util.StringPtr(form.AltText),
		Caption:      util.StringPtr(form.Caption),
		CategoryID:   form.CategoryID,
		PriceS:       form.PriceS.NullDecimal,
		PriceL:       form.PriceL.NullDecimal,
		PriceOther:   form.PriceOther.NullDecimal,
		IsPublic:     bool(form.IsPublic),
		DisplayOrder: form.DisplayOrder.Ptr(),
	}

	var err error
	if input.StartAt, err = util.ParseTime(form.StartAt, ctrl.loc); err != nil {
		fields["start_at"] = err.Error()
	}
	if input.EndAt, err = util.ParseTime(form.EndAt, ctrl.loc); err != nil {
		fields["end_at"] = err.Error()
	}
	if input.TagIDs, err = util.ParseIDs(append(form.Tags, form.TagList...)); err != nil {
		fields["tags"] = err.Error()
	}
	return input, fields
}

// UpdateImage applies a partial update and syncs tags when given
// PATCH /api/images/:id
func (ctrl *ImageController) UpdateImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid image update request", map[string]interface{}{
			"image_id": id,
			"error":    err.Error(),
		})
		apperrors.RespondWithValidationError(c, bindingFields(err, &req))
		return
	}

	mutation, fields := ctrl.toMutation(req)
	if len(fields) > 0 {
		apperrors.RespondWithValidationError(c, fields)
		return
	}

	image, err := ctrl.imageService.UpdateImage(id, mutation)
	if err != nil {
		respondServiceError(c, log, err, "update image")
		return
	}

	log.Info("Image updated", map[string]interface{}{
		"image_id": id,
	})

	c.JSON(http.StatusOK, newImageResponse(image, ctrl.imageService.ImageURL(image)))
}

func (ctrl *ImageController) toMutation(req UpdateImageRequest) (service.ImageMutation, map[string]string) {
	fields := map[string]string{}
	m := service.ImageMutation{
		Title:        req.Title,
		AltText:      req.AltText,
		Caption:      req.Caption,
		CategoryID:   req.CategoryID,
		TagIDs:       req.Tags,
		PriceS:       priceMutation(req.PriceS),
		PriceL:       priceMutation(req.PriceL),
		PriceOther:   priceMutation(req.PriceOther),
	}
	if req.IsPublic.Set {
		m.IsPublic = util.Optional[bool]{Set: true, Valid: req.IsPublic.Valid, Value: bool(req.IsPublic.Value)}
	}
	if req.DisplayOrder.Set {
		// "" clears like null
		m.DisplayOrder = util.Optional[int]{
			Set:   true,
			Valid: req.DisplayOrder.Valid && req.DisplayOrder.Value.Valid,
			Value: req.DisplayOrder.Value.Value,
		}
	}

	var err error
	if m.StartAt, err = ctrl.timeMutation(req.StartAt); err != nil {
		fields["start_at"] = err.Error()
	}
	if m.EndAt, err = ctrl.timeMutation(req.EndAt); err != nil {
		fields["end_at"] = err.Error()
	}
	return m, fields
}

func priceMutation(p util.Optional[util.Price]) util.Optional[decimal.NullDecimal] {
	return util.Optional[decimal.NullDecimal]{Set: p.Set, Valid: p.Valid, Value: p.Value.NullDecimal}
}

// timeMutation treats "" like null.
func (ctrl *ImageController) timeMutation(s util.Optional[string]) (util.Optional[time.Time], error) {
	if !s.Set {
		return util.Optional[time.Time]{}, nil
	}
	if !s.Valid {
		return util.Optional[time.Time]{Set: true}, nil
	}
	t, err := util.ParseTime(s.Value, ctrl.loc)
	if err != nil {
		return util.Optional[time.Time]{}, err
	}
	if t == nil {
		return util.Optional[time.Time]{Set: true}, nil
	}
	return util.Optional[time.Time]{Set: true, Valid: true, Value: *t}, nil
}

// DeleteImage removes a menu item, its tag links and its file
// DELETE /api/images/:id
func (ctrl *ImageController) DeleteImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.imageService.DeleteImage(c.Request.Context(), id); err != nil {
		respondServiceError(c, log, err, "delete image")
		return
	}

	log.Info("Image deleted", map[string]interface{}{
		"image_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Menu item deleted",
	})
}

// UpdateDisplayOrder applies a batch of display orders
// POST /api/images/display-order
// Body: {"orders": [{"id": 1, "display_order": 2}, ...]}
//
// Malformed entries are skipped and logged; every well-formed entry is
// applied on its own.
func (ctrl *ImageController) UpdateDisplayOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		log.Warn("Invalid display order payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ReorderInvalidPayload, "orders must be an array")
		return
	}

	var entries []json.RawMessage
	raw, ok := body["orders"]
	if !ok || json.Unmarshal(raw, &entries) != nil || entries == nil {
		log.Warn("Display order payload without orders array", nil)
		apperrors.BadRequest(c, apperrors.ReorderInvalidPayload, "orders must be an array")
		return
	}

	orders := make([]model.DisplayOrderUpdate, 0, len(entries))
	for i, entry := range entries {
		order, ok := parseOrderEntry(entry)
		if !ok {
			log.Warn("Skipping malformed display order entry", map[string]interface{}{
				"index": i,
				"entry": string(entry),
			})
			continue
		}
		orders = append(orders, order)
	}

	result := ctrl.imageService.ApplyDisplayOrders(orders)

	log.Info("Display order batch processed", map[string]interface{}{
		"received": len(entries),
		"applied":  result.Applied,
		"missing":  result.Missing,
		"failed":   result.Failed,
	})

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseOrderEntry needs both keys present with integer values.
func parseOrderEntry(entry json.RawMessage) (model.DisplayOrderUpdate, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(entry, &fields); err != nil || fields == nil {
		return model.DisplayOrderUpdate{}, false
	}

	id, ok := rawInt(fields["id"])
	if !ok || id <= 0 {
		return model.DisplayOrderUpdate{}, false
	}
	order, ok := rawInt(fields["display_order"])
	if !ok {
		return model.DisplayOrderUpdate{}, false
	}
	return model.DisplayOrderUpdate{ID: uint(id), DisplayOrder: order}, true
}

// rawInt accepts the same numbers and numeric strings as a PATCH
// display_order.
func rawInt(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n util.Int
	if err := json.Unmarshal(raw, &n); err != nil || !n.Valid {
		return 0, false
	}
	return n.Value, true
}
