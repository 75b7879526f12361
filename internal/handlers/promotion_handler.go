package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alexcolls/descuentia/internal/models"
	"github.com/alexcolls/descuentia/internal/services"
	"github.com/alexcolls/descuentia/internal/utils"
	"github.com/alexcolls/descuentia/internal/validators"
)

type PromotionHandler struct {
	promotionService services.PromotionService
	discoveryService services.DiscoveryService
	maxUploadSize    int64
}

func NewPromotionHandler(promotionService services.PromotionService, discoveryService services.DiscoveryService, maxUploadSize int64) *PromotionHandler {
	return &PromotionHandler{
		promotionService: promotionService,
		discoveryService: discoveryService,
		maxUploadSize:    maxUploadSize,
	}
}

// Nearby returns active promotions around the given coordinates, closest first
func (h *PromotionHandler) Nearby(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		utils.BadRequestResponse(c, "Valid lat query parameter required")
		return
	}

	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil || lng < -180 || lng > 180 {
		utils.BadRequestResponse(c, "Valid lng query parameter required")
		return
	}

	radius := 0.0
	if raw := c.Query("radius_km"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil || radius < 0 {
			utils.BadRequestResponse(c, "Invalid radius_km")
			return
		}
	}

	origin := models.Coordinates{Latitude: lat, Longitude: lng}
	promotions, err := h.discoveryService.Discover(c.Request.Context(), origin, radius)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Nearby promotions retrieved successfully", map[string]interface{}{
		"promotions": promotions,
	})
}

// Featured returns the featured promotions, with distances when coordinates
// are provided
func (h *PromotionHandler) Featured(c *gin.Context) {
	var origin *models.Coordinates
	latRaw, lngRaw := c.Query("lat"), c.Query("lng")
	if latRaw != "" && lngRaw != "" {
		lat, latErr := strconv.ParseFloat(latRaw, 64)
		lng, lngErr := strconv.ParseFloat(lngRaw, 64)
		if latErr != nil || lngErr != nil {
			utils.BadRequestResponse(c, "Invalid coordinates")
			return
		}
		origin = &models.Coordinates{Latitude: lat, Longitude: lng}
	}

	promotions, err := h.discoveryService.Featured(c.Request.Context(), origin)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Featured promotions retrieved successfully", map[string]interface{}{
		"promotions": promotions,
	})
}

// GetByID returns a promotion with its business. Authenticated views are
// recorded for analytics.
func (h *PromotionHandler) GetByID(c *gin.Context) {
	promotionID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var viewerID *primitive.ObjectID
	if raw, exists := c.Get("user_id"); exists {
		if id, ok := raw.(primitive.ObjectID); ok {
			viewerID = &id
		}
	}

	promotion, err := h.promotionService.GetByID(c.Request.Context(), promotionID, viewerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Promotion retrieved successfully", promotion)
}

// Create adds a promotion for the merchant's business
func (h *PromotionHandler) Create(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	var request validators.CreatePromotionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}
	if err := validators.ValidatePromotionRules(&request); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	promotion, err := h.promotionService.Create(c.Request.Context(), businessID, &request)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Promotion created successfully", promotion)
}

// Update modifies a promotion owned by the merchant
func (h *PromotionHandler) Update(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	promotionID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var request validators.UpdatePromotionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	promotion, err := h.promotionService.Update(c.Request.Context(), promotionID, businessID, &request)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Promotion updated successfully", promotion)
}

// Delete soft-expires a promotion so redeemed coupons stay attributable
func (h *PromotionHandler) Delete(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	promotionID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.promotionService.Delete(c.Request.Context(), promotionID, businessID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Promotion deleted successfully", nil)
}

// Pause sets an active promotion to paused
func (h *PromotionHandler) Pause(c *gin.Context) {
	h.transition(c, h.promotionService.Pause, "Promotion paused successfully")
}

// Activate sets a draft or paused promotion to active
func (h *PromotionHandler) Activate(c *gin.Context) {
	h.transition(c, h.promotionService.Activate, "Promotion activated successfully")
}

func (h *PromotionHandler) transition(c *gin.Context, op func(ctx context.Context, id, businessID primitive.ObjectID) error, message string) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	promotionID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := op(c.Request.Context(), promotionID, businessID); err != nil {
		if err.Error() == utils.ErrPromotionNotFound || err.Error() == utils.ErrForbidden || err.Error() == utils.ErrPlanLimitReached {
			respondServiceError(c, err)
			return
		}
		utils.BadRequestResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, message, nil)
}

// ListMine returns the merchant's own promotions
func (h *PromotionHandler) ListMine(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	promotions, total, err := h.promotionService.ListByBusiness(c.Request.Context(), businessID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	meta := &utils.Meta{
		Pagination: utils.BuildPaginationMeta(params, total),
	}

	utils.SuccessResponseWithMeta(c, "Promotions retrieved successfully", map[string]interface{}{
		"promotions": promotions,
	}, meta)
}

// UploadImage accepts a multipart image, stores a resized thumbnail and
// updates the promotion's image URL
func (h *PromotionHandler) UploadImage(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	promotionID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "Image file required")
		return
	}

	if h.maxUploadSize > 0 && fileHeader.Size > h.maxUploadSize {
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Image exceeds the maximum upload size")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	url, err := h.promotionService.UploadImage(c.Request.Context(), promotionID, businessID, data, fileHeader.Filename)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Image uploaded successfully", map[string]interface{}{
		"image_url": url,
	})
}
