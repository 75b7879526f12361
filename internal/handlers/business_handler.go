package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/alexcolls/descuentia/internal/services"
	"github.com/alexcolls/descuentia/internal/utils"
	"github.com/alexcolls/descuentia/internal/validators"
)

type BusinessHandler struct {
	businessService services.BusinessService
}

func NewBusinessHandler(businessService services.BusinessService) *BusinessHandler {
	return &BusinessHandler{
		businessService: businessService,
	}
}

// Create registers the merchant's business profile
func (h *BusinessHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request validators.CreateBusinessRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	business, err := h.businessService.Create(c.Request.Context(), userID, &request)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Business created successfully", business)
}

// Update modifies the merchant's business profile
func (h *BusinessHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	var request validators.UpdateBusinessRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	business, err := h.businessService.Update(c.Request.Context(), businessID, userID, &request)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Business updated successfully", business)
}

// GetMine returns the merchant's own business
func (h *BusinessHandler) GetMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	business, err := h.businessService.GetByOwner(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Business retrieved successfully", business)
}

// GetByID returns a business by its ID
func (h *BusinessHandler) GetByID(c *gin.Context) {
	businessID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	business, err := h.businessService.GetByID(c.Request.Context(), businessID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Business retrieved successfully", business)
}

// List returns businesses, optionally filtered by category
func (h *BusinessHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	category := c.Query("category")

	businesses, total, err := h.businessService.List(c.Request.Context(), category, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	meta := &utils.Meta{
		Pagination: utils.BuildPaginationMeta(params, total),
	}

	utils.SuccessResponseWithMeta(c, "Businesses retrieved successfully", map[string]interface{}{
		"businesses": businesses,
	}, meta)
}
