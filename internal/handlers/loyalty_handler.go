package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/alexcolls/descuentia/internal/services"
	"github.com/alexcolls/descuentia/internal/utils"
	"github.com/alexcolls/descuentia/internal/validators"
)

type LoyaltyHandler struct {
	loyaltyService services.LoyaltyService
}

func NewLoyaltyHandler(loyaltyService services.LoyaltyService) *LoyaltyHandler {
	return &LoyaltyHandler{
		loyaltyService: loyaltyService,
	}
}

// CreateProgram sets up the stamp card program for the merchant's business
func (h *LoyaltyHandler) CreateProgram(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	var request services.LoyaltyProgramRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	program, err := h.loyaltyService.CreateProgram(c.Request.Context(), businessID, &request)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Loyalty program created successfully", program)
}

// UpdateProgram changes the stamp card settings
func (h *LoyaltyHandler) UpdateProgram(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	var request services.LoyaltyProgramRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	program, err := h.loyaltyService.UpdateProgram(c.Request.Context(), businessID, &request)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Loyalty program updated successfully", program)
}

// GetProgram returns the merchant's loyalty program
func (h *LoyaltyHandler) GetProgram(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	program, err := h.loyaltyService.GetProgram(c.Request.Context(), businessID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Loyalty program retrieved successfully", program)
}

// GetCards returns the consumer's stamp cards with their programs
func (h *LoyaltyHandler) GetCards(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cards, err := h.loyaltyService.GetUserCards(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Loyalty cards retrieved successfully", map[string]interface{}{
		"cards": cards,
	})
}
