package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alexcolls/descuentia/internal/services"
	"github.com/alexcolls/descuentia/internal/utils"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// Overview returns aggregate metrics for the merchant's business
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	overview, err := h.analyticsService.GetOverview(c.Request.Context(), businessID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Analytics overview retrieved successfully", overview)
}

// PromotionStats returns per-promotion metrics for the merchant
func (h *AnalyticsHandler) PromotionStats(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	promotionID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.analyticsService.GetPromotionStats(c.Request.Context(), promotionID, businessID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Promotion stats retrieved successfully", stats)
}

// DailyRedemptions returns redemption counts per day for the last N days
func (h *AnalyticsHandler) DailyRedemptions(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 365 {
			utils.BadRequestResponse(c, "Invalid days")
			return
		}
		days = parsed
	}

	series, err := h.analyticsService.GetDailyRedemptions(c.Request.Context(), businessID, days)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Daily redemptions retrieved successfully", map[string]interface{}{
		"days":        days,
		"redemptions": series,
	})
}
