package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alexcolls/descuentia/internal/services"
	"github.com/alexcolls/descuentia/internal/utils"
)

type RedemptionHandler struct {
	couponService services.CouponService
}

func NewRedemptionHandler(couponService services.CouponService) *RedemptionHandler {
	return &RedemptionHandler{
		couponService: couponService,
	}
}

type redemptionRequest struct {
	Code string `json:"code" binding:"required"`
}

// Redeem validates a scanned coupon code for the merchant's business and
// marks it redeemed when valid. The outcome always comes back as a result
// payload so the scanner app can show the message directly.
func (h *RedemptionHandler) Redeem(c *gin.Context) {
	h.process(c, h.couponService.Redeem)
}

// Preview runs the same validation as Redeem without changing anything
func (h *RedemptionHandler) Preview(c *gin.Context) {
	h.process(c, h.couponService.GetDetails)
}

func (h *RedemptionHandler) process(c *gin.Context, op func(ctx context.Context, code string, businessID primitive.ObjectID) (*services.RedemptionResult, error)) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	var request redemptionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "code required")
		return
	}

	result, err := op(c.Request.Context(), request.Code, businessID)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, result.Message, result)
}
