package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alexcolls/descuentia/internal/services"
	"github.com/alexcolls/descuentia/internal/utils"
)

type CouponHandler struct {
	couponService services.CouponService
}

func NewCouponHandler(couponService services.CouponService) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
	}
}

// Claim issues a coupon for the given promotion to the authenticated consumer
func (h *CouponHandler) Claim(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request struct {
		PromotionID string `json:"promotion_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "promotion_id required")
		return
	}

	promotionID, err := primitive.ObjectIDFromHex(request.PromotionID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid promotion_id")
		return
	}

	coupon, err := h.couponService.Claim(c.Request.Context(), promotionID, userID)
	if err != nil {
		switch err.Error() {
		case utils.ErrPromotionNotFound:
			utils.NotFoundResponse(c, "Promotion")
		case services.MsgPromotionClosed:
			utils.ErrorResponse(c, 410, "PROMOTION_CLOSED", err.Error())
		case services.MsgDuplicateClaim:
			utils.ConflictResponse(c, err.Error())
		default:
			utils.InternalServerErrorResponse(c)
		}
		return
	}

	utils.CreatedResponse(c, "Coupon claimed successfully", coupon)
}

// List returns the consumer's coupons, optionally filtered by status
func (h *CouponHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	status := c.Query("status")

	coupons, total, err := h.couponService.ListUserCoupons(c.Request.Context(), userID, status, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	meta := &utils.Meta{
		Pagination: utils.BuildPaginationMeta(params, total),
	}

	utils.SuccessResponseWithMeta(c, "Coupons retrieved successfully", map[string]interface{}{
		"coupons": coupons,
	}, meta)
}

// GetByID returns one of the consumer's coupons
func (h *CouponHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	couponID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	coupon, err := h.couponService.GetByID(c.Request.Context(), couponID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Coupon retrieved successfully", coupon)
}
