package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/alexcolls/descuentia/internal/models"
	"github.com/alexcolls/descuentia/internal/services"
	"github.com/alexcolls/descuentia/internal/utils"
	"github.com/alexcolls/descuentia/pkg/logger"
)

type SubscriptionHandler struct {
	subscriptionService services.SubscriptionService
	logger              *logger.Logger
}

func NewSubscriptionHandler(subscriptionService services.SubscriptionService, logger *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		logger:              logger,
	}
}

// GetPlans returns the available subscription plans
func (h *SubscriptionHandler) GetPlans(c *gin.Context) {
	utils.SuccessResponse(c, "Plans retrieved successfully", map[string]interface{}{
		"plans": h.subscriptionService.GetPlans(),
	})
}

// Checkout starts a paid subscription for the merchant's business
func (h *SubscriptionHandler) Checkout(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	var request struct {
		PlanID  string `json:"plan_id" binding:"required"`
		Gateway string `json:"gateway"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "plan_id required")
		return
	}

	response, err := h.subscriptionService.Checkout(c.Request.Context(), businessID, models.SubscriptionPlanID(request.PlanID), request.Gateway)
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, "Checkout started successfully", response)
}

// Cancel schedules the current subscription to end at period close
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	if err := h.subscriptionService.Cancel(c.Request.Context(), businessID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Subscription canceled successfully", nil)
}

// GetCurrent returns the business's active subscription
func (h *SubscriptionHandler) GetCurrent(c *gin.Context) {
	businessID, ok := currentBusinessID(c)
	if !ok {
		return
	}

	subscription, err := h.subscriptionService.GetCurrent(c.Request.Context(), businessID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Subscription retrieved successfully", subscription)
}

// StripeWebhook receives Stripe events. The raw body and signature header go
// straight to the gateway for verification.
func (h *SubscriptionHandler) StripeWebhook(c *gin.Context) {
	h.webhook(c, "stripe", c.GetHeader("Stripe-Signature"))
}

// RazorpayWebhook receives Razorpay events
func (h *SubscriptionHandler) RazorpayWebhook(c *gin.Context) {
	h.webhook(c, "razorpay", c.GetHeader("X-Razorpay-Signature"))
}

func (h *SubscriptionHandler) webhook(c *gin.Context, gateway, signature string) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.BadRequestResponse(c, "Unable to read payload")
		return
	}

	if err := h.subscriptionService.HandleWebhook(c.Request.Context(), gateway, payload, signature); err != nil {
		h.logger.WithError(err).WithField("gateway", gateway).Warn("Webhook processing failed")
		utils.BadRequestResponse(c, "Webhook rejected")
		return
	}

	utils.SuccessResponse(c, "Webhook processed", nil)
}
