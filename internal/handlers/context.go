package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alexcolls/descuentia/internal/utils"
)

// currentUserID reads the authenticated user ID set by the auth middleware.
// Writes the error response itself when missing, so callers just return.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		utils.UnauthorizedResponse(c)
		return primitive.NilObjectID, false
	}

	id, ok := raw.(primitive.ObjectID)
	if !ok {
		utils.BadRequestResponse(c, "Invalid user ID")
		return primitive.NilObjectID, false
	}

	return id, true
}

// currentBusinessID reads the merchant's business ID from the token claims.
func currentBusinessID(c *gin.Context) (primitive.ObjectID, bool) {
	raw, exists := c.Get("business_id")
	if !exists {
		utils.ErrorResponse(c, http.StatusForbidden, "NO_BUSINESS", "No business linked to this account")
		return primitive.NilObjectID, false
	}

	id, ok := raw.(primitive.ObjectID)
	if !ok {
		utils.BadRequestResponse(c, "Invalid business ID")
		return primitive.NilObjectID, false
	}

	return id, true
}

func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}

// respondServiceError maps the well-known service error strings onto HTTP
// status codes. Anything unrecognized is treated as an internal error.
func respondServiceError(c *gin.Context, err error) {
	switch err.Error() {
	case utils.ErrUserNotFound:
		utils.NotFoundResponse(c, "User")
	case utils.ErrBusinessNotFound:
		utils.NotFoundResponse(c, "Business")
	case utils.ErrPromotionNotFound:
		utils.NotFoundResponse(c, "Promotion")
	case utils.ErrCouponNotFound:
		utils.NotFoundResponse(c, "Coupon")
	case utils.ErrNotFound:
		utils.NotFoundResponse(c, "Resource")
	case utils.ErrUserExists, utils.ErrConflict:
		utils.ConflictResponse(c, err.Error())
	case utils.ErrInvalidCredentials, utils.ErrInvalidToken, utils.ErrTokenExpired:
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	case utils.ErrForbidden:
		utils.ForbiddenResponse(c)
	case utils.ErrPlanLimitReached:
		utils.ErrorResponse(c, http.StatusPaymentRequired, "PLAN_LIMIT", err.Error())
	default:
		utils.InternalServerErrorResponse(c)
	}
}
