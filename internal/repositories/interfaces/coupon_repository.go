package interfaces

import (
	"context"
	"time"

	"github.com/alexcolls/descuentia/internal/models"
	"github.com/alexcolls/descuentia/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CouponRepository interface {
	Create(ctx context.Context, coupon *models.Coupon) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error)
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	GetDetailByCode(ctx context.Context, code string) (*models.CouponDetail, error)
	// GetActiveClaim returns the user's outstanding claimed coupon for the
	// promotion, if one exists that has not yet passed its expiry.
	GetActiveClaim(ctx context.Context, userID, promotionID primitive.ObjectID, now time.Time) (*models.Coupon, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// RedeemIfClaimed atomically flips a coupon from claimed to redeemed and
	// returns the pre-image. It fails when the coupon was already redeemed,
	// expired, or concurrently taken by another redemption.
	RedeemIfClaimed(ctx context.Context, id primitive.ObjectID, redeemedAt time.Time) (*models.Coupon, error)
	MarkExpired(ctx context.Context, id primitive.ObjectID) error

	// GetByUserID lists the user's coupons, optionally narrowed to one
	// status. Filtering happens in the query so pages and totals agree.
	GetByUserID(ctx context.Context, userID primitive.ObjectID, status string, params *utils.PaginationParams) ([]*models.CouponDetail, int64, error)
	CountByPromotion(ctx context.Context, promotionID primitive.ObjectID) (int64, error)
	CountByPromotionAndStatus(ctx context.Context, promotionID primitive.ObjectID, status models.CouponStatus) (int64, error)
}
