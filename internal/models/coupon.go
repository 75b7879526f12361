package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CouponStatus string

const (
	CouponStatusClaimed  CouponStatus = "claimed"
	CouponStatusRedeemed CouponStatus = "redeemed"
	CouponStatusExpired  CouponStatus = "expired"
)

// Coupon lifecycle is strictly forward-moving: claimed->redeemed or
// claimed->expired, both terminal. RedeemedAt is non-nil iff status=redeemed.
type Coupon struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PromotionID primitive.ObjectID `json:"promotion_id" bson:"promotion_id" validate:"required"`
	UserID      primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	Code        string             `json:"code" bson:"code" validate:"required"`
	Status      CouponStatus       `json:"status" bson:"status" default:"claimed"`
	ClaimedAt   time.Time          `json:"claimed_at" bson:"claimed_at"`
	RedeemedAt  *time.Time         `json:"redeemed_at,omitempty" bson:"redeemed_at,omitempty"`
	ExpiresAt   time.Time          `json:"expires_at" bson:"expires_at"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// IsExpired applies lazy expiration: a coupon past ExpiresAt is treated as
// expired even while its stored status still reads claimed.
func (c *Coupon) IsExpired(now time.Time) bool {
	if c.Status == CouponStatusExpired {
		return true
	}
	return c.Status == CouponStatusClaimed && now.After(c.ExpiresAt)
}

// CouponDetail is the denormalized view fetched for redemption: coupon plus
// its promotion, owning business and claiming user.
type CouponDetail struct {
	Coupon    `bson:",inline"`
	Promotion *Promotion `json:"promotion" bson:"promotion"`
	Business  *Business  `json:"business" bson:"business"`
	User      *User      `json:"user" bson:"user"`
}
