package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationNewPromotionNearby NotificationType = "new_promotion_nearby"
	NotificationCouponExpiring     NotificationType = "coupon_expiring"
	NotificationLoyaltyReward      NotificationType = "loyalty_reward"
	NotificationCouponRedeemed     NotificationType = "coupon_redeemed"
)

type Notification struct {
	ID        primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID     `json:"user_id" bson:"user_id"`
	Type      NotificationType       `json:"type" bson:"type"`
	Title     string                 `json:"title" bson:"title"`
	Body      string                 `json:"body" bson:"body"`
	Data      map[string]interface{} `json:"data,omitempty" bson:"data,omitempty"`
	IsRead    bool                   `json:"is_read" bson:"is_read" default:"false"`
	SentAt    *time.Time             `json:"sent_at,omitempty" bson:"sent_at,omitempty"`
	CreatedAt time.Time              `json:"created_at" bson:"created_at"`
}
