package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AnalyticsEventType string

const (
	AnalyticsEventView       AnalyticsEventType = "view"
	AnalyticsEventClaim      AnalyticsEventType = "claim"
	AnalyticsEventShare      AnalyticsEventType = "share"
	AnalyticsEventFavorite   AnalyticsEventType = "favorite"
	AnalyticsEventRedemption AnalyticsEventType = "redemption"
)

type AnalyticsEvent struct {
	ID          primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	UserID      primitive.ObjectID     `json:"user_id" bson:"user_id"`
	PromotionID primitive.ObjectID     `json:"promotion_id" bson:"promotion_id"`
	EventType   AnalyticsEventType     `json:"event_type" bson:"event_type"`
	EventData   map[string]interface{} `json:"event_data,omitempty" bson:"event_data,omitempty"`
	CreatedAt   time.Time              `json:"created_at" bson:"created_at"`
}

type AnalyticsOverview struct {
	TotalPromotions  int     `json:"total_promotions"`
	ActivePromotions int     `json:"active_promotions"`
	TotalViews       int64   `json:"total_views"`
	TotalClaims      int64   `json:"total_claims"`
	TotalShares      int64   `json:"total_shares"`
	TotalRedemptions int64   `json:"total_redemptions"`
	ConversionRate   float64 `json:"conversion_rate"` // redemptions / claims
	EngagementRate   float64 `json:"engagement_rate"` // claims / views
}

type PromotionStats struct {
	Views       int64 `json:"views"`
	Claims      int64 `json:"claims"`
	Shares      int64 `json:"shares"`
	Redemptions int64 `json:"redemptions"`
}
