package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DiscountType string
type CampaignType string
type PromotionStatus string

const (
	DiscountTypePercentage   DiscountType = "percentage"
	DiscountTypeFixedAmount  DiscountType = "fixed_amount"
	DiscountTypeSpecialOffer DiscountType = "special_offer"

	CampaignTypeAlwaysOn      CampaignType = "always_on"
	CampaignTypeTimeBased     CampaignType = "time_based"
	CampaignTypeWeeklySpecial CampaignType = "weekly_special"

	PromotionStatusDraft   PromotionStatus = "draft"
	PromotionStatusActive  PromotionStatus = "active"
	PromotionStatusPaused  PromotionStatus = "paused"
	PromotionStatusExpired PromotionStatus = "expired"
)

type Promotion struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BusinessID         primitive.ObjectID `json:"business_id" bson:"business_id" validate:"required"`
	Title              string             `json:"title" bson:"title" validate:"required"`
	Description        string             `json:"description" bson:"description"`
	DiscountType       DiscountType       `json:"discount_type" bson:"discount_type" validate:"required"`
	DiscountValue      *float64           `json:"discount_value,omitempty" bson:"discount_value,omitempty"`
	SpecialOfferText   string             `json:"special_offer_text,omitempty" bson:"special_offer_text,omitempty"`
	CampaignType       CampaignType       `json:"campaign_type" bson:"campaign_type" validate:"required"`
	StartDate          *time.Time         `json:"start_date,omitempty" bson:"start_date,omitempty"`
	EndDate            *time.Time         `json:"end_date,omitempty" bson:"end_date,omitempty"`
	DaysOfWeek         []int              `json:"days_of_week,omitempty" bson:"days_of_week,omitempty"` // 0=Sunday
	StartTime          string             `json:"start_time,omitempty" bson:"start_time,omitempty"`     // HH:MM
	EndTime            string             `json:"end_time,omitempty" bson:"end_time,omitempty"`
	VisibilityRadiusKm float64            `json:"visibility_radius_km" bson:"visibility_radius_km" validate:"gt=0"`
	Status             PromotionStatus    `json:"status" bson:"status" default:"draft"`
	IsFeatured         bool               `json:"is_featured" bson:"is_featured" default:"false"`
	ImageURL           string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	TermsConditions    string             `json:"terms_conditions,omitempty" bson:"terms_conditions,omitempty"`
	RedemptionsCount   int                `json:"redemptions_count" bson:"redemptions_count" default:"0"`
	CreatedAt          time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" bson:"updated_at"`
}

// IsLogicallyExpired reports whether a time-bounded promotion has passed its
// end date. Stored status is eventually consistent and must not be trusted on
// its own for time_based and weekly_special campaigns.
func (p *Promotion) IsLogicallyExpired(now time.Time) bool {
	if p.Status == PromotionStatusExpired {
		return true
	}
	if p.CampaignType == CampaignTypeAlwaysOn {
		return false
	}
	return p.EndDate != nil && now.After(*p.EndDate)
}

// PromotionWithBusiness is the denormalized discovery view.
type PromotionWithBusiness struct {
	Promotion `bson:",inline"`
	Business  *Business `json:"business" bson:"business"`
}
