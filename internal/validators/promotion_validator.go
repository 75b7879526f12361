package validators

import (
	"errors"
	"time"

	"github.com/alexcolls/descuentia/internal/models"
)

type CreatePromotionRequest struct {
	Title              string     `json:"title" validate:"required,min=3,max=120"`
	Description        string     `json:"description" validate:"max=2000"`
	DiscountType       string     `json:"discount_type" validate:"required,oneof=percentage fixed_amount special_offer"`
	DiscountValue      *float64   `json:"discount_value" validate:"omitempty,gt=0"`
	SpecialOfferText   string     `json:"special_offer_text" validate:"max=255"`
	CampaignType       string     `json:"campaign_type" validate:"required,oneof=always_on time_based weekly_special"`
	StartDate          *time.Time `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	DaysOfWeek         []int      `json:"days_of_week" validate:"omitempty,max=7,dive,min=0,max=6"`
	StartTime          string     `json:"start_time" validate:"omitempty,time_of_day"`
	EndTime            string     `json:"end_time" validate:"omitempty,time_of_day"`
	VisibilityRadiusKm float64    `json:"visibility_radius_km" validate:"required,gt=0,max=50"`
	IsFeatured         bool       `json:"is_featured"`
	TermsConditions    string     `json:"terms_conditions" validate:"max=5000"`
	Status             string     `json:"status" validate:"omitempty,oneof=draft active"`
}

type UpdatePromotionRequest struct {
	Title              *string    `json:"title" validate:"omitempty,min=3,max=120"`
	Description        *string    `json:"description" validate:"omitempty,max=2000"`
	DiscountValue      *float64   `json:"discount_value" validate:"omitempty,gt=0"`
	SpecialOfferText   *string    `json:"special_offer_text" validate:"omitempty,max=255"`
	EndDate            *time.Time `json:"end_date"`
	VisibilityRadiusKm *float64   `json:"visibility_radius_km" validate:"omitempty,gt=0,max=50"`
	IsFeatured         *bool      `json:"is_featured"`
	TermsConditions    *string    `json:"terms_conditions" validate:"omitempty,max=5000"`
}

// ToUpdates converts the set fields of a partial update into a Mongo $set
// document. Unset pointers are left untouched in the stored promotion.
func (req *UpdatePromotionRequest) ToUpdates() map[string]interface{} {
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.DiscountValue != nil {
		updates["discount_value"] = *req.DiscountValue
	}
	if req.SpecialOfferText != nil {
		updates["special_offer_text"] = *req.SpecialOfferText
	}
	if req.EndDate != nil {
		updates["end_date"] = *req.EndDate
	}
	if req.VisibilityRadiusKm != nil {
		updates["visibility_radius_km"] = *req.VisibilityRadiusKm
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.TermsConditions != nil {
		updates["terms_conditions"] = *req.TermsConditions
	}
	return updates
}

var (
	ErrDiscountValueRequired = errors.New("discount_value is required for percentage and fixed_amount discounts")
	ErrOfferTextRequired     = errors.New("special_offer_text is required for special_offer discounts")
	ErrEndDateRequired       = errors.New("end_date is required for time-bounded campaigns")
	ErrEndBeforeStart        = errors.New("end_date must be after start_date")
	ErrDaysOfWeekRequired    = errors.New("days_of_week is required for weekly specials")
)

// ValidatePromotionRules enforces the cross-field rules the tag validator
// cannot express: discount shape per type and campaign time bounds.
func ValidatePromotionRules(req *CreatePromotionRequest) error {
	if errs := ValidateStruct(req); len(errs) > 0 {
		return errs
	}

	switch models.DiscountType(req.DiscountType) {
	case models.DiscountTypePercentage, models.DiscountTypeFixedAmount:
		if req.DiscountValue == nil {
			return ErrDiscountValueRequired
		}
	case models.DiscountTypeSpecialOffer:
		if req.SpecialOfferText == "" {
			return ErrOfferTextRequired
		}
	}

	switch models.CampaignType(req.CampaignType) {
	case models.CampaignTypeTimeBased:
		if req.EndDate == nil {
			return ErrEndDateRequired
		}
		if req.StartDate != nil && req.EndDate.Before(*req.StartDate) {
			return ErrEndBeforeStart
		}
	case models.CampaignTypeWeeklySpecial:
		if len(req.DaysOfWeek) == 0 {
			return ErrDaysOfWeekRequired
		}
		if req.EndDate != nil && req.StartDate != nil && req.EndDate.Before(*req.StartDate) {
			return ErrEndBeforeStart
		}
	}

	return nil
}
