package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubscriptionPlanID string
type SubscriptionStatus string

const (
	PlanFree    SubscriptionPlanID = "free"
	PlanBasic   SubscriptionPlanID = "basic"
	PlanPro     SubscriptionPlanID = "pro"
	PlanPremium SubscriptionPlanID = "premium"

	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

type SubscriptionPlan struct {
	ID       SubscriptionPlanID `json:"id"`
	Name     string             `json:"name"`
	Price    float64            `json:"price"` // EUR per month
	PriceRef string             `json:"-"`     // gateway price id
	Features []string           `json:"features"`
	Limits   PlanLimits         `json:"limits"`
}

type PlanLimits struct {
	Promotions        int  `json:"promotions"` // -1 = unlimited
	LoyaltyProgram    bool `json:"loyalty_program"`
	AdvancedAnalytics bool `json:"advanced_analytics"`
	FeaturedPlacement bool `json:"featured_placement"`
}

type Subscription struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BusinessID         primitive.ObjectID `json:"business_id" bson:"business_id"`
	Plan               SubscriptionPlanID `json:"plan" bson:"plan"`
	Status             SubscriptionStatus `json:"status" bson:"status"`
	Gateway            string             `json:"gateway" bson:"gateway"` // stripe, razorpay
	CustomerRef        string             `json:"customer_ref" bson:"customer_ref"`
	SubscriptionRef    string             `json:"subscription_ref" bson:"subscription_ref"`
	CurrentPeriodEnd   *time.Time         `json:"current_period_end,omitempty" bson:"current_period_end,omitempty"`
	CancelAtPeriodEnd  bool               `json:"cancel_at_period_end" bson:"cancel_at_period_end"`
	CreatedAt          time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" bson:"updated_at"`
}

// SubscriptionPlans mirrors the pricing configured in the payment gateway
// dashboard. Promotions=-1 means unlimited.
var SubscriptionPlans = map[SubscriptionPlanID]SubscriptionPlan{
	PlanFree: {
		ID: PlanFree, Name: "Free", Price: 0,
		Features: []string{"1 active promotion", "Basic analytics", "QR code redemption"},
		Limits:   PlanLimits{Promotions: 1},
	},
	PlanBasic: {
		ID: PlanBasic, Name: "Basic", Price: 19,
		Features: []string{"3 active promotions", "Loyalty program", "Basic analytics", "Email support"},
		Limits:   PlanLimits{Promotions: 3, LoyaltyProgram: true},
	},
	PlanPro: {
		ID: PlanPro, Name: "Pro", Price: 49,
		Features: []string{"10 active promotions", "Advanced loyalty program", "Advanced analytics", "Featured placement", "Priority support"},
		Limits:   PlanLimits{Promotions: 10, LoyaltyProgram: true, AdvancedAnalytics: true, FeaturedPlacement: true},
	},
	PlanPremium: {
		ID: PlanPremium, Name: "Premium", Price: 99,
		Features: []string{"Unlimited promotions", "Premium loyalty features", "Advanced analytics", "Priority featured placement", "Dedicated support"},
		Limits:   PlanLimits{Promotions: -1, LoyaltyProgram: true, AdvancedAnalytics: true, FeaturedPlacement: true},
	},
}
