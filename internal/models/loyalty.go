package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoyaltyProgram is a per-business stamp card: after StampsRequired
// redemptions the consumer earns RewardDescription.
type LoyaltyProgram struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BusinessID        primitive.ObjectID `json:"business_id" bson:"business_id" validate:"required"`
	Name              string             `json:"name" bson:"name" validate:"required"`
	StampsRequired    int                `json:"stamps_required" bson:"stamps_required" default:"10"`
	RewardDescription string             `json:"reward_description" bson:"reward_description" validate:"required"`
	IsActive          bool               `json:"is_active" bson:"is_active" default:"true"`
	CreatedAt         time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at" bson:"updated_at"`
}

type LoyaltyCard struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProgramID     primitive.ObjectID `json:"program_id" bson:"program_id"`
	BusinessID    primitive.ObjectID `json:"business_id" bson:"business_id"`
	UserID        primitive.ObjectID `json:"user_id" bson:"user_id"`
	Stamps        int                `json:"stamps" bson:"stamps" default:"0"`
	RewardsEarned int                `json:"rewards_earned" bson:"rewards_earned" default:"0"`
	LastStampAt   *time.Time         `json:"last_stamp_at,omitempty" bson:"last_stamp_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}
