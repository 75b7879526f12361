package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Favorite struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	PromotionID primitive.ObjectID `json:"promotion_id" bson:"promotion_id" validate:"required"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}
