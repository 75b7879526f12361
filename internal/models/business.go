package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Coordinates is an immutable latitude/longitude pair in degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

type BusinessCategory string

const (
	BusinessCategoryRestaurant BusinessCategory = "restaurant"
	BusinessCategoryCafe       BusinessCategory = "cafe"
	BusinessCategoryRetail     BusinessCategory = "retail"
	BusinessCategoryBeauty     BusinessCategory = "beauty"
	BusinessCategoryFitness    BusinessCategory = "fitness"
	BusinessCategoryServices   BusinessCategory = "services"
	BusinessCategoryOther      BusinessCategory = "other"
)

type Business struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OwnerID     primitive.ObjectID `json:"owner_id" bson:"owner_id" validate:"required"`
	Name        string             `json:"name" bson:"name" validate:"required"`
	Description string             `json:"description" bson:"description"`
	Category    BusinessCategory   `json:"category" bson:"category" validate:"required"`
	Address     string             `json:"address" bson:"address" validate:"required"`
	Coordinates Coordinates        `json:"coordinates" bson:"coordinates"`
	Phone       string             `json:"phone" bson:"phone"`
	Email       string             `json:"email" bson:"email"`
	Website     string             `json:"website" bson:"website"`
	LogoURL     string             `json:"logo_url" bson:"logo_url"`
	Plan        SubscriptionPlanID `json:"plan" bson:"plan" default:"free"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}
