package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserType string

const (
	UserTypeConsumer UserType = "consumer"
	UserTypeMerchant UserType = "merchant"
	UserTypeAdmin    UserType = "admin"
)

type User struct {
	ID           primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Email        string              `json:"email" bson:"email" validate:"required,email"`
	PasswordHash string              `json:"-" bson:"password_hash"`
	FullName     string              `json:"full_name" bson:"full_name" validate:"required"`
	UserType     UserType            `json:"user_type" bson:"user_type" validate:"required"`
	BusinessID   *primitive.ObjectID `json:"business_id,omitempty" bson:"business_id,omitempty"`
	PushTokens   []PushToken         `json:"push_tokens,omitempty" bson:"push_tokens,omitempty"`
	IsActive     bool                `json:"is_active" bson:"is_active" default:"true"`
	LastLoginAt  *time.Time          `json:"last_login_at,omitempty" bson:"last_login_at,omitempty"`
	CreatedAt    time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" bson:"updated_at"`
}

type PushToken struct {
	Token    string `json:"token" bson:"token"`
	Platform string `json:"platform" bson:"platform"` // ios, android
}
