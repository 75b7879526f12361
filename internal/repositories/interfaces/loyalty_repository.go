package interfaces

import (
	"context"

	"github.com/alexcolls/descuentia/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LoyaltyRepository interface {
	CreateProgram(ctx context.Context, program *models.LoyaltyProgram) error
	GetProgramByID(ctx context.Context, id primitive.ObjectID) (*models.LoyaltyProgram, error)
	GetProgramByBusiness(ctx context.Context, businessID primitive.ObjectID) (*models.LoyaltyProgram, error)
	UpdateProgram(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	GetCard(ctx context.Context, userID, programID primitive.ObjectID) (*models.LoyaltyCard, error)
	ListCardsByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.LoyaltyCard, error)

	// AddStamp upserts the user's card for the program and increments its
	// stamp count, returning the card after the write.
	AddStamp(ctx context.Context, userID primitive.ObjectID, program *models.LoyaltyProgram) (*models.LoyaltyCard, error)
	// ResetStamps zeroes the stamp count and increments rewards_earned.
	ResetStamps(ctx context.Context, cardID primitive.ObjectID) error
}
