package interfaces

import (
	"context"

	"github.com/alexcolls/descuentia/internal/models"
	"github.com/alexcolls/descuentia/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Authentication operations
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error

	// Push token management
	AddPushToken(ctx context.Context, id primitive.ObjectID, token models.PushToken) error
	RemovePushToken(ctx context.Context, id primitive.ObjectID, token string) error

	// Listing
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.User, int64, error)
	GetByType(ctx context.Context, userType models.UserType, params *utils.PaginationParams) ([]*models.User, int64, error)
	GetTotalCount(ctx context.Context) (int64, error)
}
