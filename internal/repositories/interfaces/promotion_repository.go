package interfaces

import (
	"context"

	"github.com/alexcolls/descuentia/internal/models"
	"github.com/alexcolls/descuentia/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PromotionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, promotion *models.Promotion) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Promotion, error)
	GetByIDWithBusiness(ctx context.Context, id primitive.ObjectID) (*models.PromotionWithBusiness, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Discovery
	GetActiveWithBusiness(ctx context.Context) ([]*models.PromotionWithBusiness, error)
	GetFeatured(ctx context.Context, limit int) ([]*models.PromotionWithBusiness, error)

	// Merchant views
	GetByBusinessID(ctx context.Context, businessID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Promotion, int64, error)
	CountActiveByBusiness(ctx context.Context, businessID primitive.ObjectID) (int64, error)

	// Lifecycle
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.PromotionStatus) error
	MarkExpired(ctx context.Context, id primitive.ObjectID) error
	IncrementRedemptions(ctx context.Context, id primitive.ObjectID) error
}
