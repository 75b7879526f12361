package interfaces

import (
	"context"

	"github.com/alexcolls/descuentia/internal/models"
	"github.com/alexcolls/descuentia/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BusinessRepository interface {
	Create(ctx context.Context, business *models.Business) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Business, error)
	GetByOwnerID(ctx context.Context, ownerID primitive.ObjectID) (*models.Business, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	UpdatePlan(ctx context.Context, id primitive.ObjectID, plan models.SubscriptionPlanID) error

	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Business, int64, error)
	GetByCategory(ctx context.Context, category models.BusinessCategory, params *utils.PaginationParams) ([]*models.Business, int64, error)
	GetTotalCount(ctx context.Context) (int64, error)
}
