package interfaces

import (
	"context"

	"github.com/alexcolls/descuentia/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *models.Subscription) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Subscription, error)
	GetActiveByBusiness(ctx context.Context, businessID primitive.ObjectID) (*models.Subscription, error)
	GetBySubscriptionRef(ctx context.Context, ref string) (*models.Subscription, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	ListByBusiness(ctx context.Context, businessID primitive.ObjectID) ([]*models.Subscription, error)
}
