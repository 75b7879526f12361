package interfaces

import (
	"context"

	"github.com/alexcolls/descuentia/internal/models"
	"github.com/alexcolls/descuentia/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FavoriteRepository interface {
	Add(ctx context.Context, favorite *models.Favorite) error
	Remove(ctx context.Context, userID, promotionID primitive.ObjectID) error
	Exists(ctx context.Context, userID, promotionID primitive.ObjectID) (bool, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.PromotionWithBusiness, int64, error)
	CountByPromotion(ctx context.Context, promotionID primitive.ObjectID) (int64, error)
}
