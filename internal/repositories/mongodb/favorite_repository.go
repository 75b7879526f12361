package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexcolls/descuentia/internal/models"
	"github.com/alexcolls/descuentia/internal/repositories/interfaces"
	"github.com/alexcolls/descuentia/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type favoriteRepository struct {
	collection *mongo.Collection
}

func NewFavoriteRepository(db *mongo.Database) interfaces.FavoriteRepository {
	return &favoriteRepository{
		collection: db.Collection("favorites"),
	}
}

func (r *favoriteRepository) Add(ctx context.Context, favorite *models.Favorite) error {
	favorite.ID = primitive.NewObjectID()
	favorite.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, favorite)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.New(utils.ErrConflict)
		}
		return fmt.Errorf("failed to add favorite: %w", err)
	}

	return nil
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, promotionID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{
		"user_id":      userID,
		"promotion_id": promotionID,
	})
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	if result.DeletedCount == 0 {
		return errors.New(utils.ErrNotFound)
	}

	return nil
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, promotionID primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"user_id":      userID,
		"promotion_id": promotionID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.PromotionWithBusiness, int64, error) {
	filter := bson.M{"user_id": userID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count favorites: %w", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$skip", Value: params.Skip()}},
		{{Key: "$limit", Value: params.Limit()}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "promotions",
			"localField":   "promotion_id",
			"foreignField": "_id",
			"as":           "promotion",
		}}},
		{{Key: "$unwind", Value: "$promotion"}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$promotion"}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "businesses",
			"localField":   "business_id",
			"foreignField": "_id",
			"as":           "business",
		}}},
		{{Key: "$unwind", Value: "$business"}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to aggregate favorites: %w", err)
	}
	defer cursor.Close(ctx)

	var results []*models.PromotionWithBusiness
	if err := cursor.All(ctx, &results); err != nil {
		return nil, 0, fmt.Errorf("failed to decode favorites: %w", err)
	}

	return results, total, nil
}

func (r *favoriteRepository) CountByPromotion(ctx context.Context, promotionID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"promotion_id": promotionID})
	if err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return count, nil
}
