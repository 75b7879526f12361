package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexcolls/descuentia/internal/models"
	"github.com/alexcolls/descuentia/internal/repositories/interfaces"
	"github.com/alexcolls/descuentia/internal/services"
	"github.com/alexcolls/descuentia/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type promotionRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewPromotionRepository(db *mongo.Database, cache services.CacheService) interfaces.PromotionRepository {
	return &promotionRepository{
		collection: db.Collection("promotions"),
		cache:      cache,
	}
}

func (r *promotionRepository) Create(ctx context.Context, promotion *models.Promotion) error {
	promotion.ID = primitive.NewObjectID()
	if promotion.Status == "" {
		promotion.Status = models.PromotionStatusDraft
	}
	if promotion.VisibilityRadiusKm <= 0 {
		promotion.VisibilityRadiusKm = utils.DefaultVisibilityRadius
	}
	promotion.CreatedAt = time.Now()
	promotion.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, promotion)
	if err != nil {
		return fmt.Errorf("failed to create promotion: %w", err)
	}

	r.invalidateDiscoveryCache(ctx)

	return nil
}

func (r *promotionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Promotion, error) {
	var promotion models.Promotion
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&promotion)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New(utils.ErrPromotionNotFound)
		}
		return nil, fmt.Errorf("failed to get promotion: %w", err)
	}

	return &promotion, nil
}

func (r *promotionRepository) GetByIDWithBusiness(ctx context.Context, id primitive.ObjectID) (*models.PromotionWithBusiness, error) {
	results, err := r.aggregateWithBusiness(ctx, bson.M{"_id": id}, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, errors.New(utils.ErrPromotionNotFound)
	}
	return results[0], nil
}

func (r *promotionRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update promotion: %w", err)
	}

	r.invalidateDiscoveryCache(ctx)

	return nil
}

func (r *promotionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete promotion: %w", err)
	}

	r.invalidateDiscoveryCache(ctx)

	return nil
}

// GetActiveWithBusiness returns every active promotion joined with its
// business. Geographic filtering happens in the discovery service because the
// per-promotion visibility radius makes a single $geoWithin query impossible.
func (r *promotionRepository) GetActiveWithBusiness(ctx context.Context) ([]*models.PromotionWithBusiness, error) {
	return r.aggregateWithBusiness(ctx, bson.M{"status": models.PromotionStatusActive}, 0)
}

func (r *promotionRepository) GetFeatured(ctx context.Context, limit int) ([]*models.PromotionWithBusiness, error) {
	return r.aggregateWithBusiness(ctx, bson.M{
		"status": models.PromotionStatusActive,
		"$or": bson.A{
			bson.M{"is_featured": true},
			bson.M{"campaign_type": models.CampaignTypeWeeklySpecial},
		},
	}, limit)
}

func (r *promotionRepository) GetByBusinessID(ctx context.Context, businessID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Promotion, int64, error) {
	filter := bson.M{"business_id": businessID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count promotions: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.FindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list promotions: %w", err)
	}
	defer cursor.Close(ctx)

	var promotions []*models.Promotion
	if err := cursor.All(ctx, &promotions); err != nil {
		return nil, 0, fmt.Errorf("failed to decode promotions: %w", err)
	}

	return promotions, total, nil
}

func (r *promotionRepository) CountActiveByBusiness(ctx context.Context, businessID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"business_id": businessID,
		"status":      models.PromotionStatusActive,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count active promotions: %w", err)
	}
	return count, nil
}

func (r *promotionRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.PromotionStatus) error {
	return r.Update(ctx, id, map[string]interface{}{"status": status})
}

func (r *promotionRepository) MarkExpired(ctx context.Context, id primitive.ObjectID) error {
	return r.UpdateStatus(ctx, id, models.PromotionStatusExpired)
}

func (r *promotionRepository) IncrementRedemptions(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"redemptions_count": 1},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to increment redemptions: %w", err)
	}
	return nil
}

func (r *promotionRepository) aggregateWithBusiness(ctx context.Context, match bson.M, limit int) ([]*models.PromotionWithBusiness, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "businesses",
			"localField":   "business_id",
			"foreignField": "_id",
			"as":           "business",
		}}},
		{{Key: "$unwind", Value: "$business"}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline, options.Aggregate())
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate promotions: %w", err)
	}
	defer cursor.Close(ctx)

	var results []*models.PromotionWithBusiness
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode promotions: %w", err)
	}

	return results, nil
}

func (r *promotionRepository) invalidateDiscoveryCache(ctx context.Context) {
	if r.cache == nil {
		return
	}
	r.cache.DeletePattern(ctx, utils.CacheDiscoveryPrefix+"*")
	r.cache.Delete(ctx, utils.CacheFeaturedKey)
}
