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
)

type businessRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewBusinessRepository(db *mongo.Database, cache services.CacheService) interfaces.BusinessRepository {
	return &businessRepository{
		collection: db.Collection("businesses"),
		cache:      cache,
	}
}

func (r *businessRepository) Create(ctx context.Context, business *models.Business) error {
	business.ID = primitive.NewObjectID()
	if business.Plan == "" {
		business.Plan = models.PlanFree
	}
	business.CreatedAt = time.Now()
	business.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, business)
	if err != nil {
		return fmt.Errorf("failed to create business: %w", err)
	}

	return nil
}

func (r *businessRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Business, error) {
	if r.cache != nil {
		var cached models.Business
		if err := r.cache.Get(ctx, utils.CacheBusinessPrefix+id.Hex(), &cached); err == nil {
			return &cached, nil
		}
	}

	var business models.Business
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&business)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New(utils.ErrBusinessNotFound)
		}
		return nil, fmt.Errorf("failed to get business: %w", err)
	}

	if r.cache != nil {
		r.cache.Set(ctx, utils.CacheBusinessPrefix+id.Hex(), business, 15*time.Minute)
	}

	return &business, nil
}

func (r *businessRepository) GetByOwnerID(ctx context.Context, ownerID primitive.ObjectID) (*models.Business, error) {
	var business models.Business
	err := r.collection.FindOne(ctx, bson.M{"owner_id": ownerID}).Decode(&business)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New(utils.ErrBusinessNotFound)
		}
		return nil, fmt.Errorf("failed to get business by owner: %w", err)
	}

	return &business, nil
}

func (r *businessRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update business: %w", err)
	}

	if r.cache != nil {
		r.cache.Delete(ctx, utils.CacheBusinessPrefix+id.Hex())
	}

	return nil
}

func (r *businessRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete business: %w", err)
	}

	if r.cache != nil {
		r.cache.Delete(ctx, utils.CacheBusinessPrefix+id.Hex())
	}

	return nil
}

func (r *businessRepository) UpdatePlan(ctx context.Context, id primitive.ObjectID, plan models.SubscriptionPlanID) error {
	return r.Update(ctx, id, map[string]interface{}{"plan": plan})
}

func (r *businessRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Business, int64, error) {
	return r.findBusinesses(ctx, bson.M{}, params)
}

func (r *businessRepository) GetByCategory(ctx context.Context, category models.BusinessCategory, params *utils.PaginationParams) ([]*models.Business, int64, error) {
	return r.findBusinesses(ctx, bson.M{"category": category}, params)
}

func (r *businessRepository) GetTotalCount(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count businesses: %w", err)
	}
	return count, nil
}

func (r *businessRepository) findBusinesses(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Business, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count businesses: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.FindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list businesses: %w", err)
	}
	defer cursor.Close(ctx)

	var businesses []*models.Business
	if err := cursor.All(ctx, &businesses); err != nil {
		return nil, 0, fmt.Errorf("failed to decode businesses: %w", err)
	}

	return businesses, total, nil
}
