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

// ErrCouponAlreadyRedeemed signals that the conditional redeem write found no
// coupon in claimed state, meaning a concurrent or earlier redemption won.
var ErrCouponAlreadyRedeemed = errors.New("coupon is not in claimed state")

type couponRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewCouponRepository(db *mongo.Database, cache services.CacheService) interfaces.CouponRepository {
	return &couponRepository{
		collection: db.Collection("coupons"),
		cache:      cache,
	}
}

func (r *couponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	coupon.ID = primitive.NewObjectID()
	if coupon.Status == "" {
		coupon.Status = models.CouponStatusClaimed
	}
	coupon.CreatedAt = time.Now()
	coupon.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, coupon)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.New(utils.ErrConflict)
		}
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	return nil
}

func (r *couponRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	if r.cache != nil {
		var cached models.Coupon
		if err := r.cache.Get(ctx, utils.CacheCouponPrefix+id.Hex(), &cached); err == nil {
			return &cached, nil
		}
	}

	var coupon models.Coupon
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&coupon)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New(utils.ErrCouponNotFound)
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}

	if r.cache != nil {
		r.cache.Set(ctx, utils.CacheCouponPrefix+id.Hex(), coupon, 5*time.Minute)
	}

	return &coupon, nil
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&coupon)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New(utils.ErrCouponNotFound)
		}
		return nil, fmt.Errorf("failed to get coupon by code: %w", err)
	}

	return &coupon, nil
}

func (r *couponRepository) GetDetailByCode(ctx context.Context, code string) (*models.CouponDetail, error) {
	results, err := r.aggregateDetails(ctx, bson.M{"code": code}, nil)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, errors.New(utils.ErrCouponNotFound)
	}
	return results[0], nil
}

func (r *couponRepository) GetActiveClaim(ctx context.Context, userID, promotionID primitive.ObjectID, now time.Time) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.collection.FindOne(ctx, bson.M{
		"user_id":      userID,
		"promotion_id": promotionID,
		"status":       models.CouponStatusClaimed,
		"expires_at":   bson.M{"$gt": now},
	}).Decode(&coupon)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New(utils.ErrCouponNotFound)
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}

	return &coupon, nil
}

func (r *couponRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update coupon: %w", err)
	}

	if r.cache != nil {
		r.cache.Delete(ctx, utils.CacheCouponPrefix+id.Hex())
	}

	return nil
}

func (r *couponRepository) RedeemIfClaimed(ctx context.Context, id primitive.ObjectID, redeemedAt time.Time) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "status": models.CouponStatusClaimed},
		bson.M{"$set": bson.M{
			"status":      models.CouponStatusRedeemed,
			"redeemed_at": redeemedAt,
			"updated_at":  redeemedAt,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&coupon)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCouponAlreadyRedeemed
		}
		return nil, fmt.Errorf("failed to redeem coupon: %w", err)
	}

	if r.cache != nil {
		r.cache.Delete(ctx, utils.CacheCouponPrefix+id.Hex())
	}

	return &coupon, nil
}

func (r *couponRepository) MarkExpired(ctx context.Context, id primitive.ObjectID) error {
	return r.Update(ctx, id, map[string]interface{}{"status": models.CouponStatusExpired})
}

func (r *couponRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID, status string, params *utils.PaginationParams) ([]*models.CouponDetail, int64, error) {
	filter := bson.M{"user_id": userID}

	// Stale claimed coupons count as expired even before the lazy write
	// lands, so the status predicate has to account for expires_at.
	now := time.Now()
	switch status {
	case "":
	case string(models.CouponStatusClaimed):
		filter["status"] = models.CouponStatusClaimed
		filter["expires_at"] = bson.M{"$gt": now}
	case string(models.CouponStatusExpired):
		filter["$or"] = []bson.M{
			{"status": models.CouponStatusExpired},
			{"status": models.CouponStatusClaimed, "expires_at": bson.M{"$lte": now}},
		}
	default:
		filter["status"] = status
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count coupons: %w", err)
	}

	results, err := r.aggregateDetails(ctx, filter, params)
	if err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

func (r *couponRepository) CountByPromotion(ctx context.Context, promotionID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"promotion_id": promotionID})
	if err != nil {
		return 0, fmt.Errorf("failed to count coupons: %w", err)
	}
	return count, nil
}

func (r *couponRepository) CountByPromotionAndStatus(ctx context.Context, promotionID primitive.ObjectID, status models.CouponStatus) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"promotion_id": promotionID,
		"status":       status,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count coupons: %w", err)
	}
	return count, nil
}

func (r *couponRepository) aggregateDetails(ctx context.Context, match bson.M, params *utils.PaginationParams) ([]*models.CouponDetail, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
	}

	if params != nil {
		direction := -1
		if params.Order == "asc" {
			direction = 1
		}
		pipeline = append(pipeline,
			bson.D{{Key: "$sort", Value: bson.D{{Key: params.Sort, Value: direction}}}},
			bson.D{{Key: "$skip", Value: params.Skip()}},
			bson.D{{Key: "$limit", Value: params.Limit()}},
		)
	}

	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "promotions",
			"localField":   "promotion_id",
			"foreignField": "_id",
			"as":           "promotion",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{"path": "$promotion", "preserveNullAndEmptyArrays": true}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "businesses",
			"localField":   "promotion.business_id",
			"foreignField": "_id",
			"as":           "business",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{"path": "$business", "preserveNullAndEmptyArrays": true}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{"path": "$user", "preserveNullAndEmptyArrays": true}}},
	)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate coupons: %w", err)
	}
	defer cursor.Close(ctx)

	var results []*models.CouponDetail
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode coupons: %w", err)
	}

	return results, nil
}
