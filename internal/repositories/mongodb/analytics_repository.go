package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/alexcolls/descuentia/internal/models"
	"github.com/alexcolls/descuentia/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type analyticsRepository struct {
	collection *mongo.Collection
}

func NewAnalyticsRepository(db *mongo.Database) interfaces.AnalyticsRepository {
	return &analyticsRepository{
		collection: db.Collection("analytics_events"),
	}
}

func (r *analyticsRepository) InsertEvent(ctx context.Context, event *models.AnalyticsEvent) error {
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to insert analytics event: %w", err)
	}

	return nil
}

func (r *analyticsRepository) CountEventsByPromotion(ctx context.Context, promotionID primitive.ObjectID, eventType models.AnalyticsEventType) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"promotion_id": promotionID,
		"event_type":   eventType,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count analytics events: %w", err)
	}
	return count, nil
}

func (r *analyticsRepository) GetPromotionStats(ctx context.Context, promotionID primitive.ObjectID) (*models.PromotionStats, error) {
	counts, err := r.countByType(ctx, bson.M{"promotion_id": promotionID})
	if err != nil {
		return nil, err
	}

	return &models.PromotionStats{
		Views:       counts[models.AnalyticsEventView],
		Claims:      counts[models.AnalyticsEventClaim],
		Shares:      counts[models.AnalyticsEventShare],
		Redemptions: counts[models.AnalyticsEventRedemption],
	}, nil
}

func (r *analyticsRepository) GetBusinessEventCounts(ctx context.Context, promotionIDs []primitive.ObjectID) (map[models.AnalyticsEventType]int64, error) {
	return r.countByType(ctx, bson.M{"promotion_id": bson.M{"$in": promotionIDs}})
}

func (r *analyticsRepository) GetEventsByDay(ctx context.Context, promotionIDs []primitive.ObjectID, eventType models.AnalyticsEventType, since time.Time) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"promotion_id": bson.M{"$in": promotionIDs},
			"event_type":   eventType,
			"created_at":   bson.M{"$gte": since},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$created_at"}},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily events: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Day   string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode daily events: %w", err)
	}

	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Day] = row.Count
	}

	return result, nil
}

func (r *analyticsRepository) countByType(ctx context.Context, match bson.M) (map[models.AnalyticsEventType]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$event_type",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate analytics events: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Type  models.AnalyticsEventType `bson:"_id"`
		Count int64                     `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode analytics events: %w", err)
	}

	result := make(map[models.AnalyticsEventType]int64, len(rows))
	for _, row := range rows {
		result[row.Type] = row.Count
	}

	return result, nil
}
