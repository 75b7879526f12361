package interfaces

import (
	"context"
	"time"

	"github.com/alexcolls/descuentia/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AnalyticsRepository interface {
	InsertEvent(ctx context.Context, event *models.AnalyticsEvent) error

	CountEventsByPromotion(ctx context.Context, promotionID primitive.ObjectID, eventType models.AnalyticsEventType) (int64, error)
	GetPromotionStats(ctx context.Context, promotionID primitive.ObjectID) (*models.PromotionStats, error)
	GetBusinessEventCounts(ctx context.Context, promotionIDs []primitive.ObjectID) (map[models.AnalyticsEventType]int64, error)
	GetEventsByDay(ctx context.Context, promotionIDs []primitive.ObjectID, eventType models.AnalyticsEventType, since time.Time) (map[string]int64, error)
}
