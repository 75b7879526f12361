package services

import (
	"context"
	"errors"
	"time"

	"github.com/alexcolls/descuentia/internal/models"
	"github.com/alexcolls/descuentia/internal/repositories/interfaces"
	"github.com/alexcolls/descuentia/internal/utils"
	"github.com/alexcolls/descuentia/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AnalyticsService interface {
	// RecordEvent is fire-and-forget: failures are logged, never returned.
	RecordEvent(ctx context.Context, userID, promotionID primitive.ObjectID, eventType models.AnalyticsEventType, data map[string]interface{})

	GetOverview(ctx context.Context, businessID primitive.ObjectID) (*models.AnalyticsOverview, error)
	GetPromotionStats(ctx context.Context, promotionID, businessID primitive.ObjectID) (*models.PromotionStats, error)
	GetDailyRedemptions(ctx context.Context, businessID primitive.ObjectID, days int) (map[string]int64, error)
}

type analyticsService struct {
	analyticsRepo interfaces.AnalyticsRepository
	promotionRepo interfaces.PromotionRepository
	logger        *logger.Logger
}

func NewAnalyticsService(analyticsRepo interfaces.AnalyticsRepository, promotionRepo interfaces.PromotionRepository, logger *logger.Logger) AnalyticsService {
	return &analyticsService{
		analyticsRepo: analyticsRepo,
		promotionRepo: promotionRepo,
		logger:        logger,
	}
}

func (s *analyticsService) RecordEvent(ctx context.Context, userID, promotionID primitive.ObjectID, eventType models.AnalyticsEventType, data map[string]interface{}) {
	event := &models.AnalyticsEvent{
		UserID:      userID,
		PromotionID: promotionID,
		EventType:   eventType,
		EventData:   data,
	}

	if err := s.analyticsRepo.InsertEvent(ctx, event); err != nil {
		s.logger.WithError(err).WithField("event_type", eventType).Warn("Failed to record analytics event")
	}
}

func (s *analyticsService) GetOverview(ctx context.Context, businessID primitive.ObjectID) (*models.AnalyticsOverview, error) {
	promotions, total, err := s.promotionRepo.GetByBusinessID(ctx, businessID, &utils.PaginationParams{
		Page: 1, PageSize: utils.MaxPageSize, Sort: "created_at", Order: "desc",
	})
	if err != nil {
		return nil, err
	}

	overview := &models.AnalyticsOverview{TotalPromotions: int(total)}

	promotionIDs := make([]primitive.ObjectID, 0, len(promotions))
	for _, promotion := range promotions {
		promotionIDs = append(promotionIDs, promotion.ID)
		if promotion.Status == models.PromotionStatusActive {
			overview.ActivePromotions++
		}
	}

	if len(promotionIDs) == 0 {
		return overview, nil
	}

	counts, err := s.analyticsRepo.GetBusinessEventCounts(ctx, promotionIDs)
	if err != nil {
		return nil, err
	}

	overview.TotalViews = counts[models.AnalyticsEventView]
	overview.TotalClaims = counts[models.AnalyticsEventClaim]
	overview.TotalShares = counts[models.AnalyticsEventShare]
	overview.TotalRedemptions = counts[models.AnalyticsEventRedemption]

	if overview.TotalClaims > 0 {
		overview.ConversionRate = float64(overview.TotalRedemptions) / float64(overview.TotalClaims)
	}
	if overview.TotalViews > 0 {
		overview.EngagementRate = float64(overview.TotalClaims) / float64(overview.TotalViews)
	}

	return overview, nil
}

func (s *analyticsService) GetPromotionStats(ctx context.Context, promotionID, businessID primitive.ObjectID) (*models.PromotionStats, error) {
	promotion, err := s.promotionRepo.GetByID(ctx, promotionID)
	if err != nil {
		return nil, err
	}
	if promotion.BusinessID != businessID {
		return nil, errors.New(utils.ErrForbidden)
	}

	return s.analyticsRepo.GetPromotionStats(ctx, promotionID)
}

func (s *analyticsService) GetDailyRedemptions(ctx context.Context, businessID primitive.ObjectID, days int) (map[string]int64, error) {
	if days <= 0 {
		days = 30
	}

	promotions, _, err := s.promotionRepo.GetByBusinessID(ctx, businessID, &utils.PaginationParams{
		Page: 1, PageSize: utils.MaxPageSize, Sort: "created_at", Order: "desc",
	})
	if err != nil {
		return nil, err
	}

	promotionIDs := make([]primitive.ObjectID, 0, len(promotions))
	for _, promotion := range promotions {
		promotionIDs = append(promotionIDs, promotion.ID)
	}
	if len(promotionIDs) == 0 {
		return map[string]int64{}, nil
	}

	since := utils.StartOfDay(time.Now().AddDate(0, 0, -days))
	return s.analyticsRepo.GetEventsByDay(ctx, promotionIDs, models.AnalyticsEventRedemption, since)
}
