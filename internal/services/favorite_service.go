package services

import (
	"context"

	"github.com/alexcolls/descuentia/internal/models"
	"github.com/alexcolls/descuentia/internal/repositories/interfaces"
	"github.com/alexcolls/descuentia/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FavoriteService interface {
	Add(ctx context.Context, userID, promotionID primitive.ObjectID) error
	Remove(ctx context.Context, userID, promotionID primitive.ObjectID) error
	List(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.PromotionWithBusiness, int64, error)
}

type favoriteService struct {
	favoriteRepo  interfaces.FavoriteRepository
	promotionRepo interfaces.PromotionRepository
	analytics     AnalyticsService
}

func NewFavoriteService(favoriteRepo interfaces.FavoriteRepository, promotionRepo interfaces.PromotionRepository, analytics AnalyticsService) FavoriteService {
	return &favoriteService{
		favoriteRepo:  favoriteRepo,
		promotionRepo: promotionRepo,
		analytics:     analytics,
	}
}

func (s *favoriteService) Add(ctx context.Context, userID, promotionID primitive.ObjectID) error {
	if _, err := s.promotionRepo.GetByID(ctx, promotionID); err != nil {
		return err
	}

	if err := s.favoriteRepo.Add(ctx, &models.Favorite{UserID: userID, PromotionID: promotionID}); err != nil {
		return err
	}

	if s.analytics != nil {
		s.analytics.RecordEvent(ctx, userID, promotionID, models.AnalyticsEventFavorite, nil)
	}

	return nil
}

func (s *favoriteService) Remove(ctx context.Context, userID, promotionID primitive.ObjectID) error {
	return s.favoriteRepo.Remove(ctx, userID, promotionID)
}

func (s *favoriteService) List(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.PromotionWithBusiness, int64, error) {
	return s.favoriteRepo.ListByUser(ctx, userID, params)
}
