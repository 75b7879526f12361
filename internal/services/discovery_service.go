package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/alexcolls/descuentia/internal/models"
	"github.com/alexcolls/descuentia/internal/repositories/interfaces"
	"github.com/alexcolls/descuentia/internal/utils"
	"github.com/alexcolls/descuentia/pkg/logger"
)

type DiscoveryService interface {
	// Discover returns active promotions visible from origin, ordered by
	// distance ascending. A promotion is visible when the consumer stands
	// within both its own visibility radius and the search radius.
	Discover(ctx context.Context, origin models.Coordinates, searchRadiusKm float64) ([]*NearbyPromotion, error)
	Featured(ctx context.Context, origin *models.Coordinates) ([]*NearbyPromotion, error)
}

type NearbyPromotion struct {
	Promotion  models.Promotion `json:"promotion"`
	Business   *models.Business `json:"business"`
	DistanceKm float64          `json:"distance_km"`
}

type discoveryService struct {
	promotionRepo interfaces.PromotionRepository
	cache         CacheService
	logger        *logger.Logger
}

func NewDiscoveryService(promotionRepo interfaces.PromotionRepository, cache CacheService, logger *logger.Logger) DiscoveryService {
	return &discoveryService{
		promotionRepo: promotionRepo,
		cache:         cache,
		logger:        logger,
	}
}

func (s *discoveryService) Discover(ctx context.Context, origin models.Coordinates, searchRadiusKm float64) ([]*NearbyPromotion, error) {
	if searchRadiusKm <= 0 {
		searchRadiusKm = utils.DefaultSearchRadiusKm
	}
	if searchRadiusKm > utils.MaxSearchRadiusKm {
		searchRadiusKm = utils.MaxSearchRadiusKm
	}

	cacheKey := s.discoveryCacheKey(origin, searchRadiusKm)
	if s.cache != nil {
		var cached []*NearbyPromotion
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	candidates, err := s.promotionRepo.GetActiveWithBusiness(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	results := make([]*NearbyPromotion, 0, len(candidates))

	for _, candidate := range candidates {
		if candidate.Business == nil {
			continue
		}

		if candidate.IsLogicallyExpired(now) {
			s.expireBestEffort(ctx, candidate)
			continue
		}

		visibility := candidate.VisibilityRadiusKm
		if visibility <= 0 {
			visibility = utils.DefaultVisibilityRadius
		}

		distance := utils.CalculateDistance(origin, candidate.Business.Coordinates)
		if distance > visibility || distance > searchRadiusKm {
			continue
		}

		results = append(results, &NearbyPromotion{
			Promotion:  candidate.Promotion,
			Business:   candidate.Business,
			DistanceKm: distance,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].DistanceKm != results[j].DistanceKm {
			return results[i].DistanceKm < results[j].DistanceKm
		}
		return results[i].Promotion.ID.Hex() < results[j].Promotion.ID.Hex()
	})

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, results, utils.DiscoveryCacheTTL)
	}

	return results, nil
}

func (s *discoveryService) Featured(ctx context.Context, origin *models.Coordinates) ([]*NearbyPromotion, error) {
	candidates, err := s.promotionRepo.GetFeatured(ctx, utils.FeaturedPromotionsLimit)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	results := make([]*NearbyPromotion, 0, len(candidates))

	for _, candidate := range candidates {
		if candidate.IsLogicallyExpired(now) {
			s.expireBestEffort(ctx, candidate)
			continue
		}

		nearby := &NearbyPromotion{
			Promotion: candidate.Promotion,
			Business:  candidate.Business,
		}
		if origin != nil && candidate.Business != nil {
			nearby.DistanceKm = utils.CalculateDistance(*origin, candidate.Business.Coordinates)
		}

		results = append(results, nearby)
	}

	return results, nil
}

// expireBestEffort persists the lazily observed expiry. Failure only loses an
// optimization, never correctness, so it is logged and swallowed.
func (s *discoveryService) expireBestEffort(ctx context.Context, candidate *models.PromotionWithBusiness) {
	if err := s.promotionRepo.MarkExpired(ctx, candidate.ID); err != nil {
		s.logger.WithError(err).WithPromotionID(candidate.ID).Warn("Failed to persist promotion expiry")
	}
}

func (s *discoveryService) discoveryCacheKey(origin models.Coordinates, radius float64) string {
	// ~100m grid so nearby consumers share cache entries.
	return fmt.Sprintf("%s%.3f:%.3f:%.1f", utils.CacheDiscoveryPrefix, origin.Latitude, origin.Longitude, radius)
}
