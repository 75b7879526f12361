package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alexcolls/descuentia/internal/models"
	"github.com/alexcolls/descuentia/internal/utils"
)

var testOrigin = models.Coordinates{Latitude: 41.3851, Longitude: 2.1734}

// promotionAtDistance builds an active promotion whose business sits roughly
// the given number of kilometers north of testOrigin. One degree of latitude
// is ~111.19 km.
func promotionAtDistance(km, visibilityKm float64) *models.PromotionWithBusiness {
	return &models.PromotionWithBusiness{
		Promotion: models.Promotion{
			ID:                 primitive.NewObjectID(),
			Status:             models.PromotionStatusActive,
			CampaignType:       models.CampaignTypeAlwaysOn,
			VisibilityRadiusKm: visibilityKm,
		},
		Business: &models.Business{
			ID: primitive.NewObjectID(),
			Coordinates: models.Coordinates{
				Latitude:  testOrigin.Latitude + km/111.19,
				Longitude: testOrigin.Longitude,
			},
		},
	}
}

func newDiscoveryServiceForTest(t *testing.T, promotionRepo *mockPromotionRepo) DiscoveryService {
	t.Helper()
	return NewDiscoveryService(promotionRepo, nil, newTestLogger(t))
}

func TestDiscover_FiltersByVisibilityAndSearchRadius(t *testing.T) {
	promotionRepo := new(mockPromotionRepo)
	service := newDiscoveryServiceForTest(t, promotionRepo)

	// 3km away with a 5km visibility radius: inside the merchant's reach,
	// but outside the default 2km search radius.
	candidate := promotionAtDistance(3, 5)
	promotionRepo.On("GetActiveWithBusiness", mock.Anything).Return([]*models.PromotionWithBusiness{candidate}, nil)

	results, err := service.Discover(context.Background(), testOrigin, 0)
	require.NoError(t, err)
	assert.Empty(t, results)

	// Widening the search radius brings it in.
	results, err = service.Discover(context.Background(), testOrigin, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 3, results[0].DistanceKm, 0.1)
}

func TestDiscover_VisibilityRadiusBounds(t *testing.T) {
	promotionRepo := new(mockPromotionRepo)
	service := newDiscoveryServiceForTest(t, promotionRepo)

	// 3km away but the merchant only wants to be seen within 1km.
	narrow := promotionAtDistance(3, 1)
	promotionRepo.On("GetActiveWithBusiness", mock.Anything).Return([]*models.PromotionWithBusiness{narrow}, nil)

	results, err := service.Discover(context.Background(), testOrigin, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDiscover_DefaultVisibilityWhenUnset(t *testing.T) {
	promotionRepo := new(mockPromotionRepo)
	service := newDiscoveryServiceForTest(t, promotionRepo)

	// Zero visibility falls back to the 5km default, so a 4km promotion
	// shows up when the search radius allows it.
	candidate := promotionAtDistance(4, 0)
	promotionRepo.On("GetActiveWithBusiness", mock.Anything).Return([]*models.PromotionWithBusiness{candidate}, nil)

	results, err := service.Discover(context.Background(), testOrigin, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestDiscover_SortedByDistance(t *testing.T) {
	promotionRepo := new(mockPromotionRepo)
	service := newDiscoveryServiceForTest(t, promotionRepo)

	far := promotionAtDistance(1.5, 5)
	near := promotionAtDistance(0.3, 5)
	mid := promotionAtDistance(0.9, 5)
	promotionRepo.On("GetActiveWithBusiness", mock.Anything).Return([]*models.PromotionWithBusiness{far, near, mid}, nil)

	results, err := service.Discover(context.Background(), testOrigin, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, near.ID, results[0].Promotion.ID)
	assert.Equal(t, mid.ID, results[1].Promotion.ID)
	assert.Equal(t, far.ID, results[2].Promotion.ID)
	assert.True(t, results[0].DistanceKm <= results[1].DistanceKm)
	assert.True(t, results[1].DistanceKm <= results[2].DistanceKm)
}

func TestDiscover_LazilyExpiresStalePromotions(t *testing.T) {
	promotionRepo := new(mockPromotionRepo)
	service := newDiscoveryServiceForTest(t, promotionRepo)

	stale := promotionAtDistance(0.5, 5)
	stale.CampaignType = models.CampaignTypeTimeBased
	past := time.Now().Add(-time.Hour)
	stale.EndDate = &past

	fresh := promotionAtDistance(0.5, 5)

	promotionRepo.On("GetActiveWithBusiness", mock.Anything).Return([]*models.PromotionWithBusiness{stale, fresh}, nil)
	promotionRepo.On("MarkExpired", mock.Anything, stale.ID).Return(nil)

	results, err := service.Discover(context.Background(), testOrigin, 2)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, fresh.ID, results[0].Promotion.ID)
	promotionRepo.AssertCalled(t, "MarkExpired", mock.Anything, stale.ID)
}

func TestDiscover_SkipsOrphanedPromotions(t *testing.T) {
	promotionRepo := new(mockPromotionRepo)
	service := newDiscoveryServiceForTest(t, promotionRepo)

	orphan := promotionAtDistance(0.5, 5)
	orphan.Business = nil

	promotionRepo.On("GetActiveWithBusiness", mock.Anything).Return([]*models.PromotionWithBusiness{orphan}, nil)

	results, err := service.Discover(context.Background(), testOrigin, 2)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDiscover_ClampsSearchRadius(t *testing.T) {
	promotionRepo := new(mockPromotionRepo)
	service := newDiscoveryServiceForTest(t, promotionRepo)

	// 45km away with a very wide visibility radius. A 500km request gets
	// clamped to the 50km maximum, which still includes this one.
	candidate := promotionAtDistance(45, 50)
	promotionRepo.On("GetActiveWithBusiness", mock.Anything).Return([]*models.PromotionWithBusiness{candidate}, nil)

	results, err := service.Discover(context.Background(), testOrigin, 500)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 45, results[0].DistanceKm, 0.5)
}

func TestFeatured_AnnotatesDistanceWhenOriginGiven(t *testing.T) {
	promotionRepo := new(mockPromotionRepo)
	service := newDiscoveryServiceForTest(t, promotionRepo)

	featured := promotionAtDistance(2, 5)
	featured.IsFeatured = true

	promotionRepo.On("GetFeatured", mock.Anything, utils.FeaturedPromotionsLimit).
		Return([]*models.PromotionWithBusiness{featured}, nil)

	results, err := service.Featured(context.Background(), &testOrigin)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 2, results[0].DistanceKm, 0.1)

	// Without an origin the distance stays zero.
	results, err = service.Featured(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Zero(t, results[0].DistanceKm)
}

func TestFeatured_SkipsLazilyExpired(t *testing.T) {
	promotionRepo := new(mockPromotionRepo)
	service := newDiscoveryServiceForTest(t, promotionRepo)

	stale := promotionAtDistance(1, 5)
	stale.IsFeatured = true
	stale.CampaignType = models.CampaignTypeTimeBased
	past := time.Now().Add(-time.Minute)
	stale.EndDate = &past

	promotionRepo.On("GetFeatured", mock.Anything, utils.FeaturedPromotionsLimit).
		Return([]*models.PromotionWithBusiness{stale}, nil)
	promotionRepo.On("MarkExpired", mock.Anything, stale.ID).Return(nil)

	results, err := service.Featured(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
