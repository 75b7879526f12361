package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alexcolls/descuentia/internal/models"
	"github.com/alexcolls/descuentia/internal/utils"
	"github.com/alexcolls/descuentia/pkg/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text", Output: "stdout"})
	require.NoError(t, err)
	return log
}

type mockCouponRepo struct {
	mock.Mock
}

func (m *mockCouponRepo) Create(ctx context.Context, coupon *models.Coupon) error {
	return m.Called(ctx, coupon).Error(0)
}

func (m *mockCouponRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *mockCouponRepo) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *mockCouponRepo) GetDetailByCode(ctx context.Context, code string) (*models.CouponDetail, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CouponDetail), args.Error(1)
}

func (m *mockCouponRepo) GetActiveClaim(ctx context.Context, userID, promotionID primitive.ObjectID, now time.Time) (*models.Coupon, error) {
	args := m.Called(ctx, userID, promotionID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *mockCouponRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	return m.Called(ctx, id, updates).Error(0)
}

func (m *mockCouponRepo) RedeemIfClaimed(ctx context.Context, id primitive.ObjectID, redeemedAt time.Time) (*models.Coupon, error) {
	args := m.Called(ctx, id, redeemedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *mockCouponRepo) MarkExpired(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCouponRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID, status string, params *utils.PaginationParams) ([]*models.CouponDetail, int64, error) {
	args := m.Called(ctx, userID, status, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.CouponDetail), args.Get(1).(int64), args.Error(2)
}

func (m *mockCouponRepo) CountByPromotion(ctx context.Context, promotionID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, promotionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCouponRepo) CountByPromotionAndStatus(ctx context.Context, promotionID primitive.ObjectID, status models.CouponStatus) (int64, error) {
	args := m.Called(ctx, promotionID, status)
	return args.Get(0).(int64), args.Error(1)
}

type mockPromotionRepo struct {
	mock.Mock
}

func (m *mockPromotionRepo) Create(ctx context.Context, promotion *models.Promotion) error {
	return m.Called(ctx, promotion).Error(0)
}

func (m *mockPromotionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Promotion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Promotion), args.Error(1)
}

func (m *mockPromotionRepo) GetByIDWithBusiness(ctx context.Context, id primitive.ObjectID) (*models.PromotionWithBusiness, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PromotionWithBusiness), args.Error(1)
}

func (m *mockPromotionRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	return m.Called(ctx, id, updates).Error(0)
}

func (m *mockPromotionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPromotionRepo) GetActiveWithBusiness(ctx context.Context) ([]*models.PromotionWithBusiness, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PromotionWithBusiness), args.Error(1)
}

func (m *mockPromotionRepo) GetFeatured(ctx context.Context, limit int) ([]*models.PromotionWithBusiness, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PromotionWithBusiness), args.Error(1)
}

func (m *mockPromotionRepo) GetByBusinessID(ctx context.Context, businessID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Promotion, int64, error) {
	args := m.Called(ctx, businessID, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Promotion), args.Get(1).(int64), args.Error(2)
}

func (m *mockPromotionRepo) CountActiveByBusiness(ctx context.Context, businessID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, businessID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPromotionRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.PromotionStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockPromotionRepo) MarkExpired(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPromotionRepo) IncrementRedemptions(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}
