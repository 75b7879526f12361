package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alexcolls/descuentia/internal/models"
	"github.com/alexcolls/descuentia/internal/utils"
)

func newCouponServiceForTest(t *testing.T, couponRepo *mockCouponRepo, promotionRepo *mockPromotionRepo) CouponService {
	t.Helper()
	return NewCouponService(couponRepo, promotionRepo, nil, nil, nil, nil, newTestLogger(t))
}

func claimedDetail(businessID primitive.ObjectID) *models.CouponDetail {
	promotionID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	now := time.Now()

	return &models.CouponDetail{
		Coupon: models.Coupon{
			ID:          primitive.NewObjectID(),
			PromotionID: promotionID,
			UserID:      userID,
			Code:        utils.GenerateCouponCode(promotionID, userID),
			Status:      models.CouponStatusClaimed,
			ClaimedAt:   now.Add(-24 * time.Hour),
			ExpiresAt:   now.AddDate(0, 0, 29),
		},
		Promotion: &models.Promotion{
			ID:           promotionID,
			BusinessID:   businessID,
			Title:        "2x1 en cafés",
			Status:       models.PromotionStatusActive,
			CampaignType: models.CampaignTypeAlwaysOn,
		},
		Business: &models.Business{
			ID:   businessID,
			Name: "Café Central",
		},
	}
}

func TestRedeem_InvalidFormat(t *testing.T) {
	couponRepo := new(mockCouponRepo)
	promotionRepo := new(mockPromotionRepo)
	service := newCouponServiceForTest(t, couponRepo, promotionRepo)

	result, err := service.Redeem(context.Background(), "not-a-coupon", primitive.NewObjectID())
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, OutcomeInvalidFormat, result.Outcome)
	assert.Equal(t, MsgInvalidFormat, result.Message)
	couponRepo.AssertNotCalled(t, "GetDetailByCode", mock.Anything, mock.Anything)
}

func TestRedeem_NotFound(t *testing.T) {
	couponRepo := new(mockCouponRepo)
	promotionRepo := new(mockPromotionRepo)
	service := newCouponServiceForTest(t, couponRepo, promotionRepo)

	code := utils.GenerateCouponCode(primitive.NewObjectID(), primitive.NewObjectID())
	couponRepo.On("GetDetailByCode", mock.Anything, code).Return(nil, errors.New(utils.ErrCouponNotFound))

	result, err := service.Redeem(context.Background(), code, primitive.NewObjectID())
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, OutcomeNotFound, result.Outcome)
	assert.Equal(t, MsgCouponNotFound, result.Message)
}

func TestRedeem_WrongBusinessWinsOverAlreadyRedeemed(t *testing.T) {
	couponRepo := new(mockCouponRepo)
	promotionRepo := new(mockPromotionRepo)
	service := newCouponServiceForTest(t, couponRepo, promotionRepo)

	// The coupon is redeemed, but the scanning business is not the owner:
	// the business mismatch must win.
	otherBusiness := primitive.NewObjectID()
	detail := claimedDetail(otherBusiness)
	redeemedAt := time.Now().Add(-time.Hour)
	detail.Status = models.CouponStatusRedeemed
	detail.RedeemedAt = &redeemedAt

	couponRepo.On("GetDetailByCode", mock.Anything, detail.Code).Return(detail, nil)

	result, err := service.Redeem(context.Background(), detail.Code, primitive.NewObjectID())
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, OutcomeWrongBusiness, result.Outcome)
	assert.Equal(t, MsgWrongBusiness, result.Message)
	// The scanning business does not own this coupon: no status, dates,
	// or holder leave the service with the rejection.
	assert.Nil(t, result.Coupon)
}

func TestRedeem_AlreadyRedeemedShowsDate(t *testing.T) {
	couponRepo := new(mockCouponRepo)
	promotionRepo := new(mockPromotionRepo)
	service := newCouponServiceForTest(t, couponRepo, promotionRepo)

	businessID := primitive.NewObjectID()
	detail := claimedDetail(businessID)
	redeemedAt := time.Date(2024, 1, 1, 13, 30, 0, 0, time.Local)
	detail.Status = models.CouponStatusRedeemed
	detail.RedeemedAt = &redeemedAt

	couponRepo.On("GetDetailByCode", mock.Anything, detail.Code).Return(detail, nil)

	result, err := service.Redeem(context.Background(), detail.Code, businessID)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, OutcomeAlreadyRedeemed, result.Outcome)
	assert.Equal(t, "Already redeemed on 1/1/2024", result.Message)
	couponRepo.AssertNotCalled(t, "RedeemIfClaimed", mock.Anything, mock.Anything, mock.Anything)
}

func TestRedeem_LazyExpiryPersistsAndShowsDate(t *testing.T) {
	couponRepo := new(mockCouponRepo)
	promotionRepo := new(mockPromotionRepo)
	service := newCouponServiceForTest(t, couponRepo, promotionRepo)

	businessID := primitive.NewObjectID()
	detail := claimedDetail(businessID)
	detail.ExpiresAt = time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local)

	couponRepo.On("GetDetailByCode", mock.Anything, detail.Code).Return(detail, nil)
	couponRepo.On("MarkExpired", mock.Anything, detail.ID).Return(nil)

	result, err := service.Redeem(context.Background(), detail.Code, businessID)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, OutcomeExpired, result.Outcome)
	assert.Equal(t, "Expired on 3/15/2024", result.Message)
	couponRepo.AssertCalled(t, "MarkExpired", mock.Anything, detail.ID)
}

func TestGetDetails_DoesNotPersistExpiry(t *testing.T) {
	couponRepo := new(mockCouponRepo)
	promotionRepo := new(mockPromotionRepo)
	service := newCouponServiceForTest(t, couponRepo, promotionRepo)

	businessID := primitive.NewObjectID()
	detail := claimedDetail(businessID)
	detail.ExpiresAt = time.Now().Add(-time.Hour)

	couponRepo.On("GetDetailByCode", mock.Anything, detail.Code).Return(detail, nil)

	result, err := service.GetDetails(context.Background(), detail.Code, businessID)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, OutcomeExpired, result.Outcome)
	couponRepo.AssertNotCalled(t, "MarkExpired", mock.Anything, mock.Anything)
}

func TestGetDetails_Redeemable(t *testing.T) {
	couponRepo := new(mockCouponRepo)
	promotionRepo := new(mockPromotionRepo)
	service := newCouponServiceForTest(t, couponRepo, promotionRepo)

	businessID := primitive.NewObjectID()
	detail := claimedDetail(businessID)

	couponRepo.On("GetDetailByCode", mock.Anything, detail.Code).Return(detail, nil)

	result, err := service.GetDetails(context.Background(), detail.Code, businessID)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, OutcomeRedeemable, result.Outcome)
	assert.Equal(t, MsgReadyToRedeem, result.Message)
	assert.Equal(t, models.CouponStatusClaimed, result.Coupon.Status)
	couponRepo.AssertNotCalled(t, "RedeemIfClaimed", mock.Anything, mock.Anything, mock.Anything)
}

func TestRedeem_Success(t *testing.T) {
	couponRepo := new(mockCouponRepo)
	promotionRepo := new(mockPromotionRepo)
	service := newCouponServiceForTest(t, couponRepo, promotionRepo)

	businessID := primitive.NewObjectID()
	detail := claimedDetail(businessID)

	couponRepo.On("GetDetailByCode", mock.Anything, detail.Code).Return(detail, nil)
	couponRepo.On("RedeemIfClaimed", mock.Anything, detail.ID, mock.AnythingOfType("time.Time")).Return(&detail.Coupon, nil)
	promotionRepo.On("IncrementRedemptions", mock.Anything, detail.PromotionID).Return(nil)

	result, err := service.Redeem(context.Background(), detail.Code, businessID)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, OutcomeRedeemable, result.Outcome)
	assert.Equal(t, MsgRedeemSuccess, result.Message)
	require.NotNil(t, result.Coupon)
	assert.Equal(t, models.CouponStatusRedeemed, result.Coupon.Status)
	assert.NotNil(t, result.Coupon.RedeemedAt)

	couponRepo.AssertExpectations(t)
	promotionRepo.AssertExpectations(t)
}

func TestRedeem_CounterFailureDoesNotFlipOutcome(t *testing.T) {
	couponRepo := new(mockCouponRepo)
	promotionRepo := new(mockPromotionRepo)
	service := newCouponServiceForTest(t, couponRepo, promotionRepo)

	businessID := primitive.NewObjectID()
	detail := claimedDetail(businessID)

	couponRepo.On("GetDetailByCode", mock.Anything, detail.Code).Return(detail, nil)
	couponRepo.On("RedeemIfClaimed", mock.Anything, detail.ID, mock.AnythingOfType("time.Time")).Return(&detail.Coupon, nil)
	promotionRepo.On("IncrementRedemptions", mock.Anything, detail.PromotionID).Return(errors.New("write timeout"))

	result, err := service.Redeem(context.Background(), detail.Code, businessID)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, MsgRedeemSuccess, result.Message)
}

func TestRedeem_LostRaceReportsAlreadyRedeemed(t *testing.T) {
	couponRepo := new(mockCouponRepo)
	promotionRepo := new(mockPromotionRepo)
	service := newCouponServiceForTest(t, couponRepo, promotionRepo)

	businessID := primitive.NewObjectID()
	detail := claimedDetail(businessID)

	redeemedAt := time.Date(2024, 6, 2, 9, 0, 0, 0, time.Local)
	winner := detail.Coupon
	winner.Status = models.CouponStatusRedeemed
	winner.RedeemedAt = &redeemedAt

	couponRepo.On("GetDetailByCode", mock.Anything, detail.Code).Return(detail, nil)
	couponRepo.On("RedeemIfClaimed", mock.Anything, detail.ID, mock.AnythingOfType("time.Time")).
		Return(nil, errors.New("coupon is not in claimed state"))
	couponRepo.On("GetByCode", mock.Anything, detail.Code).Return(&winner, nil)

	result, err := service.Redeem(context.Background(), detail.Code, businessID)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, OutcomeAlreadyRedeemed, result.Outcome)
	assert.Equal(t, "Already redeemed on 6/2/2024", result.Message)
}

func TestRedeem_DraftPromotionNotActive(t *testing.T) {
	couponRepo := new(mockCouponRepo)
	promotionRepo := new(mockPromotionRepo)
	service := newCouponServiceForTest(t, couponRepo, promotionRepo)

	businessID := primitive.NewObjectID()
	detail := claimedDetail(businessID)
	detail.Promotion.Status = models.PromotionStatusDraft

	couponRepo.On("GetDetailByCode", mock.Anything, detail.Code).Return(detail, nil)

	result, err := service.Redeem(context.Background(), detail.Code, businessID)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, OutcomeNotActive, result.Outcome)
	assert.Equal(t, MsgCouponNotActive, result.Message)
}

func TestClaim_Success(t *testing.T) {
	couponRepo := new(mockCouponRepo)
	promotionRepo := new(mockPromotionRepo)
	service := newCouponServiceForTest(t, couponRepo, promotionRepo)

	promotionID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	promotionRepo.On("GetByID", mock.Anything, promotionID).Return(&models.Promotion{
		ID:           promotionID,
		Status:       models.PromotionStatusActive,
		CampaignType: models.CampaignTypeAlwaysOn,
	}, nil)
	couponRepo.On("GetActiveClaim", mock.Anything, userID, promotionID, mock.AnythingOfType("time.Time")).
		Return(nil, errors.New(utils.ErrCouponNotFound))
	couponRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Coupon")).Return(nil)

	coupon, err := service.Claim(context.Background(), promotionID, userID)
	require.NoError(t, err)

	assert.True(t, utils.IsValidCouponCode(coupon.Code))
	assert.Equal(t, models.CouponStatusClaimed, coupon.Status)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), coupon.ExpiresAt, time.Minute)
}

func TestClaim_DuplicateRejected(t *testing.T) {
	couponRepo := new(mockCouponRepo)
	promotionRepo := new(mockPromotionRepo)
	service := newCouponServiceForTest(t, couponRepo, promotionRepo)

	promotionID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	promotionRepo.On("GetByID", mock.Anything, promotionID).Return(&models.Promotion{
		ID:           promotionID,
		Status:       models.PromotionStatusActive,
		CampaignType: models.CampaignTypeAlwaysOn,
	}, nil)
	couponRepo.On("GetActiveClaim", mock.Anything, userID, promotionID, mock.AnythingOfType("time.Time")).
		Return(&models.Coupon{Status: models.CouponStatusClaimed}, nil)

	_, err := service.Claim(context.Background(), promotionID, userID)
	require.Error(t, err)
	assert.Equal(t, MsgDuplicateClaim, err.Error())
	couponRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestClaim_ActiveClaimLookupFailureBlocksClaim(t *testing.T) {
	couponRepo := new(mockCouponRepo)
	promotionRepo := new(mockPromotionRepo)
	service := newCouponServiceForTest(t, couponRepo, promotionRepo)

	promotionID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	promotionRepo.On("GetByID", mock.Anything, promotionID).Return(&models.Promotion{
		ID:           promotionID,
		Status:       models.PromotionStatusActive,
		CampaignType: models.CampaignTypeAlwaysOn,
	}, nil)
	// When the duplicate guard can't get an answer, the claim must fail
	// rather than risk a second active coupon.
	couponRepo.On("GetActiveClaim", mock.Anything, userID, promotionID, mock.AnythingOfType("time.Time")).
		Return(nil, errors.New("connection reset by peer"))

	_, err := service.Claim(context.Background(), promotionID, userID)
	require.Error(t, err)
	couponRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestClaim_ClosedPromotionRejected(t *testing.T) {
	couponRepo := new(mockCouponRepo)
	promotionRepo := new(mockPromotionRepo)
	service := newCouponServiceForTest(t, couponRepo, promotionRepo)

	promotionID := primitive.NewObjectID()

	promotionRepo.On("GetByID", mock.Anything, promotionID).Return(&models.Promotion{
		ID:           promotionID,
		Status:       models.PromotionStatusPaused,
		CampaignType: models.CampaignTypeAlwaysOn,
	}, nil)

	_, err := service.Claim(context.Background(), promotionID, primitive.NewObjectID())
	require.Error(t, err)
	assert.Equal(t, MsgPromotionClosed, err.Error())
}

func TestListUserCoupons_AppliesLazyExpiry(t *testing.T) {
	couponRepo := new(mockCouponRepo)
	promotionRepo := new(mockPromotionRepo)
	service := newCouponServiceForTest(t, couponRepo, promotionRepo)

	userID := primitive.NewObjectID()
	businessID := primitive.NewObjectID()

	stale := claimedDetail(businessID)
	stale.ExpiresAt = time.Now().Add(-time.Hour)
	fresh := claimedDetail(businessID)

	params := &utils.PaginationParams{Page: 1, PageSize: 20}
	couponRepo.On("GetByUserID", mock.Anything, userID, "", params).
		Return([]*models.CouponDetail{stale, fresh}, int64(2), nil)
	couponRepo.On("MarkExpired", mock.Anything, stale.ID).Return(nil)

	coupons, total, err := service.ListUserCoupons(context.Background(), userID, "", params)
	require.NoError(t, err)

	assert.Equal(t, int64(2), total)
	require.Len(t, coupons, 2)
	assert.Equal(t, models.CouponStatusExpired, coupons[0].Status)
	assert.Equal(t, models.CouponStatusClaimed, coupons[1].Status)
}

func TestListUserCoupons_StatusFilter(t *testing.T) {
	couponRepo := new(mockCouponRepo)
	promotionRepo := new(mockPromotionRepo)
	service := newCouponServiceForTest(t, couponRepo, promotionRepo)

	userID := primitive.NewObjectID()
	businessID := primitive.NewObjectID()

	redeemed := claimedDetail(businessID)
	redeemedAt := time.Now()
	redeemed.Status = models.CouponStatusRedeemed
	redeemed.RedeemedAt = &redeemedAt

	// The status predicate is part of the query, so the page and the total
	// come from the same filtered set.
	params := &utils.PaginationParams{Page: 1, PageSize: 20}
	couponRepo.On("GetByUserID", mock.Anything, userID, "redeemed", params).
		Return([]*models.CouponDetail{redeemed}, int64(1), nil)

	coupons, total, err := service.ListUserCoupons(context.Background(), userID, "redeemed", params)
	require.NoError(t, err)

	assert.Equal(t, int64(1), total)
	require.Len(t, coupons, 1)
	assert.Equal(t, models.CouponStatusRedeemed, coupons[0].Status)
}
