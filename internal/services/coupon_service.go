package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexcolls/descuentia/internal/models"
	"github.com/alexcolls/descuentia/internal/repositories/interfaces"
	"github.com/alexcolls/descuentia/internal/utils"
	"github.com/alexcolls/descuentia/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RedemptionOutcome classifies a coupon presented for redemption. The checks
// run in a fixed order: format, existence, business match, already-redeemed,
// expiry, promotion state.
type RedemptionOutcome int

const (
	OutcomeRedeemable RedemptionOutcome = iota
	OutcomeInvalidFormat
	OutcomeNotFound
	OutcomeWrongBusiness
	OutcomeAlreadyRedeemed
	OutcomeExpired
	OutcomeNotActive
)

// User-facing redemption messages. These are contractual: the scanner app
// displays them verbatim.
const (
	MsgInvalidFormat    = "Invalid coupon code format"
	MsgCouponNotFound   = "Coupon not found"
	MsgWrongBusiness    = "This coupon belongs to a different business"
	MsgCouponExpired    = "This coupon has expired"
	MsgCouponNotActive  = "Coupon is not active"
	MsgRedeemSuccess    = "Coupon redeemed successfully! 🎉"
	MsgRedeemFailed     = "Failed to redeem coupon. Please try again."
	MsgReadyToRedeem    = "Ready to redeem"
	MsgDuplicateClaim   = "You already have an active coupon for this promotion"
	MsgPromotionClosed  = "This promotion is no longer available"
)

type RedemptionResult struct {
	Success bool                 `json:"success"`
	Outcome RedemptionOutcome    `json:"-"`
	Message string               `json:"message"`
	Coupon  *models.CouponDetail `json:"coupon,omitempty"`
}

type CouponService interface {
	Claim(ctx context.Context, promotionID, userID primitive.ObjectID) (*models.Coupon, error)

	// Redeem validates the scanned code for the redeeming business and, when
	// redeemable, performs the guarded claimed→redeemed write.
	Redeem(ctx context.Context, code string, businessID primitive.ObjectID) (*RedemptionResult, error)
	// GetDetails runs the same validation as Redeem without writing anything.
	GetDetails(ctx context.Context, code string, businessID primitive.ObjectID) (*RedemptionResult, error)

	GetByID(ctx context.Context, id, userID primitive.ObjectID) (*models.Coupon, error)
	ListUserCoupons(ctx context.Context, userID primitive.ObjectID, status string, params *utils.PaginationParams) ([]*models.CouponDetail, int64, error)
}

// RedemptionBroadcaster pushes live redemption events to connected merchant
// dashboards.
type RedemptionBroadcaster interface {
	BroadcastToBusiness(businessID string, event interface{}) error
}

type couponService struct {
	couponRepo    interfaces.CouponRepository
	promotionRepo interfaces.PromotionRepository
	analytics     AnalyticsService
	loyalty       LoyaltyService
	notifications NotificationService
	broadcaster   RedemptionBroadcaster
	logger        *logger.Logger
}

func NewCouponService(
	couponRepo interfaces.CouponRepository,
	promotionRepo interfaces.PromotionRepository,
	analytics AnalyticsService,
	loyalty LoyaltyService,
	notifications NotificationService,
	broadcaster RedemptionBroadcaster,
	logger *logger.Logger,
) CouponService {
	return &couponService{
		couponRepo:    couponRepo,
		promotionRepo: promotionRepo,
		analytics:     analytics,
		loyalty:       loyalty,
		notifications: notifications,
		broadcaster:   broadcaster,
		logger:        logger,
	}
}

func (s *couponService) Claim(ctx context.Context, promotionID, userID primitive.ObjectID) (*models.Coupon, error) {
	promotion, err := s.promotionRepo.GetByID(ctx, promotionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if promotion.Status != models.PromotionStatusActive || promotion.IsLogicallyExpired(now) {
		return nil, errors.New(MsgPromotionClosed)
	}

	// A failed lookup must not open the duplicate-claim guard: only a
	// definitive "no active claim" answer lets the claim proceed.
	existing, err := s.couponRepo.GetActiveClaim(ctx, userID, promotionID, now)
	if err != nil && err.Error() != utils.ErrCouponNotFound {
		s.logger.WithError(err).WithUserID(userID).Error("Active claim lookup failed")
		return nil, err
	}
	if existing != nil {
		return nil, errors.New(MsgDuplicateClaim)
	}

	coupon := &models.Coupon{
		PromotionID: promotionID,
		UserID:      userID,
		Code:        utils.GenerateCouponCode(promotionID, userID),
		Status:      models.CouponStatusClaimed,
		ClaimedAt:   now,
		ExpiresAt:   now.AddDate(0, 0, utils.CouponValidityDays),
	}

	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, err
	}

	s.logger.LogClaimEvent(userID, promotionID, coupon.Code)

	if s.analytics != nil {
		s.analytics.RecordEvent(ctx, userID, promotionID, models.AnalyticsEventClaim, nil)
	}

	return coupon, nil
}

func (s *couponService) Redeem(ctx context.Context, code string, businessID primitive.ObjectID) (*RedemptionResult, error) {
	detail, result := s.lookupAndValidate(ctx, code, businessID, true)
	if result != nil {
		s.logger.LogRedemptionEvent(code, businessID, result.Message, false)
		return result, nil
	}

	now := time.Now()
	if _, err := s.couponRepo.RedeemIfClaimed(ctx, detail.ID, now); err != nil {
		// Lost the race: someone redeemed between our read and the guarded
		// write. Re-read for the authoritative redemption date.
		if current, readErr := s.couponRepo.GetByCode(ctx, code); readErr == nil && current.Status == models.CouponStatusRedeemed {
			return s.alreadyRedeemedResult(current.RedeemedAt), nil
		}
		s.logger.WithError(err).WithCouponCode(code).Error("Redemption write failed")
		return &RedemptionResult{Success: false, Outcome: OutcomeNotActive, Message: MsgRedeemFailed}, nil
	}

	// Post-redemption bookkeeping is best-effort: the coupon is already
	// redeemed, so failures here must not flip the outcome.
	if err := s.promotionRepo.IncrementRedemptions(ctx, detail.PromotionID); err != nil {
		s.logger.WithError(err).WithPromotionID(detail.PromotionID).Warn("Failed to increment redemption counter")
	}

	if s.analytics != nil {
		s.analytics.RecordEvent(ctx, detail.UserID, detail.PromotionID, models.AnalyticsEventRedemption, nil)
	}

	if s.loyalty != nil && detail.Business != nil {
		if err := s.loyalty.RecordRedemptionStamp(ctx, detail.UserID, detail.Business.ID); err != nil {
			s.logger.WithError(err).WithUserID(detail.UserID).Warn("Failed to record loyalty stamp")
		}
	}

	if s.notifications != nil && detail.Promotion != nil {
		s.notifications.NotifyCouponRedeemed(ctx, detail.UserID, detail.Promotion.Title)
	}

	if s.broadcaster != nil && detail.Business != nil {
		event := map[string]interface{}{
			"type":         "redemption",
			"coupon_code":  detail.Code,
			"promotion_id": detail.PromotionID.Hex(),
			"redeemed_at":  now.Format(time.RFC3339),
		}
		if err := s.broadcaster.BroadcastToBusiness(detail.Business.ID.Hex(), event); err != nil {
			s.logger.WithError(err).Warn("Failed to broadcast redemption event")
		}
	}

	detail.Status = models.CouponStatusRedeemed
	detail.RedeemedAt = &now

	s.logger.LogRedemptionEvent(code, businessID, "redeemed", true)

	return &RedemptionResult{
		Success: true,
		Outcome: OutcomeRedeemable,
		Message: MsgRedeemSuccess,
		Coupon:  detail,
	}, nil
}

func (s *couponService) GetDetails(ctx context.Context, code string, businessID primitive.ObjectID) (*RedemptionResult, error) {
	detail, result := s.lookupAndValidate(ctx, code, businessID, false)
	if result != nil {
		return result, nil
	}

	return &RedemptionResult{
		Success: true,
		Outcome: OutcomeRedeemable,
		Message: MsgReadyToRedeem,
		Coupon:  detail,
	}, nil
}

func (s *couponService) GetByID(ctx context.Context, id, userID primitive.ObjectID) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if coupon.UserID != userID {
		return nil, errors.New(utils.ErrForbidden)
	}
	return coupon, nil
}

func (s *couponService) ListUserCoupons(ctx context.Context, userID primitive.ObjectID, status string, params *utils.PaginationParams) ([]*models.CouponDetail, int64, error) {
	coupons, total, err := s.couponRepo.GetByUserID(ctx, userID, status, params)
	if err != nil {
		return nil, 0, err
	}

	// Lazy expiry applies to listings too: stale claimed coupons read as
	// expired without waiting for a background sweep.
	now := time.Now()
	for _, coupon := range coupons {
		if coupon.Status == models.CouponStatusClaimed && coupon.IsExpired(now) {
			coupon.Status = models.CouponStatusExpired
			if err := s.couponRepo.MarkExpired(ctx, coupon.ID); err != nil {
				s.logger.WithError(err).WithCouponCode(coupon.Code).Warn("Failed to persist coupon expiry")
			}
		}
	}

	return coupons, total, nil
}

// lookupAndValidate resolves the code and applies the outcome checks in
// order. It returns (detail, nil) when redeemable, otherwise (nil, result).
// persistExpiry controls whether lazily observed expiry is written back.
func (s *couponService) lookupAndValidate(ctx context.Context, code string, businessID primitive.ObjectID, persistExpiry bool) (*models.CouponDetail, *RedemptionResult) {
	if !utils.IsValidCouponCode(code) {
		return nil, &RedemptionResult{Outcome: OutcomeInvalidFormat, Message: MsgInvalidFormat}
	}

	detail, err := s.couponRepo.GetDetailByCode(ctx, code)
	if err != nil {
		if err.Error() == utils.ErrCouponNotFound {
			return nil, &RedemptionResult{Outcome: OutcomeNotFound, Message: MsgCouponNotFound}
		}
		s.logger.WithError(err).WithCouponCode(code).Error("Coupon lookup failed")
		return nil, &RedemptionResult{Outcome: OutcomeNotFound, Message: MsgRedeemFailed}
	}

	now := time.Now()

	// Message only: a business that does not own the promotion learns
	// nothing about the coupon's status, dates, or holder.
	if detail.Promotion == nil || detail.Promotion.BusinessID != businessID {
		return nil, &RedemptionResult{Outcome: OutcomeWrongBusiness, Message: MsgWrongBusiness}
	}

	if detail.Status == models.CouponStatusRedeemed {
		result := s.alreadyRedeemedResult(detail.RedeemedAt)
		result.Coupon = detail
		return nil, result
	}

	if detail.Status == models.CouponStatusExpired {
		return nil, &RedemptionResult{Outcome: OutcomeExpired, Message: MsgCouponExpired, Coupon: detail}
	}

	if detail.Status == models.CouponStatusClaimed && now.After(detail.ExpiresAt) {
		if persistExpiry {
			if err := s.couponRepo.MarkExpired(ctx, detail.ID); err != nil {
				s.logger.WithError(err).WithCouponCode(code).Warn("Failed to persist coupon expiry")
			}
		}
		return nil, &RedemptionResult{
			Outcome: OutcomeExpired,
			Message: fmt.Sprintf("Expired on %s", utils.FormatShortDate(detail.ExpiresAt)),
			Coupon:  detail,
		}
	}

	if detail.Status != models.CouponStatusClaimed || detail.Promotion.Status == models.PromotionStatusDraft {
		return nil, &RedemptionResult{Outcome: OutcomeNotActive, Message: MsgCouponNotActive, Coupon: detail}
	}

	return detail, nil
}

func (s *couponService) alreadyRedeemedResult(redeemedAt *time.Time) *RedemptionResult {
	when := time.Now()
	if redeemedAt != nil {
		when = *redeemedAt
	}
	return &RedemptionResult{
		Outcome: OutcomeAlreadyRedeemed,
		Message: fmt.Sprintf("Already redeemed on %s", utils.FormatShortDate(when)),
	}
}
