package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexcolls/descuentia/internal/models"
	"github.com/alexcolls/descuentia/internal/repositories/interfaces"
	"github.com/alexcolls/descuentia/internal/utils"
	"github.com/alexcolls/descuentia/internal/validators"
	"github.com/alexcolls/descuentia/pkg/logger"
	"github.com/alexcolls/descuentia/pkg/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PromotionService interface {
	Create(ctx context.Context, businessID primitive.ObjectID, request *validators.CreatePromotionRequest) (*models.Promotion, error)
	Update(ctx context.Context, id, businessID primitive.ObjectID, request *validators.UpdatePromotionRequest) (*models.Promotion, error)
	// Delete is a soft expire: redeemed coupons must stay attributable to
	// their promotion, so promotions are never removed.
	Delete(ctx context.Context, id, businessID primitive.ObjectID) error
	Pause(ctx context.Context, id, businessID primitive.ObjectID) error
	Activate(ctx context.Context, id, businessID primitive.ObjectID) error

	GetByID(ctx context.Context, id primitive.ObjectID, viewerID *primitive.ObjectID) (*models.PromotionWithBusiness, error)
	ListByBusiness(ctx context.Context, businessID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Promotion, int64, error)

	UploadImage(ctx context.Context, id, businessID primitive.ObjectID, data []byte, filename string) (string, error)
}

type promotionService struct {
	promotionRepo interfaces.PromotionRepository
	businessRepo  interfaces.BusinessRepository
	analytics     AnalyticsService
	storage       storage.StorageProvider
	logger        *logger.Logger
}

func NewPromotionService(
	promotionRepo interfaces.PromotionRepository,
	businessRepo interfaces.BusinessRepository,
	analytics AnalyticsService,
	storageProvider storage.StorageProvider,
	logger *logger.Logger,
) PromotionService {
	return &promotionService{
		promotionRepo: promotionRepo,
		businessRepo:  businessRepo,
		analytics:     analytics,
		storage:       storageProvider,
		logger:        logger,
	}
}

func (s *promotionService) Create(ctx context.Context, businessID primitive.ObjectID, request *validators.CreatePromotionRequest) (*models.Promotion, error) {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	status := models.PromotionStatus(request.Status)
	if status == "" {
		status = models.PromotionStatusDraft
	}

	if status == models.PromotionStatusActive {
		if err := s.checkPlanLimit(ctx, business); err != nil {
			return nil, err
		}
	}

	promotion := &models.Promotion{
		BusinessID:         businessID,
		Title:              request.Title,
		Description:        request.Description,
		DiscountType:       models.DiscountType(request.DiscountType),
		DiscountValue:      request.DiscountValue,
		SpecialOfferText:   request.SpecialOfferText,
		CampaignType:       models.CampaignType(request.CampaignType),
		StartDate:          request.StartDate,
		EndDate:            request.EndDate,
		DaysOfWeek:         request.DaysOfWeek,
		StartTime:          request.StartTime,
		EndTime:            request.EndTime,
		VisibilityRadiusKm: request.VisibilityRadiusKm,
		Status:             status,
		IsFeatured:         request.IsFeatured && models.SubscriptionPlans[business.Plan].Limits.FeaturedPlacement,
		TermsConditions:    request.TermsConditions,
	}

	if err := s.promotionRepo.Create(ctx, promotion); err != nil {
		return nil, err
	}

	s.logger.WithBusinessID(businessID).WithPromotionID(promotion.ID).Info("Promotion created")

	return promotion, nil
}

func (s *promotionService) Update(ctx context.Context, id, businessID primitive.ObjectID, request *validators.UpdatePromotionRequest) (*models.Promotion, error) {
	if _, err := s.ownedPromotion(ctx, id, businessID); err != nil {
		return nil, err
	}

	updates := request.ToUpdates()
	if len(updates) == 0 {
		return s.promotionRepo.GetByID(ctx, id)
	}

	if err := s.promotionRepo.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	return s.promotionRepo.GetByID(ctx, id)
}

func (s *promotionService) Delete(ctx context.Context, id, businessID primitive.ObjectID) error {
	if _, err := s.ownedPromotion(ctx, id, businessID); err != nil {
		return err
	}
	return s.promotionRepo.MarkExpired(ctx, id)
}

func (s *promotionService) Pause(ctx context.Context, id, businessID primitive.ObjectID) error {
	promotion, err := s.ownedPromotion(ctx, id, businessID)
	if err != nil {
		return err
	}
	if promotion.Status != models.PromotionStatusActive {
		return errors.New("only active promotions can be paused")
	}
	return s.promotionRepo.UpdateStatus(ctx, id, models.PromotionStatusPaused)
}

func (s *promotionService) Activate(ctx context.Context, id, businessID primitive.ObjectID) error {
	promotion, err := s.ownedPromotion(ctx, id, businessID)
	if err != nil {
		return err
	}
	if promotion.Status != models.PromotionStatusDraft && promotion.Status != models.PromotionStatusPaused {
		return errors.New("promotion cannot be activated from its current status")
	}
	if promotion.IsLogicallyExpired(time.Now()) {
		return errors.New("promotion end date has passed")
	}

	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return err
	}
	if err := s.checkPlanLimit(ctx, business); err != nil {
		return err
	}

	return s.promotionRepo.UpdateStatus(ctx, id, models.PromotionStatusActive)
}

func (s *promotionService) GetByID(ctx context.Context, id primitive.ObjectID, viewerID *primitive.ObjectID) (*models.PromotionWithBusiness, error) {
	promotion, err := s.promotionRepo.GetByIDWithBusiness(ctx, id)
	if err != nil {
		return nil, err
	}

	if viewerID != nil && s.analytics != nil {
		s.analytics.RecordEvent(ctx, *viewerID, id, models.AnalyticsEventView, nil)
	}

	return promotion, nil
}

func (s *promotionService) ListByBusiness(ctx context.Context, businessID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Promotion, int64, error) {
	return s.promotionRepo.GetByBusinessID(ctx, businessID, params)
}

func (s *promotionService) UploadImage(ctx context.Context, id, businessID primitive.ObjectID, data []byte, filename string) (string, error) {
	if _, err := s.ownedPromotion(ctx, id, businessID); err != nil {
		return "", err
	}

	if !utils.IsValidImageFormat(filename) {
		return "", errors.New(utils.ErrInvalidInput)
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")

	thumbnail, err := utils.GenerateThumbnail(bytes.NewReader(data), filename)
	if err != nil {
		return "", fmt.Errorf("failed to process image: %w", err)
	}

	var encoded bytes.Buffer
	if err := utils.EncodeImage(thumbnail, format, &encoded, 85); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	key := fmt.Sprintf("promotions/%s/%d.%s", id.Hex(), time.Now().Unix(), format)
	response, err := s.storage.Upload(ctx, &storage.UploadRequest{
		Key:         key,
		Reader:      bytes.NewReader(encoded.Bytes()),
		ContentType: "image/" + format,
		Size:        int64(encoded.Len()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	if err := s.promotionRepo.Update(ctx, id, map[string]interface{}{"image_url": response.URL}); err != nil {
		return "", err
	}

	return response.URL, nil
}

func (s *promotionService) ownedPromotion(ctx context.Context, id, businessID primitive.ObjectID) (*models.Promotion, error) {
	promotion, err := s.promotionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if promotion.BusinessID != businessID {
		return nil, errors.New(utils.ErrForbidden)
	}
	return promotion, nil
}

func (s *promotionService) checkPlanLimit(ctx context.Context, business *models.Business) error {
	plan, ok := models.SubscriptionPlans[business.Plan]
	if !ok {
		plan = models.SubscriptionPlans[models.PlanFree]
	}
	if plan.Limits.Promotions < 0 {
		return nil
	}

	active, err := s.promotionRepo.CountActiveByBusiness(ctx, business.ID)
	if err != nil {
		return err
	}
	if active >= int64(plan.Limits.Promotions) {
		return errors.New(utils.ErrPlanLimitReached)
	}

	return nil
}
