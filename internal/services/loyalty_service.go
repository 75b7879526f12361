package services

import (
	"context"
	"errors"

	"github.com/alexcolls/descuentia/internal/models"
	"github.com/alexcolls/descuentia/internal/repositories/interfaces"
	"github.com/alexcolls/descuentia/internal/utils"
	"github.com/alexcolls/descuentia/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LoyaltyService interface {
	CreateProgram(ctx context.Context, businessID primitive.ObjectID, request *LoyaltyProgramRequest) (*models.LoyaltyProgram, error)
	UpdateProgram(ctx context.Context, businessID primitive.ObjectID, request *LoyaltyProgramRequest) (*models.LoyaltyProgram, error)
	GetProgram(ctx context.Context, businessID primitive.ObjectID) (*models.LoyaltyProgram, error)
	GetUserCards(ctx context.Context, userID primitive.ObjectID) ([]*LoyaltyCardView, error)

	// RecordRedemptionStamp adds a stamp to the consumer's card for the
	// business's active program. At the threshold the card resets and the
	// consumer is notified of the earned reward.
	RecordRedemptionStamp(ctx context.Context, userID, businessID primitive.ObjectID) error
}

type LoyaltyProgramRequest struct {
	Name              string `json:"name" validate:"required"`
	StampsRequired    int    `json:"stamps_required" validate:"required,min=2,max=50"`
	RewardDescription string `json:"reward_description" validate:"required"`
}

type LoyaltyCardView struct {
	Card    *models.LoyaltyCard    `json:"card"`
	Program *models.LoyaltyProgram `json:"program"`
}

type loyaltyService struct {
	loyaltyRepo   interfaces.LoyaltyRepository
	businessRepo  interfaces.BusinessRepository
	notifications NotificationService
	logger        *logger.Logger
}

func NewLoyaltyService(loyaltyRepo interfaces.LoyaltyRepository, businessRepo interfaces.BusinessRepository, notifications NotificationService, logger *logger.Logger) LoyaltyService {
	return &loyaltyService{
		loyaltyRepo:   loyaltyRepo,
		businessRepo:  businessRepo,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *loyaltyService) CreateProgram(ctx context.Context, businessID primitive.ObjectID, request *LoyaltyProgramRequest) (*models.LoyaltyProgram, error) {
	if err := s.checkPlan(ctx, businessID); err != nil {
		return nil, err
	}

	if _, err := s.loyaltyRepo.GetProgramByBusiness(ctx, businessID); err == nil {
		return nil, errors.New(utils.ErrConflict)
	}

	program := &models.LoyaltyProgram{
		BusinessID:        businessID,
		Name:              request.Name,
		StampsRequired:    request.StampsRequired,
		RewardDescription: request.RewardDescription,
	}

	if err := s.loyaltyRepo.CreateProgram(ctx, program); err != nil {
		return nil, err
	}

	s.logger.WithBusinessID(businessID).Info("Loyalty program created")

	return program, nil
}

func (s *loyaltyService) UpdateProgram(ctx context.Context, businessID primitive.ObjectID, request *LoyaltyProgramRequest) (*models.LoyaltyProgram, error) {
	program, err := s.loyaltyRepo.GetProgramByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":               request.Name,
		"stamps_required":    request.StampsRequired,
		"reward_description": request.RewardDescription,
	}
	if err := s.loyaltyRepo.UpdateProgram(ctx, program.ID, updates); err != nil {
		return nil, err
	}

	return s.loyaltyRepo.GetProgramByID(ctx, program.ID)
}

func (s *loyaltyService) GetProgram(ctx context.Context, businessID primitive.ObjectID) (*models.LoyaltyProgram, error) {
	return s.loyaltyRepo.GetProgramByBusiness(ctx, businessID)
}

func (s *loyaltyService) GetUserCards(ctx context.Context, userID primitive.ObjectID) ([]*LoyaltyCardView, error) {
	cards, err := s.loyaltyRepo.ListCardsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]*LoyaltyCardView, 0, len(cards))
	for _, card := range cards {
		view := &LoyaltyCardView{Card: card}
		if program, err := s.loyaltyRepo.GetProgramByID(ctx, card.ProgramID); err == nil {
			view.Program = program
		}
		views = append(views, view)
	}

	return views, nil
}

func (s *loyaltyService) RecordRedemptionStamp(ctx context.Context, userID, businessID primitive.ObjectID) error {
	program, err := s.loyaltyRepo.GetProgramByBusiness(ctx, businessID)
	if err != nil {
		// No active program means nothing to stamp.
		return nil
	}

	card, err := s.loyaltyRepo.AddStamp(ctx, userID, program)
	if err != nil {
		return err
	}

	if card.Stamps < program.StampsRequired {
		return nil
	}

	if err := s.loyaltyRepo.ResetStamps(ctx, card.ID); err != nil {
		return err
	}

	s.logger.WithUserID(userID).WithBusinessID(businessID).Info("Loyalty reward earned")

	if s.notifications != nil {
		s.notifications.NotifyLoyaltyReward(ctx, userID, program.RewardDescription)
	}

	return nil
}

func (s *loyaltyService) checkPlan(ctx context.Context, businessID primitive.ObjectID) error {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return err
	}

	plan, ok := models.SubscriptionPlans[business.Plan]
	if !ok || !plan.Limits.LoyaltyProgram {
		return errors.New("loyalty programs require a paid plan")
	}

	return nil
}
