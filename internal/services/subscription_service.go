package services

import (
	"context"
	"errors"
	"time"

	"github.com/alexcolls/descuentia/internal/models"
	"github.com/alexcolls/descuentia/internal/repositories/interfaces"
	"github.com/alexcolls/descuentia/internal/utils"
	"github.com/alexcolls/descuentia/pkg/logger"
	"github.com/alexcolls/descuentia/pkg/payment"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubscriptionService interface {
	GetPlans() []models.SubscriptionPlan
	Checkout(ctx context.Context, businessID primitive.ObjectID, planID models.SubscriptionPlanID, gatewayName string) (*CheckoutResponse, error)
	Cancel(ctx context.Context, businessID primitive.ObjectID) error
	GetCurrent(ctx context.Context, businessID primitive.ObjectID) (*models.Subscription, error)

	HandleWebhook(ctx context.Context, gatewayName string, payload []byte, signature string) error
}

type CheckoutResponse struct {
	SubscriptionID string `json:"subscription_id"`
	ClientSecret   string `json:"client_secret,omitempty"`
	Status         string `json:"status"`
}

type subscriptionService struct {
	subscriptionRepo interfaces.SubscriptionRepository
	businessRepo     interfaces.BusinessRepository
	userRepo         interfaces.UserRepository
	gateways         map[string]payment.Gateway
	defaultGateway   string
	logger           *logger.Logger
}

func NewSubscriptionService(
	subscriptionRepo interfaces.SubscriptionRepository,
	businessRepo interfaces.BusinessRepository,
	userRepo interfaces.UserRepository,
	gateways map[string]payment.Gateway,
	defaultGateway string,
	logger *logger.Logger,
) SubscriptionService {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		businessRepo:     businessRepo,
		userRepo:         userRepo,
		gateways:         gateways,
		defaultGateway:   defaultGateway,
		logger:           logger,
	}
}

func (s *subscriptionService) GetPlans() []models.SubscriptionPlan {
	order := []models.SubscriptionPlanID{models.PlanFree, models.PlanBasic, models.PlanPro, models.PlanPremium}
	plans := make([]models.SubscriptionPlan, 0, len(order))
	for _, id := range order {
		plans = append(plans, models.SubscriptionPlans[id])
	}
	return plans
}

func (s *subscriptionService) Checkout(ctx context.Context, businessID primitive.ObjectID, planID models.SubscriptionPlanID, gatewayName string) (*CheckoutResponse, error) {
	plan, ok := models.SubscriptionPlans[planID]
	if !ok {
		return nil, errors.New(utils.ErrInvalidInput)
	}
	if planID == models.PlanFree {
		return nil, errors.New("the free plan does not require checkout")
	}

	gateway, err := s.gateway(gatewayName)
	if err != nil {
		return nil, err
	}

	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	owner, err := s.userRepo.GetByID(ctx, business.OwnerID)
	if err != nil {
		return nil, err
	}

	customer, err := gateway.CreateCustomer(ctx, &payment.CustomerRequest{
		Email: owner.Email,
		Name:  business.Name,
		Metadata: map[string]string{
			"business_id": business.ID.Hex(),
		},
	})
	if err != nil {
		return nil, err
	}

	created, err := gateway.CreateSubscription(ctx, &payment.SubscriptionRequest{
		CustomerRef: customer.Ref,
		PlanRef:     plan.PriceRef,
		Amount:      plan.Price,
		Currency:    utils.DefaultCurrency,
		Metadata: map[string]string{
			"business_id": business.ID.Hex(),
			"plan":        string(planID),
		},
	})
	if err != nil {
		return nil, err
	}

	subscription := &models.Subscription{
		BusinessID:      businessID,
		Plan:            planID,
		Status:          models.SubscriptionStatusActive,
		Gateway:         gateway.Name(),
		CustomerRef:     customer.Ref,
		SubscriptionRef: created.Ref,
	}
	if created.CurrentPeriodEnd > 0 {
		periodEnd := time.Unix(created.CurrentPeriodEnd, 0)
		subscription.CurrentPeriodEnd = &periodEnd
	}

	if err := s.subscriptionRepo.Create(ctx, subscription); err != nil {
		return nil, err
	}

	if err := s.businessRepo.UpdatePlan(ctx, businessID, planID); err != nil {
		s.logger.WithError(err).WithBusinessID(businessID).Error("Failed to apply plan after checkout")
	}

	s.logger.WithBusinessID(businessID).WithField("plan", planID).Info("Subscription created")

	return &CheckoutResponse{
		SubscriptionID: created.Ref,
		ClientSecret:   created.ClientSecret,
		Status:         created.Status,
	}, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, businessID primitive.ObjectID) error {
	subscription, err := s.subscriptionRepo.GetActiveByBusiness(ctx, businessID)
	if err != nil {
		return err
	}

	gateway, err := s.gateway(subscription.Gateway)
	if err != nil {
		return err
	}

	if err := gateway.CancelSubscription(ctx, subscription.SubscriptionRef, true); err != nil {
		return err
	}

	return s.subscriptionRepo.Update(ctx, subscription.ID, map[string]interface{}{
		"cancel_at_period_end": true,
	})
}

func (s *subscriptionService) GetCurrent(ctx context.Context, businessID primitive.ObjectID) (*models.Subscription, error) {
	return s.subscriptionRepo.GetActiveByBusiness(ctx, businessID)
}

func (s *subscriptionService) HandleWebhook(ctx context.Context, gatewayName string, payload []byte, signature string) error {
	gateway, err := s.gateway(gatewayName)
	if err != nil {
		return err
	}

	event, err := gateway.ValidateWebhook(ctx, payload, signature)
	if err != nil {
		return err
	}

	switch event.Type {
	case payment.EventSubscriptionUpdated:
		return s.applySubscriptionUpdate(ctx, event, false)
	case payment.EventSubscriptionCanceled:
		return s.applySubscriptionUpdate(ctx, event, true)
	case payment.EventPaymentFailed:
		return s.markPastDue(ctx, event)
	default:
		s.logger.WithField("event_type", event.Type).Debug("Ignoring webhook event")
		return nil
	}
}

func (s *subscriptionService) applySubscriptionUpdate(ctx context.Context, event *payment.WebhookEvent, canceled bool) error {
	subscription, err := s.subscriptionRepo.GetBySubscriptionRef(ctx, event.SubscriptionRef)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if event.CurrentPeriodEnd > 0 {
		updates["current_period_end"] = time.Unix(event.CurrentPeriodEnd, 0)
	}

	if canceled {
		updates["status"] = models.SubscriptionStatusCanceled
		if err := s.businessRepo.UpdatePlan(ctx, subscription.BusinessID, models.PlanFree); err != nil {
			s.logger.WithError(err).WithBusinessID(subscription.BusinessID).Error("Failed to downgrade plan")
		}
		s.logger.WithBusinessID(subscription.BusinessID).Info("Subscription canceled, downgraded to free")
	} else {
		updates["status"] = models.SubscriptionStatusActive
	}

	return s.subscriptionRepo.Update(ctx, subscription.ID, updates)
}

func (s *subscriptionService) markPastDue(ctx context.Context, event *payment.WebhookEvent) error {
	subscription, err := s.subscriptionRepo.GetBySubscriptionRef(ctx, event.SubscriptionRef)
	if err != nil {
		return err
	}

	s.logger.WithBusinessID(subscription.BusinessID).Warn("Subscription payment failed")

	return s.subscriptionRepo.Update(ctx, subscription.ID, map[string]interface{}{
		"status": models.SubscriptionStatusPastDue,
	})
}

func (s *subscriptionService) gateway(name string) (payment.Gateway, error) {
	if name == "" {
		name = s.defaultGateway
	}
	gateway, ok := s.gateways[name]
	if !ok {
		return nil, errors.New("unsupported payment gateway")
	}
	return gateway, nil
}
