package services

import (
	"context"
	"fmt"

	"github.com/alexcolls/descuentia/internal/models"
	"github.com/alexcolls/descuentia/internal/repositories/interfaces"
	"github.com/alexcolls/descuentia/internal/utils"
	"github.com/alexcolls/descuentia/pkg/logger"
	"github.com/alexcolls/descuentia/pkg/push"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationService interface {
	// Push templates. All best-effort: a lost push never fails the caller.
	NotifyCouponRedeemed(ctx context.Context, userID primitive.ObjectID, promotionTitle string)
	NotifyLoyaltyReward(ctx context.Context, userID primitive.ObjectID, reward string)
	NotifyCouponExpiring(ctx context.Context, userID primitive.ObjectID, promotionTitle string, daysLeft int)
	NotifyNewPromotionNearby(ctx context.Context, userID primitive.ObjectID, promotionTitle, businessName string)

	ListUserNotifications(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, id, userID primitive.ObjectID) error
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) error
	CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type notificationService struct {
	notificationRepo interfaces.NotificationRepository
	userRepo         interfaces.UserRepository
	fcm              push.PushProvider
	apns             push.PushProvider
	logger           *logger.Logger
}

func NewNotificationService(
	notificationRepo interfaces.NotificationRepository,
	userRepo interfaces.UserRepository,
	fcm push.PushProvider,
	apns push.PushProvider,
	logger *logger.Logger,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		fcm:              fcm,
		apns:             apns,
		logger:           logger,
	}
}

func (s *notificationService) NotifyCouponRedeemed(ctx context.Context, userID primitive.ObjectID, promotionTitle string) {
	s.send(ctx, userID, models.NotificationCouponRedeemed,
		"Coupon redeemed",
		fmt.Sprintf("Your coupon for \"%s\" was redeemed. Enjoy!", promotionTitle),
		nil)
}

func (s *notificationService) NotifyLoyaltyReward(ctx context.Context, userID primitive.ObjectID, reward string) {
	s.send(ctx, userID, models.NotificationLoyaltyReward,
		"You earned a reward! 🎁",
		fmt.Sprintf("Your stamp card is complete: %s", reward),
		nil)
}

func (s *notificationService) NotifyCouponExpiring(ctx context.Context, userID primitive.ObjectID, promotionTitle string, daysLeft int) {
	body := fmt.Sprintf("Your coupon for \"%s\" expires in %d day", promotionTitle, daysLeft)
	if daysLeft != 1 {
		body += "s"
	}
	s.send(ctx, userID, models.NotificationCouponExpiring, "Coupon expiring soon", body, nil)
}

func (s *notificationService) NotifyNewPromotionNearby(ctx context.Context, userID primitive.ObjectID, promotionTitle, businessName string) {
	s.send(ctx, userID, models.NotificationNewPromotionNearby,
		"New promotion nearby",
		fmt.Sprintf("%s: %s", businessName, promotionTitle),
		nil)
}

func (s *notificationService) ListUserNotifications(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Notification, int64, error) {
	return s.notificationRepo.ListByUser(ctx, userID, params)
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	return s.notificationRepo.MarkRead(ctx, id, userID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

func (s *notificationService) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

func (s *notificationService) send(ctx context.Context, userID primitive.ObjectID, notificationType models.NotificationType, title, body string, data map[string]string) {
	record := &models.Notification{
		UserID: userID,
		Type:   notificationType,
		Title:  title,
		Body:   body,
	}
	if err := s.notificationRepo.Create(ctx, record); err != nil {
		s.logger.WithError(err).WithUserID(userID).Warn("Failed to store notification")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithUserID(userID).Warn("Failed to load user for push")
		return
	}

	for _, token := range user.PushTokens {
		provider := s.providerFor(token.Platform)
		if provider == nil {
			continue
		}

		request := &push.NotificationRequest{
			Token: token.Token,
			Title: title,
			Body:  body,
			Data:  data,
		}
		if _, err := provider.SendNotification(ctx, request); err != nil {
			s.logger.WithError(err).WithUserID(userID).WithField("platform", token.Platform).Warn("Push delivery failed")
		}
	}
}

func (s *notificationService) providerFor(platform string) push.PushProvider {
	switch platform {
	case "ios":
		if s.apns != nil {
			return s.apns
		}
		return s.fcm
	case "android":
		return s.fcm
	default:
		return s.fcm
	}
}
