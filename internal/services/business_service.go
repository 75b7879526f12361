package services

import (
	"context"
	"errors"

	"github.com/alexcolls/descuentia/internal/models"
	"github.com/alexcolls/descuentia/internal/repositories/interfaces"
	"github.com/alexcolls/descuentia/internal/utils"
	"github.com/alexcolls/descuentia/internal/validators"
	"github.com/alexcolls/descuentia/pkg/logger"
	"github.com/alexcolls/descuentia/pkg/maps"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BusinessService interface {
	Create(ctx context.Context, ownerID primitive.ObjectID, request *validators.CreateBusinessRequest) (*models.Business, error)
	Update(ctx context.Context, id, ownerID primitive.ObjectID, request *validators.UpdateBusinessRequest) (*models.Business, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Business, error)
	GetByOwner(ctx context.Context, ownerID primitive.ObjectID) (*models.Business, error)
	List(ctx context.Context, category string, params *utils.PaginationParams) ([]*models.Business, int64, error)
}

type businessService struct {
	businessRepo interfaces.BusinessRepository
	userRepo     interfaces.UserRepository
	geocoder     maps.Geocoder
	logger       *logger.Logger
}

func NewBusinessService(businessRepo interfaces.BusinessRepository, userRepo interfaces.UserRepository, geocoder maps.Geocoder, logger *logger.Logger) BusinessService {
	return &businessService{
		businessRepo: businessRepo,
		userRepo:     userRepo,
		geocoder:     geocoder,
		logger:       logger,
	}
}

func (s *businessService) Create(ctx context.Context, ownerID primitive.ObjectID, request *validators.CreateBusinessRequest) (*models.Business, error) {
	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner.UserType != models.UserTypeMerchant {
		return nil, errors.New(utils.ErrForbidden)
	}
	if _, err := s.businessRepo.GetByOwnerID(ctx, ownerID); err == nil {
		return nil, errors.New(utils.ErrConflict)
	}

	business := &models.Business{
		OwnerID:     ownerID,
		Name:        request.Name,
		Description: request.Description,
		Category:    models.BusinessCategory(request.Category),
		Address:     request.Address,
		Phone:       request.Phone,
		Email:       request.Email,
		Website:     request.Website,
		Plan:        models.PlanFree,
	}

	s.geocodeAddress(ctx, business, request.Address)

	if err := s.businessRepo.Create(ctx, business); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, ownerID, map[string]interface{}{"business_id": business.ID}); err != nil {
		s.logger.WithError(err).WithUserID(ownerID).Warn("Failed to link business to owner")
	}

	s.logger.WithBusinessID(business.ID).WithUserID(ownerID).Info("Business registered")

	return business, nil
}

func (s *businessService) Update(ctx context.Context, id, ownerID primitive.ObjectID, request *validators.UpdateBusinessRequest) (*models.Business, error) {
	business, err := s.businessRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if business.OwnerID != ownerID {
		return nil, errors.New(utils.ErrForbidden)
	}

	updates := request.ToUpdates()

	// An address change moves the pin: re-geocode before persisting.
	if request.Address != nil && *request.Address != business.Address {
		probe := &models.Business{}
		s.geocodeAddress(ctx, probe, *request.Address)
		if probe.Coordinates != (models.Coordinates{}) {
			updates["coordinates"] = probe.Coordinates
		}
	}

	if len(updates) > 0 {
		if err := s.businessRepo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}

	return s.businessRepo.GetByID(ctx, id)
}

func (s *businessService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Business, error) {
	return s.businessRepo.GetByID(ctx, id)
}

func (s *businessService) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) (*models.Business, error) {
	return s.businessRepo.GetByOwnerID(ctx, ownerID)
}

func (s *businessService) List(ctx context.Context, category string, params *utils.PaginationParams) ([]*models.Business, int64, error) {
	if category != "" {
		return s.businessRepo.GetByCategory(ctx, models.BusinessCategory(category), params)
	}
	return s.businessRepo.List(ctx, params)
}

func (s *businessService) geocodeAddress(ctx context.Context, business *models.Business, address string) {
	if s.geocoder == nil {
		return
	}

	result, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		s.logger.WithError(err).WithField("address", address).Warn("Geocoding failed")
		return
	}

	business.Coordinates = models.Coordinates{
		Latitude:  result.Latitude,
		Longitude: result.Longitude,
	}
}
