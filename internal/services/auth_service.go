package services

import (
	"context"
	"errors"

	"github.com/alexcolls/descuentia/internal/models"
	"github.com/alexcolls/descuentia/internal/repositories/interfaces"
	"github.com/alexcolls/descuentia/internal/utils"
	"github.com/alexcolls/descuentia/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, request *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*utils.TokenPair, error)
	GetMe(ctx context.Context, userID primitive.ObjectID) (*models.User, error)

	RegisterPushToken(ctx context.Context, userID primitive.ObjectID, token, platform string) error
	UnregisterPushToken(ctx context.Context, userID primitive.ObjectID, token string) error
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	UserType string `json:"user_type" validate:"required,oneof=consumer merchant"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User   *models.User     `json:"user"`
	Tokens *utils.TokenPair `json:"tokens"`
}

type authService struct {
	userRepo  interfaces.UserRepository
	jwtSecret string
	logger    *logger.Logger
}

func NewAuthService(userRepo interfaces.UserRepository, jwtSecret string, logger *logger.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

func (s *authService) Register(ctx context.Context, request *RegisterRequest) (*AuthResponse, error) {
	if _, err := s.userRepo.GetByEmail(ctx, request.Email); err == nil {
		return nil, errors.New(utils.ErrUserExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        request.Email,
		PasswordHash: string(hash),
		FullName:     request.FullName,
		UserType:     models.UserType(request.UserType),
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.WithUserID(user.ID).WithField("user_type", user.UserType).Info("User registered")

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, request.Email)
	if err != nil {
		return nil, errors.New(utils.ErrInvalidCredentials)
	}

	if !user.IsActive {
		return nil, errors.New(utils.ErrForbidden)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)); err != nil {
		return nil, errors.New(utils.ErrInvalidCredentials)
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.WithError(err).Warn("Failed to update last login")
	}

	return s.buildAuthResponse(user)
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*utils.TokenPair, error) {
	tokens, err := utils.RefreshAccessToken(refreshToken, s.jwtSecret)
	if err != nil {
		return nil, errors.New(utils.ErrInvalidToken)
	}
	return tokens, nil
}

func (s *authService) GetMe(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *authService) RegisterPushToken(ctx context.Context, userID primitive.ObjectID, token, platform string) error {
	return s.userRepo.AddPushToken(ctx, userID, models.PushToken{Token: token, Platform: platform})
}

func (s *authService) UnregisterPushToken(ctx context.Context, userID primitive.ObjectID, token string) error {
	return s.userRepo.RemovePushToken(ctx, userID, token)
}

func (s *authService) buildAuthResponse(user *models.User) (*AuthResponse, error) {
	tokens, err := utils.GenerateTokenPair(user.ID, string(user.UserType), user.Email, user.BusinessID, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: user, Tokens: tokens}, nil
}
