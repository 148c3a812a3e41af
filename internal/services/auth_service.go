package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecocreds/internal/loyalty"
	"ecocreds/internal/models"
	"ecocreds/internal/repositories/interfaces"
	"ecocreds/internal/utils"
	"ecocreds/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService interface {
	Register(ctx context.Context, request *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*utils.TokenPair, error)
	ChangePassword(ctx context.Context, userID primitive.ObjectID, request *ChangePasswordRequest) error
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, updates map[string]interface{}) (*models.User, error)
}

type authService struct {
	userRepo    interfaces.UserRepository
	loyaltyRepo interfaces.LoyaltyRepository
	jwtSecret   string
	logger      *logger.Logger
}

type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,strong_password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strong_password"`
}

type AuthResponse struct {
	User   *models.User     `json:"user"`
	Tokens *utils.TokenPair `json:"tokens"`
}

func NewAuthService(
	userRepo interfaces.UserRepository,
	loyaltyRepo interfaces.LoyaltyRepository,
	jwtSecret string,
	logger *logger.Logger,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		loyaltyRepo: loyaltyRepo,
		jwtSecret:   jwtSecret,
		logger:      logger,
	}
}

func (s *authService) Register(ctx context.Context, request *RegisterRequest) (*AuthResponse, error) {
	if _, err := s.userRepo.GetByEmail(ctx, request.Email); err == nil {
		return nil, fmt.Errorf("user already exists")
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:     request.Email,
		Password:  hashedPassword,
		FirstName: request.FirstName,
		LastName:  request.LastName,
		UserType:  models.UserTypeCustomer,
		IsActive:  true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Every user starts with an empty loyalty account at the base tier
	status := loyalty.Classify(0)
	account := &models.LoyaltyAccount{
		UserID:         user.ID,
		PointBalance:   0,
		CurrentTier:    string(status.CurrentTier),
		NextTier:       string(status.NextTier),
		ProgressToNext: status.ProgressToNext,
	}
	if err := s.loyaltyRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create loyalty account: %w", err)
	}

	tokens, err := utils.GenerateTokenPair(user.ID, string(user.UserType), user.Email, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.logger.LogUserAction(user.ID, utils.EventUserRegistered, map[string]interface{}{
		"email": user.Email,
	})

	return &AuthResponse{User: user, Tokens: tokens}, nil
}

func (s *authService) Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, request.Email)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPassword(user.Password, request.Password) {
		return nil, ErrInvalidCredentials
	}

	tokens, err := utils.GenerateTokenPair(user.ID, string(user.UserType), user.Email, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.WithError(err).Warn("failed to record last login")
	}
	user.LastLogin = &now

	s.logger.LogUserAction(user.ID, utils.EventUserLogin, nil)

	return &AuthResponse{User: user, Tokens: tokens}, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*utils.TokenPair, error) {
	claims, err := utils.ValidateToken(refreshToken, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	// The user may have been deactivated since the token was issued
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	return utils.GenerateTokenPair(user.ID, string(user.UserType), user.Email, s.jwtSecret)
}

func (s *authService) ChangePassword(ctx context.Context, userID primitive.ObjectID, request *ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !utils.CheckPassword(user.Password, request.CurrentPassword) {
		return ErrInvalidCredentials
	}

	hashedPassword, err := utils.HashPassword(request.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, userID, hashedPassword)
}

func (s *authService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *authService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, updates map[string]interface{}) (*models.User, error) {
	allowed := map[string]bool{
		"first_name": true,
		"last_name":  true,
		"avatar_url": true,
	}
	filtered := make(map[string]interface{})
	for k, v := range updates {
		if allowed[k] {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return s.userRepo.GetByID(ctx, userID)
	}

	if err := s.userRepo.Update(ctx, userID, filtered); err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, userID)
}
