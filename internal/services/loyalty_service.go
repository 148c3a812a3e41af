package services

import (
	"context"
	"fmt"

	"ecocreds/internal/loyalty"
	"ecocreds/internal/models"
	"ecocreds/internal/repositories/interfaces"
	"ecocreds/internal/utils"
	"ecocreds/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LoyaltyService interface {
	GetAccount(ctx context.Context, userID primitive.ObjectID) (*models.LoyaltyAccount, error)
	GetStatus(ctx context.Context, userID primitive.ObjectID) (*loyalty.TierStatus, error)

	// AwardPoints credits points outside of checkout (marketplace bonuses,
	// admin adjustments) and records the activity.
	AwardPoints(ctx context.Context, userID primitive.ObjectID, points int64, reason string, reference string) (*models.LoyaltyAccount, error)

	GetHistory(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Activity, int64, error)
	GetLeaderboard(ctx context.Context, limit int) ([]*models.LoyaltyAccount, error)
}

type loyaltyService struct {
	loyaltyRepo  interfaces.LoyaltyRepository
	activityRepo interfaces.ActivityRepository
	notifier     Notifier
	logger       *logger.Logger
}

func NewLoyaltyService(
	loyaltyRepo interfaces.LoyaltyRepository,
	activityRepo interfaces.ActivityRepository,
	notifier Notifier,
	logger *logger.Logger,
) LoyaltyService {
	return &loyaltyService{
		loyaltyRepo:  loyaltyRepo,
		activityRepo: activityRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

func (s *loyaltyService) GetAccount(ctx context.Context, userID primitive.ObjectID) (*models.LoyaltyAccount, error) {
	return s.loyaltyRepo.GetByUserID(ctx, userID)
}

func (s *loyaltyService) GetStatus(ctx context.Context, userID primitive.ObjectID) (*loyalty.TierStatus, error) {
	account, err := s.loyaltyRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := loyalty.Classify(account.PointBalance)
	return &status, nil
}

func (s *loyaltyService) AwardPoints(ctx context.Context, userID primitive.ObjectID, points int64, reason string, reference string) (*models.LoyaltyAccount, error) {
	if points <= 0 {
		return nil, fmt.Errorf("points must be positive")
	}

	account, err := s.loyaltyRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	previousTier := account.CurrentTier
	if err := loyalty.ApplyDelta(account, points); err != nil {
		return nil, err
	}

	if err := s.loyaltyRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	activity := &models.Activity{
		UserID:      userID,
		Type:        models.ActivityPointsEarned,
		Points:      points,
		Reference:   reference,
		Description: reason,
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		s.logger.WithError(err).Warn("failed to record points activity")
	}

	s.logger.LogPointsEvent(userID, utils.EventPointsEarned, points, account.PointBalance, account.CurrentTier)

	if s.notifier != nil {
		s.notifier.SendUserNotification(userID, utils.EventPointsEarned, map[string]interface{}{
			"points":  points,
			"balance": account.PointBalance,
			"tier":    account.CurrentTier,
		})
		if account.CurrentTier != previousTier {
			s.notifier.SendUserNotification(userID, utils.EventTierChanged, map[string]interface{}{
				"previous_tier": previousTier,
				"current_tier":  account.CurrentTier,
			})
		}
	}

	return account, nil
}

func (s *loyaltyService) GetHistory(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Activity, int64, error) {
	return s.activityRepo.ListByUser(ctx, userID, params)
}

func (s *loyaltyService) GetLeaderboard(ctx context.Context, limit int) ([]*models.LoyaltyAccount, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.loyaltyRepo.GetTopAccounts(ctx, limit)
}
