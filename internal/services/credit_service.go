package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ecocreds/internal/models"
	"ecocreds/internal/repositories/interfaces"
	"ecocreds/internal/utils"
	"ecocreds/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreditService interface {
	// IssueCredit mints a flat credit for a user. Admin and system flows
	// (refund goodwill, campaign rewards) go through here.
	IssueCredit(ctx context.Context, request *IssueCreditRequest) (*models.FlatCredit, error)

	GetAvailable(ctx context.Context, userID primitive.ObjectID) ([]*models.FlatCredit, error)
	ListCredits(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.FlatCredit, int64, error)

	// ExpireSweep flips past-expiry credits to expired. Run periodically.
	ExpireSweep(ctx context.Context) (int64, error)
}

type IssueCreditRequest struct {
	UserID        primitive.ObjectID `json:"user_id" validate:"required"`
	Value         int64              `json:"value" validate:"required,gt=0"`
	MinOrderValue int64              `json:"min_order_value" validate:"minor_units"`
	// Code lets an admin mint a specific code for a campaign; empty means
	// the service generates one.
	Code      string        `json:"code" validate:"omitempty,credit_code"`
	Reason    string        `json:"reason"`
	ExpiresIn time.Duration `json:"expires_in"`
}

type creditService struct {
	creditRepo   interfaces.CreditRepository
	activityRepo interfaces.ActivityRepository
	notifier     Notifier
	logger       *logger.Logger
}

func NewCreditService(
	creditRepo interfaces.CreditRepository,
	activityRepo interfaces.ActivityRepository,
	notifier Notifier,
	logger *logger.Logger,
) CreditService {
	return &creditService{
		creditRepo:   creditRepo,
		activityRepo: activityRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

func (s *creditService) IssueCredit(ctx context.Context, request *IssueCreditRequest) (*models.FlatCredit, error) {
	if request.Value <= 0 {
		return nil, fmt.Errorf("credit value must be positive")
	}

	expiresIn := request.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = utils.DefaultCreditExpiry
	}
	expiresAt := time.Now().Add(expiresIn)

	code := strings.ToUpper(request.Code)
	if code == "" {
		code = utils.GenerateCreditCode()
	}

	credit := &models.FlatCredit{
		UserID:        request.UserID,
		Code:          code,
		Value:         request.Value,
		MinOrderValue: request.MinOrderValue,
		Status:        models.CreditStatusAvailable,
		Reason:        request.Reason,
		IssuedAt:      time.Now(),
		ExpiresAt:     &expiresAt,
	}

	if err := s.creditRepo.Create(ctx, credit); err != nil {
		return nil, err
	}

	activity := &models.Activity{
		UserID:      request.UserID,
		Type:        models.ActivityCreditIssued,
		Amount:      credit.Value,
		Reference:   credit.Code,
		Description: request.Reason,
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		s.logger.WithError(err).Warn("failed to record credit activity")
	}

	if s.notifier != nil {
		s.notifier.SendUserNotification(request.UserID, utils.EventCreditIssued, map[string]interface{}{
			"code":  credit.Code,
			"value": credit.Value,
		})
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": request.UserID.Hex(),
		"code":    credit.Code,
		"value":   credit.Value,
	}).Info("Flat credit issued")

	return credit, nil
}

func (s *creditService) GetAvailable(ctx context.Context, userID primitive.ObjectID) ([]*models.FlatCredit, error) {
	return s.creditRepo.GetAvailableByUser(ctx, userID)
}

func (s *creditService) ListCredits(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.FlatCredit, int64, error) {
	return s.creditRepo.ListByUser(ctx, userID, params)
}

func (s *creditService) ExpireSweep(ctx context.Context) (int64, error) {
	count, err := s.creditRepo.MarkExpired(ctx)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		s.logger.WithField("count", count).Info("Expired flat credits")
	}

	return count, nil
}
