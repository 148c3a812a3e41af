package interfaces

import (
	"context"

	"ecocreds/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LoyaltyRepository interface {
	// Account lifecycle
	Create(ctx context.Context, account *models.LoyaltyAccount) error
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.LoyaltyAccount, error)

	// Save persists a mutated account snapshot: balance, lifetime counters
	// and derived tier fields together.
	Save(ctx context.Context, account *models.LoyaltyAccount) error

	// Leaderboard
	GetTopAccounts(ctx context.Context, limit int) ([]*models.LoyaltyAccount, error)
}
