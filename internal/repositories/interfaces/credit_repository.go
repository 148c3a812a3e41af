package interfaces

import (
	"context"

	"ecocreds/internal/models"
	"ecocreds/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreditRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, credit *models.FlatCredit) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.FlatCredit, error)
	GetByCode(ctx context.Context, code string) (*models.FlatCredit, error)

	// Redemption inventory
	GetAvailableByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.FlatCredit, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.FlatCredit, int64, error)

	// MarkUsed flips available -> used as a single conditional update and
	// returns ErrCreditUnavailable when the credit was consumed, expired or
	// revoked in the meantime.
	MarkUsed(ctx context.Context, id primitive.ObjectID, orderID primitive.ObjectID) error

	// Expiry sweep
	MarkExpired(ctx context.Context) (int64, error)
}
