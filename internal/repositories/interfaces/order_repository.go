package interfaces

import (
	"context"

	"ecocreds/internal/models"
	"ecocreds/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderRepository interface {
	// Create inserts the order; the reference column carries a unique index
	// so a duplicate commit surfaces as ErrDuplicateReference.
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	GetByReference(ctx context.Context, reference string) (*models.Order, error)

	// History
	ListByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Order, int64, error)

	// Status transitions
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error
	MarkPaid(ctx context.Context, id primitive.ObjectID, paymentID string) error
}
