package interfaces

import (
	"context"

	"ecocreds/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartRepository interface {
	// GetByUserID returns the user's cart, creating an empty one when none
	// exists yet.
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)

	// Save upserts the full line set.
	Save(ctx context.Context, cart *models.Cart) error

	// Clear empties the cart after a committed checkout.
	Clear(ctx context.Context, userID primitive.ObjectID) error
}
