package interfaces

import (
	"context"

	"ecocreds/internal/models"
	"ecocreds/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ListingRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// Browsing
	ListActive(ctx context.Context, params *utils.PaginationParams) ([]*models.Listing, int64, error)
	ListBySeller(ctx context.Context, sellerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Listing, int64, error)

	// MarkSold flips active -> sold as a single conditional update and
	// returns ErrListingUnavailable when the listing was sold or closed in
	// the meantime.
	MarkSold(ctx context.Context, id primitive.ObjectID, buyerID primitive.ObjectID) error
}
