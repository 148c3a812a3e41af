package interfaces

import (
	"context"

	"ecocreds/internal/models"
	"ecocreds/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Catalog browsing
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Product, int64, error)
	GetByCategory(ctx context.Context, category string, params *utils.PaginationParams) ([]*models.Product, int64, error)

	// Stock
	DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int64) error
}
