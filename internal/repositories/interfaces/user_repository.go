package interfaces

import (
	"context"
	"time"

	"ecocreds/internal/models"
	"ecocreds/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Auth lookups
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error
	UpdateLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error

	// Listing and search
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.User, int64, error)
	GetByType(ctx context.Context, userType models.UserType, params *utils.PaginationParams) ([]*models.User, int64, error)
}
