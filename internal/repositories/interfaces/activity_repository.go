package interfaces

import (
	"context"

	"ecocreds/internal/models"
	"ecocreds/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	ListByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Activity, int64, error)
	ListByType(ctx context.Context, activityType models.ActivityType, params *utils.PaginationParams) ([]*models.Activity, int64, error)
}
