package mongodb

import (
	"context"
	"fmt"
	"time"

	"ecocreds/internal/models"
	"ecocreds/internal/repositories/interfaces"
	"ecocreds/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type activityRepository struct {
	collection *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) interfaces.ActivityRepository {
	return &activityRepository{
		collection: db.Collection("activities"),
	}
}

func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	activity.ID = primitive.NewObjectID()
	activity.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, activity)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}

	return nil
}

func (r *activityRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Activity, int64, error) {
	return r.findActivitiesWithFilter(ctx, bson.M{"user_id": userID}, params)
}

func (r *activityRepository) ListByType(ctx context.Context, activityType models.ActivityType, params *utils.PaginationParams) ([]*models.Activity, int64, error) {
	return r.findActivitiesWithFilter(ctx, bson.M{"type": activityType}, params)
}

func (r *activityRepository) findActivitiesWithFilter(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Activity, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find activities: %w", err)
	}
	defer cursor.Close(ctx)

	var activities []*models.Activity
	for cursor.Next(ctx) {
		var activity models.Activity
		if err := cursor.Decode(&activity); err != nil {
			return nil, 0, fmt.Errorf("failed to decode activity: %w", err)
		}
		activities = append(activities, &activity)
	}

	return activities, total, nil
}
