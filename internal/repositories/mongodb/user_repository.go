package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ecocreds/internal/models"
	"ecocreds/internal/repositories/interfaces"
	"ecocreds/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewUserRepository(db *mongo.Database, cache CacheService) interfaces.UserRepository {
	return &userRepository{
		collection: db.Collection("users"),
		cache:      cache,
	}
}

// Basic CRUD operations
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user already exists: %w", err)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if user := r.getUserFromCache(ctx, id.Hex()); user != nil {
		return user, nil
	}

	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	r.cacheUser(ctx, &user)

	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	r.invalidateUserCache(ctx, id.Hex())

	return nil
}

func (r *userRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	// Soft delete keeps the order and activity history intact
	return r.Update(ctx, id, map[string]interface{}{"is_active": false})
}

// Auth lookups
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(email)

	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error {
	return r.Update(ctx, id, map[string]interface{}{"password": hashedPassword})
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	return r.Update(ctx, id, map[string]interface{}{"last_login": at})
}

// Listing and search
func (r *userRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.User, int64, error) {
	return r.findUsersWithFilter(ctx, bson.M{}, params)
}

func (r *userRepository) GetByType(ctx context.Context, userType models.UserType, params *utils.PaginationParams) ([]*models.User, int64, error) {
	return r.findUsersWithFilter(ctx, bson.M{"user_type": userType}, params)
}

// Helper methods
func (r *userRepository) findUsersWithFilter(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.User, int64, error) {
	if params.Search != "" {
		searchFilter := params.GetSearchFilter([]string{"email", "first_name", "last_name"})
		if len(searchFilter) > 0 {
			filter = bson.M{"$and": []bson.M{filter, searchFilter}}
		}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, 0, fmt.Errorf("failed to decode user: %w", err)
		}
		users = append(users, &user)
	}

	return users, total, nil
}

// Cache operations
func (r *userRepository) cacheUser(ctx context.Context, user *models.User) {
	if r.cache != nil {
		cacheKey := utils.CacheUserPrefix + user.ID.Hex()
		r.cache.Set(ctx, cacheKey, user, 15*time.Minute)
	}
}

func (r *userRepository) getUserFromCache(ctx context.Context, userID string) *models.User {
	if r.cache == nil {
		return nil
	}

	var user models.User
	if err := r.cache.Get(ctx, utils.CacheUserPrefix+userID, &user); err != nil {
		return nil
	}

	return &user
}

func (r *userRepository) invalidateUserCache(ctx context.Context, userID string) {
	if r.cache != nil {
		r.cache.Delete(ctx, utils.CacheUserPrefix+userID)
	}
}
