package mongodb

import (
	"context"
	"fmt"
	"time"

	"ecocreds/internal/models"
	"ecocreds/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type cartRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(db *mongo.Database) interfaces.CartRepository {
	return &cartRepository{
		collection: db.Collection("carts"),
	}
}

func (r *cartRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// A user without a cart just has an empty one
			return &models.Cart{
				UserID:    userID,
				Lines:     []models.CartLine{},
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

func (r *cartRepository) Save(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = cart.UpdatedAt
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"user_id": cart.UserID},
		bson.M{"$set": bson.M{
			"user_id":    cart.UserID,
			"lines":      cart.Lines,
			"created_at": cart.CreatedAt,
			"updated_at": cart.UpdatedAt,
		}},
		opts,
	)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}

func (r *cartRepository) Clear(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{
			"lines":      []models.CartLine{},
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
