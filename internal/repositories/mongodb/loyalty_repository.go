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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type loyaltyRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewLoyaltyRepository(db *mongo.Database, cache CacheService) interfaces.LoyaltyRepository {
	return &loyaltyRepository{
		collection: db.Collection("loyalty_accounts"),
		cache:      cache,
	}
}

func (r *loyaltyRepository) Create(ctx context.Context, account *models.LoyaltyAccount) error {
	account.ID = primitive.NewObjectID()
	account.CreatedAt = time.Now()
	account.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, account)
	if err != nil {
		return fmt.Errorf("failed to create loyalty account: %w", err)
	}

	return nil
}

func (r *loyaltyRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.LoyaltyAccount, error) {
	if account := r.getAccountFromCache(ctx, userID.Hex()); account != nil {
		return account, nil
	}

	var account models.LoyaltyAccount
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&account)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get loyalty account: %w", err)
	}

	r.cacheAccount(ctx, &account)

	return &account, nil
}

func (r *loyaltyRepository) Save(ctx context.Context, account *models.LoyaltyAccount) error {
	account.UpdatedAt = time.Now()

	// The whole snapshot is written in one update so the balance and the
	// derived tier fields never diverge.
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": account.ID},
		bson.M{"$set": bson.M{
			"point_balance":     account.PointBalance,
			"current_tier":      account.CurrentTier,
			"next_tier":         account.NextTier,
			"progress_to_next":  account.ProgressToNext,
			"lifetime_earned":   account.LifetimeEarned,
			"lifetime_redeemed": account.LifetimeRedeemed,
			"updated_at":        account.UpdatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to save loyalty account: %w", err)
	}

	r.invalidateAccountCache(ctx, account.UserID.Hex())

	return nil
}

func (r *loyaltyRepository) GetTopAccounts(ctx context.Context, limit int) ([]*models.LoyaltyAccount, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "point_balance", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find top accounts: %w", err)
	}
	defer cursor.Close(ctx)

	var accounts []*models.LoyaltyAccount
	for cursor.Next(ctx) {
		var account models.LoyaltyAccount
		if err := cursor.Decode(&account); err != nil {
			return nil, fmt.Errorf("failed to decode loyalty account: %w", err)
		}
		accounts = append(accounts, &account)
	}

	return accounts, nil
}

// Cache operations
func (r *loyaltyRepository) cacheAccount(ctx context.Context, account *models.LoyaltyAccount) {
	if r.cache != nil {
		cacheKey := utils.CacheLoyaltyPrefix + account.UserID.Hex()
		r.cache.Set(ctx, cacheKey, account, 5*time.Minute)
	}
}

func (r *loyaltyRepository) getAccountFromCache(ctx context.Context, userID string) *models.LoyaltyAccount {
	if r.cache == nil {
		return nil
	}

	var account models.LoyaltyAccount
	if err := r.cache.Get(ctx, utils.CacheLoyaltyPrefix+userID, &account); err != nil {
		return nil
	}

	return &account
}

func (r *loyaltyRepository) invalidateAccountCache(ctx context.Context, userID string) {
	if r.cache != nil {
		r.cache.Delete(ctx, utils.CacheLoyaltyPrefix+userID)
	}
}
