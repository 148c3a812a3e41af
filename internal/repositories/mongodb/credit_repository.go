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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type creditRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewCreditRepository(db *mongo.Database, cache CacheService) interfaces.CreditRepository {
	return &creditRepository{
		collection: db.Collection("flat_credits"),
		cache:      cache,
	}
}

// Basic CRUD operations
func (r *creditRepository) Create(ctx context.Context, credit *models.FlatCredit) error {
	credit.ID = primitive.NewObjectID()
	credit.Code = strings.ToUpper(credit.Code)
	if credit.IssuedAt.IsZero() {
		credit.IssuedAt = time.Now()
	}
	credit.CreatedAt = time.Now()
	credit.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, credit)
	if err != nil {
		return fmt.Errorf("failed to create credit: %w", err)
	}

	return nil
}

func (r *creditRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.FlatCredit, error) {
	if credit := r.getCreditFromCache(ctx, id.Hex()); credit != nil {
		return credit, nil
	}

	var credit models.FlatCredit
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&credit)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get credit: %w", err)
	}

	// Only available credits are worth caching; used ones are terminal
	if credit.Status == models.CreditStatusAvailable {
		r.cacheCredit(ctx, &credit)
	}

	return &credit, nil
}

func (r *creditRepository) GetByCode(ctx context.Context, code string) (*models.FlatCredit, error) {
	code = strings.ToUpper(code)

	var credit models.FlatCredit
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&credit)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get credit by code: %w", err)
	}

	return &credit, nil
}

// Redemption inventory
func (r *creditRepository) GetAvailableByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.FlatCredit, error) {
	now := time.Now()
	filter := bson.M{
		"user_id": userID,
		"status":  models.CreditStatusAvailable,
		"$or": []bson.M{
			{"expires_at": nil},
			{"expires_at": bson.M{"$gt": now}},
		},
	}

	// Earliest issued first; the quote selector breaks value ties that way
	opts := options.Find().SetSort(bson.D{{Key: "issued_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find available credits: %w", err)
	}
	defer cursor.Close(ctx)

	var credits []*models.FlatCredit
	for cursor.Next(ctx) {
		var credit models.FlatCredit
		if err := cursor.Decode(&credit); err != nil {
			return nil, fmt.Errorf("failed to decode credit: %w", err)
		}
		credits = append(credits, &credit)
	}

	return credits, nil
}

func (r *creditRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.FlatCredit, int64, error) {
	filter := bson.M{"user_id": userID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count credits: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find credits: %w", err)
	}
	defer cursor.Close(ctx)

	var credits []*models.FlatCredit
	for cursor.Next(ctx) {
		var credit models.FlatCredit
		if err := cursor.Decode(&credit); err != nil {
			return nil, 0, fmt.Errorf("failed to decode credit: %w", err)
		}
		credits = append(credits, &credit)
	}

	return credits, total, nil
}

// MarkUsed is the staleness gate for the commit step: the filter only
// matches while the credit is still available, so a concurrent commit that
// got there first makes this one fail with ErrCreditUnavailable.
func (r *creditRepository) MarkUsed(ctx context.Context, id primitive.ObjectID, orderID primitive.ObjectID) error {
	now := time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{
			"_id":    id,
			"status": models.CreditStatusAvailable,
		},
		bson.M{"$set": bson.M{
			"status":        models.CreditStatusUsed,
			"used_order_id": orderID,
			"used_at":       now,
			"updated_at":    now,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark credit used: %w", err)
	}

	if result.MatchedCount == 0 {
		return interfaces.ErrCreditUnavailable
	}

	r.invalidateCreditCache(ctx, id.Hex())

	return nil
}

// Expiry sweep
func (r *creditRepository) MarkExpired(ctx context.Context) (int64, error) {
	now := time.Now()

	result, err := r.collection.UpdateMany(
		ctx,
		bson.M{
			"status":     models.CreditStatusAvailable,
			"expires_at": bson.M{"$ne": nil, "$lte": now},
		},
		bson.M{"$set": bson.M{
			"status":     models.CreditStatusExpired,
			"updated_at": now,
		}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to expire credits: %w", err)
	}

	return result.ModifiedCount, nil
}

// Cache operations
func (r *creditRepository) cacheCredit(ctx context.Context, credit *models.FlatCredit) {
	if r.cache != nil {
		cacheKey := utils.CacheCreditPrefix + credit.ID.Hex()
		r.cache.Set(ctx, cacheKey, credit, 10*time.Minute)
	}
}

func (r *creditRepository) getCreditFromCache(ctx context.Context, creditID string) *models.FlatCredit {
	if r.cache == nil {
		return nil
	}

	var credit models.FlatCredit
	if err := r.cache.Get(ctx, utils.CacheCreditPrefix+creditID, &credit); err != nil {
		return nil
	}

	return &credit
}

func (r *creditRepository) invalidateCreditCache(ctx context.Context, creditID string) {
	if r.cache != nil {
		r.cache.Delete(ctx, utils.CacheCreditPrefix+creditID)
	}
}
