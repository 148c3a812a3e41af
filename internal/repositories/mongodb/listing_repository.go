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

type listingRepository struct {
	collection *mongo.Collection
}

func NewListingRepository(db *mongo.Database) interfaces.ListingRepository {
	return &listingRepository{
		collection: db.Collection("listings"),
	}
}

// Basic CRUD operations
func (r *listingRepository) Create(ctx context.Context, listing *models.Listing) error {
	listing.ID = primitive.NewObjectID()
	listing.Status = models.ListingStatusActive
	listing.CreatedAt = time.Now()
	listing.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, listing)
	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}

	return nil
}

func (r *listingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
	var listing models.Listing
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&listing)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	return &listing, nil
}

func (r *listingRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}

	return nil
}

// Browsing
func (r *listingRepository) ListActive(ctx context.Context, params *utils.PaginationParams) ([]*models.Listing, int64, error) {
	return r.findListingsWithFilter(ctx, bson.M{"status": models.ListingStatusActive}, params)
}

func (r *listingRepository) ListBySeller(ctx context.Context, sellerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Listing, int64, error) {
	return r.findListingsWithFilter(ctx, bson.M{"seller_id": sellerID}, params)
}

// MarkSold only matches while the listing is still active, so two buyers
// racing for the same item cannot both win.
func (r *listingRepository) MarkSold(ctx context.Context, id primitive.ObjectID, buyerID primitive.ObjectID) error {
	now := time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{
			"_id":    id,
			"status": models.ListingStatusActive,
		},
		bson.M{"$set": bson.M{
			"status":     models.ListingStatusSold,
			"buyer_id":   buyerID,
			"sold_at":    now,
			"updated_at": now,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark listing sold: %w", err)
	}

	if result.MatchedCount == 0 {
		return interfaces.ErrListingUnavailable
	}

	return nil
}

// Helper methods
func (r *listingRepository) findListingsWithFilter(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Listing, int64, error) {
	if params.Search != "" {
		searchFilter := params.GetSearchFilter([]string{"title", "description", "category"})
		if len(searchFilter) > 0 {
			filter = bson.M{"$and": []bson.M{filter, searchFilter}}
		}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find listings: %w", err)
	}
	defer cursor.Close(ctx)

	var listings []*models.Listing
	for cursor.Next(ctx) {
		var listing models.Listing
		if err := cursor.Decode(&listing); err != nil {
			return nil, 0, fmt.Errorf("failed to decode listing: %w", err)
		}
		listings = append(listings, &listing)
	}

	return listings, total, nil
}
