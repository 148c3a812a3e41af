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

type productRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewProductRepository(db *mongo.Database, cache CacheService) interfaces.ProductRepository {
	return &productRepository{
		collection: db.Collection("products"),
		cache:      cache,
	}
}

// Basic CRUD operations
func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	product.ID = primitive.NewObjectID()
	if product.Currency == "" {
		product.Currency = utils.DefaultCurrency
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	if product := r.getProductFromCache(ctx, id.Hex()); product != nil {
		return product, nil
	}

	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product.IsActive {
		r.cacheProduct(ctx, &product)
	}

	return &product, nil
}

func (r *productRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	r.invalidateProductCache(ctx, id.Hex())

	return nil
}

func (r *productRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	// Soft delete so committed orders keep resolving their line snapshots
	return r.Update(ctx, id, map[string]interface{}{"is_active": false})
}

// Catalog browsing
func (r *productRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Product, int64, error) {
	return r.findProductsWithFilter(ctx, bson.M{"is_active": true}, params)
}

func (r *productRepository) GetByCategory(ctx context.Context, category string, params *utils.PaginationParams) ([]*models.Product, int64, error) {
	filter := bson.M{
		"is_active": true,
		"category":  category,
	}
	return r.findProductsWithFilter(ctx, filter, params)
}

// Stock
func (r *productRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int64) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{
			"_id":   id,
			"stock": bson.M{"$gte": quantity},
		},
		bson.M{
			"$inc": bson.M{"stock": -quantity},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("insufficient stock for product %s", id.Hex())
	}

	r.invalidateProductCache(ctx, id.Hex())

	return nil
}

// Helper methods
func (r *productRepository) findProductsWithFilter(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Product, int64, error) {
	if params.Search != "" {
		searchFilter := params.GetSearchFilter([]string{"name", "description", "category"})
		if len(searchFilter) > 0 {
			filter = bson.M{"$and": []bson.M{filter, searchFilter}}
		}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []*models.Product
	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, 0, fmt.Errorf("failed to decode product: %w", err)
		}
		products = append(products, &product)
	}

	return products, total, nil
}

// Cache operations
func (r *productRepository) cacheProduct(ctx context.Context, product *models.Product) {
	if r.cache != nil {
		cacheKey := utils.CacheProductPrefix + product.ID.Hex()
		r.cache.Set(ctx, cacheKey, product, 30*time.Minute)
	}
}

func (r *productRepository) getProductFromCache(ctx context.Context, productID string) *models.Product {
	if r.cache == nil {
		return nil
	}

	var product models.Product
	if err := r.cache.Get(ctx, utils.CacheProductPrefix+productID, &product); err != nil {
		return nil
	}

	return &product
}

func (r *productRepository) invalidateProductCache(ctx context.Context, productID string) {
	if r.cache != nil {
		r.cache.Delete(ctx, utils.CacheProductPrefix+productID)
	}
}
