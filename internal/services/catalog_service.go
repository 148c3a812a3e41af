package services

import (
	"context"

	"ecocreds/internal/models"
	"ecocreds/internal/repositories/interfaces"
	"ecocreds/internal/utils"
	"ecocreds/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CatalogService interface {
	// Browsing
	ListProducts(ctx context.Context, params *utils.PaginationParams) ([]*models.Product, int64, error)
	ListByCategory(ctx context.Context, category string, params *utils.PaginationParams) ([]*models.Product, int64, error)
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)

	// Admin catalog management
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Product, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
}

type catalogService struct {
	productRepo interfaces.ProductRepository
	logger      *logger.Logger
}

func NewCatalogService(productRepo interfaces.ProductRepository, logger *logger.Logger) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		logger:      logger,
	}
}

func (s *catalogService) ListProducts(ctx context.Context, params *utils.PaginationParams) ([]*models.Product, int64, error) {
	return s.productRepo.List(ctx, params)
}

func (s *catalogService) ListByCategory(ctx context.Context, category string, params *utils.PaginationParams) ([]*models.Product, int64, error) {
	return s.productRepo.GetByCategory(ctx, category, params)
}

func (s *catalogService) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

func (s *catalogService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.productRepo.Create(ctx, product); err != nil {
		return err
	}

	s.logger.WithField("product_id", product.ID.Hex()).Info("Product created")
	return nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Product, error) {
	if err := s.productRepo.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, id)
}

func (s *catalogService) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	return s.productRepo.Delete(ctx, id)
}
