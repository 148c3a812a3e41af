package services

import (
	"context"
	"fmt"

	"ecocreds/internal/models"
	"ecocreds/internal/repositories/interfaces"
	"ecocreds/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartService interface {
	GetCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	AddItem(ctx context.Context, userID primitive.ObjectID, productID primitive.ObjectID, quantity int64) (*models.Cart, error)
	UpdateItem(ctx context.Context, userID primitive.ObjectID, productID primitive.ObjectID, quantity int64) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID primitive.ObjectID, productID primitive.ObjectID) (*models.Cart, error)
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

type cartService struct {
	cartRepo    interfaces.CartRepository
	productRepo interfaces.ProductRepository
	logger      *logger.Logger
}

func NewCartService(
	cartRepo interfaces.CartRepository,
	productRepo interfaces.ProductRepository,
	logger *logger.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

func (s *cartService) GetCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	return s.cartRepo.GetByUserID(ctx, userID)
}

// AddItem snapshots the product's current price and carbon weight into the
// line, so later catalog edits do not reprice an open cart.
func (s *cartService) AddItem(ctx context.Context, userID primitive.ObjectID, productID primitive.ObjectID, quantity int64) (*models.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, fmt.Errorf("product is not available")
	}
	if product.Stock < quantity {
		return nil, fmt.Errorf("insufficient stock")
	}

	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			cart.Lines[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		cart.Lines = append(cart.Lines, models.CartLine{
			ProductID:  product.ID,
			Name:       product.Name,
			UnitPrice:  product.Price,
			Quantity:   quantity,
			CO2PerUnit: product.CO2PerUnit,
		})
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

func (s *cartService) UpdateItem(ctx context.Context, userID primitive.ObjectID, productID primitive.ObjectID, quantity int64) (*models.Cart, error) {
	if quantity < 1 {
		return s.RemoveItem(ctx, userID, productID)
	}

	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			cart.Lines[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("product not in cart")
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID primitive.ObjectID, productID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines := cart.Lines[:0]
	for _, line := range cart.Lines {
		if line.ProductID != productID {
			lines = append(lines, line)
		}
	}
	cart.Lines = lines

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

func (s *cartService) Clear(ctx context.Context, userID primitive.ObjectID) error {
	return s.cartRepo.Clear(ctx, userID)
}
