package services

import (
	"context"
	"testing"

	"ecocreds/internal/models"
	"ecocreds/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubCatalogRepo serves a single known product on top of the no-op fake.
type stubCatalogRepo struct {
	fakeProductRepo
	product *models.Product
}

func (s *stubCatalogRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return s.product, nil
}

func newCartFixture(t *testing.T, product *models.Product) (CartService, *fakeCartRepo, primitive.ObjectID) {
	t.Helper()

	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text"})
	require.NoError(t, err)

	userID := primitive.NewObjectID()
	cartRepo := &fakeCartRepo{cart: &models.Cart{UserID: userID}}
	service := NewCartService(cartRepo, &stubCatalogRepo{product: product}, log)
	return service, cartRepo, userID
}

func ecoProduct(price int64, stock int64) *models.Product {
	return &models.Product{
		ID:         primitive.NewObjectID(),
		Name:       "Bamboo toothbrush",
		Price:      price,
		CO2PerUnit: 0.2,
		Stock:      stock,
		IsActive:   true,
	}
}

func TestAddItemSnapshotsPrice(t *testing.T) {
	product := ecoProduct(499, 10)
	service, _, userID := newCartFixture(t, product)

	cart, err := service.AddItem(context.Background(), userID, product.ID, 2)
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	line := cart.Lines[0]
	assert.Equal(t, product.ID, line.ProductID)
	assert.Equal(t, int64(499), line.UnitPrice)
	assert.Equal(t, int64(2), line.Quantity)
	assert.Equal(t, 0.2, line.CO2PerUnit)
}

func TestAddItemMergesExistingLine(t *testing.T) {
	product := ecoProduct(499, 10)
	service, _, userID := newCartFixture(t, product)

	_, err := service.AddItem(context.Background(), userID, product.ID, 2)
	require.NoError(t, err)
	cart, err := service.AddItem(context.Background(), userID, product.ID, 3)
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, int64(5), cart.Lines[0].Quantity)
}

func TestAddItemRejectsInactiveProduct(t *testing.T) {
	product := ecoProduct(499, 10)
	product.IsActive = false
	service, _, userID := newCartFixture(t, product)

	_, err := service.AddItem(context.Background(), userID, product.ID, 1)
	assert.Error(t, err)
}

func TestAddItemRejectsInsufficientStock(t *testing.T) {
	product := ecoProduct(499, 1)
	service, _, userID := newCartFixture(t, product)

	_, err := service.AddItem(context.Background(), userID, product.ID, 2)
	assert.Error(t, err)
}

func TestUpdateItemZeroQuantityRemovesLine(t *testing.T) {
	product := ecoProduct(499, 10)
	service, _, userID := newCartFixture(t, product)

	_, err := service.AddItem(context.Background(), userID, product.ID, 2)
	require.NoError(t, err)

	cart, err := service.UpdateItem(context.Background(), userID, product.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestUpdateItemUnknownProduct(t *testing.T) {
	product := ecoProduct(499, 10)
	service, _, userID := newCartFixture(t, product)

	_, err := service.UpdateItem(context.Background(), userID, primitive.NewObjectID(), 3)
	assert.Error(t, err)
}
