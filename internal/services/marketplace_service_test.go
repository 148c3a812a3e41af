package services

import (
	"context"
	"testing"

	"ecocreds/internal/models"
	"ecocreds/internal/repositories/interfaces"
	"ecocreds/internal/utils"
	"ecocreds/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeListingRepo struct {
	listings map[primitive.ObjectID]*models.Listing
	updates  map[string]interface{}
}

func (f *fakeListingRepo) Create(ctx context.Context, listing *models.Listing) error {
	listing.ID = primitive.NewObjectID()
	listing.Status = models.ListingStatusActive
	f.listings[listing.ID] = listing
	return nil
}
func (f *fakeListingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
	if listing, ok := f.listings[id]; ok {
		return listing, nil
	}
	return nil, interfaces.ErrNotFound
}
func (f *fakeListingRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	f.updates = updates
	return nil
}
func (f *fakeListingRepo) ListActive(ctx context.Context, params *utils.PaginationParams) ([]*models.Listing, int64, error) {
	return nil, 0, nil
}
func (f *fakeListingRepo) ListBySeller(ctx context.Context, sellerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Listing, int64, error) {
	return nil, 0, nil
}
func (f *fakeListingRepo) MarkSold(ctx context.Context, id primitive.ObjectID, buyerID primitive.ObjectID) error {
	listing, ok := f.listings[id]
	if !ok || listing.Status != models.ListingStatusActive {
		return interfaces.ErrListingUnavailable
	}
	listing.Status = models.ListingStatusSold
	listing.BuyerID = &buyerID
	return nil
}

type marketplaceFixture struct {
	service  MarketplaceService
	listings *fakeListingRepo
	loyalty  *fakeLoyaltyRepo
	activity *fakeActivityRepo
	notifier *fakeNotifier
	sellerID primitive.ObjectID
}

func newMarketplaceFixture(t *testing.T) *marketplaceFixture {
	t.Helper()

	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text"})
	require.NoError(t, err)

	sellerID := primitive.NewObjectID()
	f := &marketplaceFixture{
		listings: &fakeListingRepo{listings: make(map[primitive.ObjectID]*models.Listing)},
		loyalty:  &fakeLoyaltyRepo{account: &models.LoyaltyAccount{UserID: sellerID, CurrentTier: "Starter"}},
		activity: &fakeActivityRepo{},
		notifier: &fakeNotifier{},
		sellerID: sellerID,
	}

	loyaltyService := NewLoyaltyService(f.loyalty, f.activity, f.notifier, log)
	f.service = NewMarketplaceService(f.listings, loyaltyService, f.activity, f.notifier, 25, log)
	return f
}

func (f *marketplaceFixture) seedListing(t *testing.T) *models.Listing {
	t.Helper()
	listing, err := f.service.CreateListing(context.Background(), f.sellerID, &CreateListingRequest{
		Title:     "Refurbished kettle",
		Condition: "good",
		Price:     1200,
	})
	require.NoError(t, err)
	return listing
}

func TestPurchaseListingAwardsSellerBonus(t *testing.T) {
	f := newMarketplaceFixture(t)
	listing := f.seedListing(t)
	buyerID := primitive.NewObjectID()

	sold, err := f.service.PurchaseListing(context.Background(), listing.ID, buyerID)
	require.NoError(t, err)

	assert.Equal(t, models.ListingStatusSold, sold.Status)
	require.NotNil(t, sold.BuyerID)
	assert.Equal(t, buyerID, *sold.BuyerID)

	// seller got the fixed bonus
	require.NotNil(t, f.loyalty.saved)
	assert.Equal(t, int64(25), f.loyalty.saved.PointBalance)

	var types []models.ActivityType
	for _, a := range f.activity.activities {
		types = append(types, a.Type)
	}
	assert.Contains(t, types, models.ActivityPointsEarned)
	assert.Contains(t, types, models.ActivityListingSold)
	assert.Contains(t, f.notifier.userEvents, "listing_sold")
}

func TestPurchaseListingRejectsSelfPurchase(t *testing.T) {
	f := newMarketplaceFixture(t)
	listing := f.seedListing(t)

	_, err := f.service.PurchaseListing(context.Background(), listing.ID, f.sellerID)
	require.Error(t, err)
	assert.Equal(t, models.ListingStatusActive, f.listings.listings[listing.ID].Status)
}

func TestPurchaseListingAlreadySoldConflicts(t *testing.T) {
	f := newMarketplaceFixture(t)
	listing := f.seedListing(t)

	_, err := f.service.PurchaseListing(context.Background(), listing.ID, primitive.NewObjectID())
	require.NoError(t, err)

	_, err = f.service.PurchaseListing(context.Background(), listing.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrListingSold)
}

func TestCloseListingSellerOnly(t *testing.T) {
	f := newMarketplaceFixture(t)
	listing := f.seedListing(t)

	err := f.service.CloseListing(context.Background(), listing.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	err = f.service.CloseListing(context.Background(), listing.ID, f.sellerID)
	require.NoError(t, err)
	assert.Equal(t, models.ListingStatusClosed, f.listings.updates["status"])
}
