package services

import (
	"context"
	"errors"
	"fmt"

	"ecocreds/internal/models"
	"ecocreds/internal/repositories/interfaces"
	"ecocreds/internal/utils"
	"ecocreds/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrListingSold = errors.New("listing is no longer available")

type MarketplaceService interface {
	CreateListing(ctx context.Context, sellerID primitive.ObjectID, request *CreateListingRequest) (*models.Listing, error)
	GetListing(ctx context.Context, id primitive.ObjectID) (*models.Listing, error)
	BrowseListings(ctx context.Context, params *utils.PaginationParams) ([]*models.Listing, int64, error)
	MyListings(ctx context.Context, sellerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Listing, int64, error)

	// PurchaseListing marks the listing sold and awards the seller the
	// fixed EcoCredits bonus for keeping an item in circulation.
	PurchaseListing(ctx context.Context, listingID primitive.ObjectID, buyerID primitive.ObjectID) (*models.Listing, error)

	CloseListing(ctx context.Context, listingID primitive.ObjectID, sellerID primitive.ObjectID) error
}

type CreateListingRequest struct {
	Title       string `json:"title" validate:"required,max=120"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"category"`
	Condition   string `json:"condition" validate:"required,oneof=new like_new good fair"`
	Price       int64  `json:"price" validate:"gte=0"`
	ImageURL    string `json:"image_url"`
}

type marketplaceService struct {
	listingRepo    interfaces.ListingRepository
	loyaltyService LoyaltyService
	activityRepo   interfaces.ActivityRepository
	notifier       Notifier
	soldBonus      int64
	logger         *logger.Logger
}

func NewMarketplaceService(
	listingRepo interfaces.ListingRepository,
	loyaltyService LoyaltyService,
	activityRepo interfaces.ActivityRepository,
	notifier Notifier,
	soldBonus int64,
	logger *logger.Logger,
) MarketplaceService {
	return &marketplaceService{
		listingRepo:    listingRepo,
		loyaltyService: loyaltyService,
		activityRepo:   activityRepo,
		notifier:       notifier,
		soldBonus:      soldBonus,
		logger:         logger,
	}
}

func (s *marketplaceService) CreateListing(ctx context.Context, sellerID primitive.ObjectID, request *CreateListingRequest) (*models.Listing, error) {
	listing := &models.Listing{
		SellerID:    sellerID,
		Title:       request.Title,
		Description: request.Description,
		Category:    request.Category,
		Condition:   request.Condition,
		Price:       request.Price,
		ImageURL:    request.ImageURL,
	}

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.SendMarketplaceEvent("listing_created", map[string]interface{}{
			"listing_id": listing.ID.Hex(),
			"title":      listing.Title,
			"price":      listing.Price,
		})
	}

	return listing, nil
}

func (s *marketplaceService) GetListing(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
	return s.listingRepo.GetByID(ctx, id)
}

func (s *marketplaceService) BrowseListings(ctx context.Context, params *utils.PaginationParams) ([]*models.Listing, int64, error) {
	return s.listingRepo.ListActive(ctx, params)
}

func (s *marketplaceService) MyListings(ctx context.Context, sellerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Listing, int64, error) {
	return s.listingRepo.ListBySeller(ctx, sellerID, params)
}

func (s *marketplaceService) PurchaseListing(ctx context.Context, listingID primitive.ObjectID, buyerID primitive.ObjectID) (*models.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if listing.SellerID == buyerID {
		return nil, fmt.Errorf("cannot buy your own listing")
	}

	if err := s.listingRepo.MarkSold(ctx, listingID, buyerID); err != nil {
		if errors.Is(err, interfaces.ErrListingUnavailable) {
			return nil, ErrListingSold
		}
		return nil, err
	}

	// Seller earns the circular-economy bonus
	if s.soldBonus > 0 {
		reason := fmt.Sprintf("Sold listing %q", listing.Title)
		if _, err := s.loyaltyService.AwardPoints(ctx, listing.SellerID, s.soldBonus, reason, listing.ID.Hex()); err != nil {
			s.logger.WithError(err).Warn("failed to award listing sold bonus")
		}
	}

	activity := &models.Activity{
		UserID:      listing.SellerID,
		Type:        models.ActivityListingSold,
		Amount:      listing.Price,
		Reference:   listing.ID.Hex(),
		Description: listing.Title,
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		s.logger.WithError(err).Warn("failed to record listing sold activity")
	}

	if s.notifier != nil {
		s.notifier.SendUserNotification(listing.SellerID, utils.EventListingSold, map[string]interface{}{
			"listing_id": listing.ID.Hex(),
			"title":      listing.Title,
			"price":      listing.Price,
		})
		s.notifier.SendMarketplaceEvent(utils.EventListingSold, map[string]interface{}{
			"listing_id": listing.ID.Hex(),
		})
	}

	return s.listingRepo.GetByID(ctx, listingID)
}

func (s *marketplaceService) CloseListing(ctx context.Context, listingID primitive.ObjectID, sellerID primitive.ObjectID) error {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.SellerID != sellerID {
		return interfaces.ErrNotFound
	}
	if listing.Status != models.ListingStatusActive {
		return ErrListingSold
	}

	return s.listingRepo.Update(ctx, listingID, map[string]interface{}{
		"status": models.ListingStatusClosed,
	})
}
