package handlers

import (
	"errors"
	"net/http"

	"ecocreds/internal/services"
	"ecocreds/internal/utils"
	"ecocreds/internal/validators"

	"github.com/gin-gonic/gin"
)

type MarketplaceHandler struct {
	marketplaceService services.MarketplaceService
}

func NewMarketplaceHandler(marketplaceService services.MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{
		marketplaceService: marketplaceService,
	}
}

func (h *MarketplaceHandler) CreateListing(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request services.CreateListingRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		details := make(map[string]string)
		for _, e := range errs {
			details[e.Field] = e.Message
		}
		utils.ValidationErrorResponse(c, details)
		return
	}

	listing, err := h.marketplaceService.CreateListing(c.Request.Context(), userID, &request)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "LISTING_CREATE_FAILED", err.Error())
		return
	}

	utils.CreatedResponse(c, "Listing created successfully", listing)
}

func (h *MarketplaceHandler) BrowseListings(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	listings, total, err := h.marketplaceService.BrowseListings(c.Request.Context(), params)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "Listings retrieved successfully", listings, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

func (h *MarketplaceHandler) GetListing(c *gin.Context) {
	listingID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	listing, err := h.marketplaceService.GetListing(c.Request.Context(), listingID)
	if err != nil {
		utils.NotFoundResponse(c, "Listing")
		return
	}

	utils.SuccessResponse(c, "Listing retrieved successfully", listing)
}

func (h *MarketplaceHandler) MyListings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	listings, total, err := h.marketplaceService.MyListings(c.Request.Context(), userID, params)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "Listings retrieved successfully", listings, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// PurchaseListing marks the listing sold; the seller earns the fixed bonus.
func (h *MarketplaceHandler) PurchaseListing(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	listingID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	listing, err := h.marketplaceService.PurchaseListing(c.Request.Context(), listingID, userID)
	if err != nil {
		if errors.Is(err, services.ErrListingSold) {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "PURCHASE_FAILED", err.Error())
		return
	}

	utils.SuccessResponse(c, "Listing purchased successfully", listing)
}

func (h *MarketplaceHandler) CloseListing(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	listingID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.marketplaceService.CloseListing(c.Request.Context(), listingID, userID); err != nil {
		if errors.Is(err, services.ErrListingSold) {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.NotFoundResponse(c, "Listing")
		return
	}

	utils.SuccessResponse(c, "Listing closed successfully", nil)
}
