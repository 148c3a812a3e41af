package routes

import (
	handlers "ecocreds/internal/handlers/shared"
	"ecocreds/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupMarketplaceRoutes sets up the second-hand marketplace routes
func SetupMarketplaceRoutes(r *gin.RouterGroup, marketplaceHandler *handlers.MarketplaceHandler, jwtSecret string) {
	// Public browsing
	r.GET("/marketplace/listings", marketplaceHandler.BrowseListings)
	r.GET("/marketplace/listings/:id", marketplaceHandler.GetListing)

	listings := r.Group("/marketplace")
	listings.Use(middleware.AuthRequired(jwtSecret))
	{
		listings.POST("/listings", marketplaceHandler.CreateListing)
		listings.GET("/my-listings", marketplaceHandler.MyListings)
		listings.POST("/listings/:id/purchase", marketplaceHandler.PurchaseListing)
		listings.PUT("/listings/:id/close", marketplaceHandler.CloseListing)
	}
}
