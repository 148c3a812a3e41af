package routes

import (
	handlers "ecocreds/internal/handlers/shared"
	"ecocreds/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupCatalogRoutes sets up the product catalog routes
func SetupCatalogRoutes(r *gin.RouterGroup, catalogHandler *handlers.CatalogHandler, jwtSecret string) {
	// Public browsing routes
	products := r.Group("/products")
	{
		products.GET("", catalogHandler.ListProducts)
		products.GET("/:id", catalogHandler.GetProduct)
	}

	// Admin catalog management
	admin := r.Group("/admin/products")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.POST("", catalogHandler.CreateProduct)
		admin.PUT("/:id", catalogHandler.UpdateProduct)
		admin.DELETE("/:id", catalogHandler.DeleteProduct)
	}
}
