package routes

import (
	handlers "ecocreds/internal/handlers/shared"
	"ecocreds/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupCartRoutes sets up the shopping cart routes
func SetupCartRoutes(r *gin.RouterGroup, cartHandler *handlers.CartHandler, jwtSecret string) {
	cart := r.Group("/cart")
	cart.Use(middleware.AuthRequired(jwtSecret))
	{
		cart.GET("", cartHandler.GetCart)
		cart.POST("/items", cartHandler.AddItem)
		cart.PUT("/items/:product_id", cartHandler.UpdateItem)
		cart.DELETE("/items/:product_id", cartHandler.RemoveItem)
		cart.DELETE("", cartHandler.ClearCart)
	}
}
