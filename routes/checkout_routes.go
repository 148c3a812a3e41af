package routes

import (
	handlers "ecocreds/internal/handlers/shared"
	"ecocreds/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupCheckoutRoutes sets up quoting, commit and order history routes
func SetupCheckoutRoutes(r *gin.RouterGroup, checkoutHandler *handlers.CheckoutHandler, jwtSecret string) {
	checkoutGroup := r.Group("/checkout")
	checkoutGroup.Use(middleware.AuthRequired(jwtSecret))
	{
		checkoutGroup.POST("/quote", checkoutHandler.Quote)
		checkoutGroup.POST("/commit", checkoutHandler.Commit)
	}

	orders := r.Group("/orders")
	orders.Use(middleware.AuthRequired(jwtSecret))
	{
		orders.GET("", checkoutHandler.ListOrders)
		orders.GET("/:id", checkoutHandler.GetOrder)
	}
}
