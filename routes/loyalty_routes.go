package routes

import (
	handlers "ecocreds/internal/handlers/shared"
	"ecocreds/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupLoyaltyRoutes sets up loyalty account and credit routes
func SetupLoyaltyRoutes(r *gin.RouterGroup, loyaltyHandler *handlers.LoyaltyHandler, creditHandler *handlers.CreditHandler, jwtSecret string) {
	loyalty := r.Group("/loyalty")
	loyalty.Use(middleware.AuthRequired(jwtSecret))
	{
		loyalty.GET("/account", loyaltyHandler.GetAccount)
		loyalty.GET("/status", loyaltyHandler.GetStatus)
		loyalty.GET("/history", loyaltyHandler.GetHistory)
	}

	// Leaderboard is public
	r.GET("/loyalty/leaderboard", loyaltyHandler.GetLeaderboard)

	credits := r.Group("/credits")
	credits.Use(middleware.AuthRequired(jwtSecret))
	{
		credits.GET("", creditHandler.ListCredits)
		credits.GET("/available", creditHandler.GetAvailable)
	}

	admin := r.Group("/admin/credits")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.POST("", creditHandler.IssueCredit)
	}
}
