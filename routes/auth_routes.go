package routes

import (
	handlers "ecocreds/internal/handlers/shared"
	"ecocreds/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up registration, login and profile routes
func SetupAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler, jwtSecret string) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
	}

	profile := r.Group("/profile")
	profile.Use(middleware.AuthRequired(jwtSecret))
	{
		profile.GET("", authHandler.GetProfile)
		profile.PUT("", authHandler.UpdateProfile)
		profile.PUT("/password", authHandler.ChangePassword)
	}
}
