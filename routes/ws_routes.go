package routes

import (
	"ecocreds/internal/middleware"
	"ecocreds/pkg/ws"

	"github.com/gin-gonic/gin"
)

// SetupWebSocketRoutes sets up the realtime notification endpoint
func SetupWebSocketRoutes(r *gin.RouterGroup, wsHandler *ws.Handler, jwtSecret string) {
	r.GET("/ws", middleware.AuthRequired(jwtSecret), wsHandler.HandleWebSocket)
}
