package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/matchmaker/internal/api/handlers"
	"github.com/playmatatu/matchmaker/internal/config"
	"github.com/playmatatu/matchmaker/internal/game"
	"github.com/playmatatu/matchmaker/internal/middleware"
	"github.com/playmatatu/matchmaker/internal/ws"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, store *game.RoomStore, hub *ws.Hub, server *ws.Server, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled for all routes")
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(store, hub))
		v1.GET("/rooms", handlers.ListRooms(store))
		v1.GET("/presence/online", handlers.OnlineCount(hub))

		// Realtime channel; origin checked before the upgrade
		v1.GET("/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleWebSocket(server))
	}

	// Root health check for load balancers
	router.GET("/health", handlers.HealthCheck(store, hub))
}
