package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/matchmaker/internal/game"
	"github.com/playmatatu/matchmaker/internal/ws"
)

var startTime = time.Now()

const version = "1.0.0"

// HealthCheck returns server health status with live room and connection counts
func HealthCheck(store *game.RoomStore, hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"service":     "matchmaker",
			"version":     version,
			"uptime":      time.Since(startTime).String(),
			"rooms":       store.Len(),
			"connections": hub.Count(),
		})
	}
}
