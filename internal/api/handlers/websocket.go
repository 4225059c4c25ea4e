package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/playmatatu/matchmaker/internal/ws"
)

// HandleWebSocket upgrades the player's realtime channel
func HandleWebSocket(server *ws.Server) gin.HandlerFunc {
	return server.HandleWebSocket
}
