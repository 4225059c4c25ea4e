package ws

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/matchmaker/internal/identity"
)

// TokenVerifier authenticates the token presented at upgrade time.
type TokenVerifier interface {
	Verify(token string) (identity.Identity, error)
}

// Server upgrades authenticated HTTP requests into registered clients.
type Server struct {
	hub        *Hub
	router     *Router
	verifier   TokenVerifier
	upgrader   websocket.Upgrader
	sendBuffer int
}

// NewServer builds the websocket endpoint. checkOrigin may be nil; origins
// are normally enforced by middleware before the upgrade.
func NewServer(hub *Hub, router *Router, verifier TokenVerifier, sendBuffer int, checkOrigin func(*http.Request) bool) *Server {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Server{
		hub:      hub,
		router:   router,
		verifier: verifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		sendBuffer: sendBuffer,
	}
}

// HandleWebSocket authenticates the caller, upgrades and starts the pumps.
// The token comes from the `token` query parameter or a Bearer header.
func (s *Server) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	ident, err := s.verifier.Verify(token)
	if err != nil {
		log.Printf("[WS] rejected upgrade from %s: %v", c.ClientIP(), err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := newClient(s.hub, s.router, conn, ident, s.sendBuffer)
	s.hub.Register(client)

	go client.writePump()
	go client.readPump()
}
