package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/matchmaker/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestOriginAllowed(t *testing.T) {
	dev := &config.Config{Environment: "development"}
	prod := &config.Config{Environment: "production", FrontendURL: "https://play.example.com/"}

	tests := []struct {
		name   string
		cfg    *config.Config
		origin string
		want   bool
	}{
		{"dev localhost", dev, "http://localhost:3000", true},
		{"dev loopback", dev, "http://127.0.0.1:5173", true},
		{"dev foreign", dev, "https://evil.example.com", false},
		{"prod main site", prod, "https://playmatatu.com", true},
		{"prod frontend", prod, "https://play.example.com", true},
		{"prod localhost", prod, "http://localhost:5173", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OriginAllowed(tt.cfg, tt.origin))
		})
	}
}

func TestWebSocketCORSCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Environment: "production"}

	r := gin.New()
	r.GET("/ws", WebSocketCORSCheck(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(origin string, upgrade bool) int {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if upgrade {
			req.Header.Set("Connection", "Upgrade")
			req.Header.Set("Upgrade", "websocket")
		}
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("", false))
	assert.Equal(t, http.StatusBadRequest, do("", true))
	assert.Equal(t, http.StatusForbidden, do("https://evil.example.com", true))
	assert.Equal(t, http.StatusOK, do("https://playmatatu.com", true))
}
