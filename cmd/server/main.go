package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/matchmaker/internal/api"
	"github.com/playmatatu/matchmaker/internal/auth"
	"github.com/playmatatu/matchmaker/internal/config"
	"github.com/playmatatu/matchmaker/internal/database"
	"github.com/playmatatu/matchmaker/internal/game"
	"github.com/playmatatu/matchmaker/internal/identity"
	"github.com/playmatatu/matchmaker/internal/middleware"
	"github.com/playmatatu/matchmaker/internal/migrations"
	"github.com/playmatatu/matchmaker/internal/redis"
	"github.com/playmatatu/matchmaker/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Initialize configuration (.env is loaded by config.Load)
	cfg := config.Load()

	// Run migrations on start if requested
	if cfg.MigrateOnStart {
		log.Println("↗ Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	identities := identity.NewPostgresStore(db)
	hub := ws.NewHub()
	store := game.NewRoomStore(game.WithRoomIDs(game.DefaultRoomIDAlphabet, cfg.RoomIDLength, cfg.RoomIDMaxAttempts))
	coordinator := game.NewCoordinator(store, hub, identities, cfg.InviteTimeout(), redis.NewEventPublisher(rdb))
	hub.OnDisconnect(coordinator.HandleDisconnect)

	router := ws.NewRouter(hub, coordinator, game.NewPresence(identities, hub))
	wsServer := ws.NewServer(hub, router, auth.NewVerifier(cfg.JWTSecret), cfg.WSSendBuffer, func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || middleware.OriginAllowed(cfg, origin)
	})

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.Default()
	api.SetupRoutes(engine, store, hub, wsServer, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Starting matchmaker on port %s (invite timeout %s)", cfg.Port, cfg.InviteTimeout())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	if err := coordinator.Shutdown(shutdownCtx); err != nil {
		log.Printf("[MATCH] shutdown: %v", err)
	}
	hub.CloseAll()
	log.Println("Server stopped")
}
