package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/playmatatu/matchmaker/internal/auth"
	"github.com/playmatatu/matchmaker/internal/config"
	"github.com/playmatatu/matchmaker/internal/database"
	"github.com/playmatatu/matchmaker/internal/identity"
	"github.com/playmatatu/matchmaker/internal/migrations"
)

// seed-users creates demo players who are all friends with each other and
// prints a connection token for each of them.
func main() {
	cfg := config.Load()

	if cfg.MigrateOnStart {
		if err := migrations.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	nicknames := strings.Split(os.Getenv("SEED_USERS"), ",")
	if os.Getenv("SEED_USERS") == "" {
		nicknames = []string{"luca", "bob", "ana"}
		log.Printf("SEED_USERS not set, using defaults: %v", nicknames)
	}

	ctx := context.Background()
	store := identity.NewPostgresStore(db)

	var users []identity.Identity
	for _, nick := range nicknames {
		nick = strings.TrimSpace(nick)
		if nick == "" {
			continue
		}
		user, err := store.EnsureUser(ctx, nick)
		if err != nil {
			log.Fatalf("Failed to create user %s: %v", nick, err)
		}
		users = append(users, user)
	}

	for i := range users {
		for j := i + 1; j < len(users); j++ {
			if err := store.EnsureFriendship(ctx, users[i].ID, users[j].ID); err != nil {
				log.Fatalf("Failed to link %s and %s: %v", users[i].Nickname, users[j].Nickname, err)
			}
		}
	}

	log.Printf("✓ Seeded %d users", len(users))
	for _, u := range users {
		token, err := auth.Sign(cfg.JWTSecret, u, 24*time.Hour)
		if err != nil {
			log.Fatalf("Failed to sign token for %s: %v", u.Nickname, err)
		}
		log.Printf("  %-12s id=%d ws=/api/v1/ws?token=%s", u.Nickname, u.ID, token)
	}
}
