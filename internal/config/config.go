package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL    string
	MigrateOnStart bool

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Matchmaking
	InviteTimeoutSeconds int
	RoomIDLength         int
	RoomIDMaxAttempts    int

	// WebSocket
	WSSendBuffer int

	// Security
	JWTSecret string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/matchmaker?sslmode=disable"),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Matchmaking
		InviteTimeoutSeconds: getEnvInt("INVITE_TIMEOUT_SECONDS", 30),
		RoomIDLength:         getEnvInt("ROOM_ID_LENGTH", 4),
		RoomIDMaxAttempts:    getEnvInt("ROOM_ID_MAX_ATTEMPTS", 16),

		// WebSocket
		WSSendBuffer: getEnvInt("WS_SEND_BUFFER", 256),

		// Security
		JWTSecret: getEnv("JWT_SECRET", "change-me-in-production"),
	}
}

// InviteTimeout is the acceptance deadline for a freshly created room.
func (c *Config) InviteTimeout() time.Duration {
	if c.InviteTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.InviteTimeoutSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
