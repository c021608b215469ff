// Package config builds runtime configuration from the environment so main
// stays lean. A .env file is honored when present (development convenience);
// real deployments set variables directly.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Server captures process-level configuration.
type Server struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
	DatabaseURL       string
	JWTSigningKey     string
	Redis             RedisConfig
	// DashboardCacheTTL bounds how stale a cached dashboard snapshot may be.
	DashboardCacheTTL time.Duration
}

// RedisConfig captures the optional Redis connection. An empty URL disables
// the dashboard cache entirely.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	addr := os.Getenv("FISCALDESK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default; must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:              addr,
		ReadHeaderTimeout: durationEnv("FISCALDESK_READ_HEADER_TIMEOUT", 5*time.Second),
		ShutdownTimeout:   durationEnv("FISCALDESK_SHUTDOWN_TIMEOUT", 10*time.Second),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSigningKey:     jwtSigningKey,
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     intEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: intEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		DashboardCacheTTL: durationEnv("DASHBOARD_CACHE_TTL", 5*time.Minute),
	}
}

func intEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
