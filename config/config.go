package config

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers understood by the service.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config captures all runtime configuration for the service.
type Config struct {
	HTTP      HTTPConfig
	Store     StoreConfig
	Mongo     MongoConfig
	Postgres  PostgresConfig
	RateLimit RateLimitConfig
	Server    ServerConfig
}

// HTTPConfig holds HTTP server related configuration.
type HTTPConfig struct {
	Port           string
	GinMode        string
	APIVersion     string
	AllowedOrigins []string
}

// StoreConfig selects the post store backend and how hard to try reaching it.
type StoreConfig struct {
	Driver          string
	ConnectAttempts int
	ConnectBackoff  time.Duration
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	DSN      string
	MaxConns int32
}

// RateLimitConfig bounds requests per client IP.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// ServerConfig stores general server runtime configuration.
type ServerConfig struct {
	ShutdownTimeout time.Duration
}

// Load reads an optional .env file and builds configuration from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: failed to load .env: %v", err)
	}
	return FromEnv()
}

// FromEnv builds configuration from environment variables with sane defaults.
func FromEnv() (*Config, error) {
	mongoTimeout, err := getDuration("MONGODB_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	maxConns, err := getInt("POSTGRES_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	// 0 keeps the pgxpool default.
	if maxConns < 0 || maxConns > math.MaxInt32 {
		return nil, fmt.Errorf("invalid POSTGRES_MAX_CONNS: %d out of range 0..%d", maxConns, math.MaxInt32)
	}
	rateRequests, err := getInt("RATE_LIMIT_REQUESTS", 60)
	if err != nil {
		return nil, err
	}
	rateWindow, err := getDuration("RATE_LIMIT_WINDOW", time.Minute)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := getDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	attempts, err := getInt("DB_CONNECT_ATTEMPTS", 3)
	if err != nil {
		return nil, err
	}
	backoff, err := getDuration("DB_CONNECT_BACKOFF", 2*time.Second)
	if err != nil {
		return nil, err
	}
	if attempts < 1 {
		attempts = 1
	}

	cfg := &Config{
		HTTP: HTTPConfig{
			Port:       getString("PORT", "8080"),
			GinMode:    getString("GIN_MODE", "debug"),
			APIVersion: getString("API_VERSION", "v1"),
			AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost:5173",
				"http://127.0.0.1:3000",
			}),
		},
		Store: StoreConfig{
			Driver:          strings.ToLower(getString("STORE_DRIVER", DriverMongo)),
			ConnectAttempts: attempts,
			ConnectBackoff:  backoff,
		},
		Mongo: MongoConfig{
			URI:        getString("MONGODB_URI", "mongodb://127.0.0.1:27017"),
			Database:   getString("MONGODB_DATABASE", "postboard"),
			Collection: getString("MONGODB_COLLECTION", "posts"),
			Timeout:    mongoTimeout,
		},
		Postgres: PostgresConfig{
			DSN:      getString("DATABASE_URL", ""),
			MaxConns: int32(maxConns),
		},
		RateLimit: RateLimitConfig{
			Requests: rateRequests,
			Window:   rateWindow,
		},
		Server: ServerConfig{
			ShutdownTimeout: shutdownTimeout,
		},
	}

	switch cfg.Store.Driver {
	case DriverMongo, DriverMemory:
	case DriverPostgres:
		if cfg.Postgres.DSN == "" {
			return nil, errors.New("DATABASE_URL must be set when STORE_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER: %q", cfg.Store.Driver)
	}

	return cfg, nil
}

func getString(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) (int, error) {
	if val := os.Getenv(key); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		return parsed, nil
	}
	return def, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	if val := os.Getenv(key); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		return parsed, nil
	}
	return def, nil
}

func getList(key string, def []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
