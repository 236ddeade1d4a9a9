package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"

	"postboard/config"
	"postboard/database"
	"postboard/handlers"
	"postboard/middleware"
	"postboard/routes"
	"postboard/service"
	"postboard/store"
)

func main() {
	log.Println("🚀 Starting postboard...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ load config: %v", err)
	}

	// ===== STORE =====
	postStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ open %s store: %v", cfg.Store.Driver, err)
	}
	log.Printf("✅ Using %s post store", cfg.Store.Driver)

	// ===== GIN MODE =====
	if cfg.HTTP.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
		log.Println("⚙️ Running in RELEASE mode")
	} else {
		gin.SetMode(gin.DebugMode)
		log.Println("⚙️ Running in DEBUG mode")
	}

	// ===== ROUTER =====
	postService := service.NewPostService(postStore, service.PostServiceOptions{
		Logger: log.New(os.Stdout, "posts ", log.LstdFlags),
	})
	limiter := middleware.NewIPRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	go sweepLimiter(ctx, limiter, cfg.RateLimit.Window)

	router := routes.SetupRouter(routes.Options{
		APIVersion:     cfg.HTTP.APIVersion,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		RateLimiter:    limiter,
	}, handlers.NewPostHandler(postService), handlers.NewHealthHandler(postService, cfg.Store.Driver))

	// ===== SERVER =====
	server := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server running on port %s", cfg.HTTP.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("❌ Server error:", err)
		}
	}()

	// ===== GRACEFUL SHUTDOWN =====
	<-ctx.Done()
	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("❌ Forced shutdown:", err)
	}
	if err := postStore.Close(shutdownCtx); err != nil {
		log.Println("❌ Closing store:", err)
	}

	log.Println("👋 Server stopped gracefully")
}

func openStore(ctx context.Context, cfg *config.Config) (store.PostStore, error) {
	attempts, backoff := cfg.Store.ConnectAttempts, cfg.Store.ConnectBackoff

	switch cfg.Store.Driver {
	case config.DriverMemory:
		return store.NewMemoryStore(), nil

	case config.DriverPostgres:
		pool, err := database.Retry(ctx, "PostgreSQL", attempts, backoff, func(ctx context.Context) (*pgxpool.Pool, error) {
			return database.ConnectPostgres(ctx, cfg.Postgres)
		})
		if err != nil {
			return nil, err
		}
		s := store.NewPostgresStore(pool)
		if err := s.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return s, nil

	default:
		client, err := database.Retry(ctx, "MongoDB", attempts, backoff, func(ctx context.Context) (*mongo.Client, error) {
			return database.ConnectMongo(ctx, cfg.Mongo)
		})
		if err != nil {
			return nil, err
		}
		s := store.NewMongoStore(client, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return s, nil
	}
}

func sweepLimiter(ctx context.Context, limiter *middleware.IPRateLimiter, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep()
		}
	}
}
