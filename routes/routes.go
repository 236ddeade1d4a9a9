package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"postboard/handlers"
	"postboard/middleware"
)

// Options controls router wiring.
type Options struct {
	APIVersion     string
	AllowedOrigins []string
	RateLimiter    *middleware.IPRateLimiter
}

func SetupRouter(opts Options, posts *handlers.PostHandler, health *handlers.HealthHandler) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.RequestID())

	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", "Content-Type", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/health", health.Live)
	router.GET("/api/health", health.Ready)

	version := opts.APIVersion
	if version == "" {
		version = "v1"
	}

	api := router.Group("/api/" + version)
	api.Use(middleware.RateLimitMiddleware(opts.RateLimiter))

	// Posts
	api.POST("/posts", posts.CreatePost)
	api.GET("/posts", posts.GetPosts)
	api.PUT("/posts/:id", posts.UpdatePost)
	api.DELETE("/posts/:id", posts.DeletePost)

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(404, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.JSON(404, gin.H{"error": "Not found"})
	})

	return router
}
