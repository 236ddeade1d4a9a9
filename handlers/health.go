package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness checks.
type HealthHandler struct {
	store  Pinger
	driver string
}

// NewHealthHandler creates a HealthHandler for the named store driver.
func NewHealthHandler(store Pinger, driver string) *HealthHandler {
	return &HealthHandler{store: store, driver: driver}
}

// Live answers while the process serves requests.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready pings the store.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		log.Printf("[Ready] store ping failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"store":  h.driver,
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"store":  h.driver,
		"time":   time.Now().Unix(),
	})
}
