package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID propagates the caller's X-Request-ID or assigns a new one, and
// stores it in the context under "requestId".
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set("requestId", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
