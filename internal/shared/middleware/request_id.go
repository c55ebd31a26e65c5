package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-backend/internal/shared"
)

const RequestIDHeader = "X-Request-ID"

// RequestID reuses an incoming X-Request-ID or generates one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(shared.CtxRequestID, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
