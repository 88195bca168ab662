package http

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mrlokans/bookshelf/internal/audit"
)

const (
	// RequestIDHeader carries the request ID in and out.
	RequestIDHeader = "X-Request-ID"

	// ContextKeyRequestID stores the request ID in the Gin context.
	ContextKeyRequestID = "request_id"
)

// RequestIDMiddleware reuses an incoming X-Request-ID or generates one, and
// echoes it on the response.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(ContextKeyRequestID, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// requestOrigin describes the request for audit events.
func requestOrigin(c *gin.Context) audit.Origin {
	return audit.Origin{
		RequestID: c.GetString(ContextKeyRequestID),
		IPAddress: c.ClientIP(),
	}
}
