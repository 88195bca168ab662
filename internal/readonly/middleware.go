// Package readonly blocks catalog mutations while the application runs in
// read-only mode, e.g. when serving a snapshot of the database.
package readonly

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// BlockedMessage is the body returned for rejected requests.
const BlockedMessage = "This action is disabled in read-only mode"

// ContextKeyReadOnly stores the read-only flag for template rendering.
const ContextKeyReadOnly = "read_only"

// Middleware rejects every request that could change the catalog.
// GET, HEAD and OPTIONS always pass.
type Middleware struct {
	enabled bool
}

// NewMiddleware creates a read-only mode middleware.
func NewMiddleware(enabled bool) *Middleware {
	return &Middleware{enabled: enabled}
}

// IsEnabled returns whether read-only mode is active.
func (m *Middleware) IsEnabled() bool {
	return m.enabled
}

// Handler returns a Gin middleware that blocks write operations.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyReadOnly, m.enabled)

		if !m.enabled {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		m.respondBlocked(c)
	}
}

func (m *Middleware) respondBlocked(c *gin.Context) {
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     BlockedMessage,
			"read_only": true,
		})
		return
	}

	c.String(http.StatusForbidden, BlockedMessage)
	c.Abort()
}

// IsReadOnly reports whether the current request runs in read-only mode.
func IsReadOnly(c *gin.Context) bool {
	return c.GetBool(ContextKeyReadOnly)
}
