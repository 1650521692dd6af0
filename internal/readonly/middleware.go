package readonly

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Middleware blocks write operations while the service runs read-only.
// Read-only operations (GET) are always allowed.
type Middleware struct {
	enabled      bool
	allowedPaths []string
}

// NewMiddleware creates a read-only middleware. allowedPaths are prefixes
// that accept non-GET methods even when enabled.
func NewMiddleware(enabled bool, allowedPaths ...string) *Middleware {
	return &Middleware{enabled: enabled, allowedPaths: allowedPaths}
}

// IsEnabled returns whether read-only mode is active.
func (m *Middleware) IsEnabled() bool {
	return m != nil && m.enabled
}

// Handler returns a Gin middleware that blocks write operations.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.IsEnabled() {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		if m.isAllowedPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "the service is running in read-only mode",
			"read_only": true,
		})
	}
}

func (m *Middleware) isAllowedPath(path string) bool {
	for _, allowed := range m.allowedPaths {
		if strings.HasPrefix(path, allowed) {
			return true
		}
	}
	return false
}

// ContextKeyReadOnly is set on every request so handlers can report the mode.
const ContextKeyReadOnly = "read_only"

// InjectContext adds the read-only flag to the request context.
func (m *Middleware) InjectContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyReadOnly, m.IsEnabled())
		c.Next()
	}
}
