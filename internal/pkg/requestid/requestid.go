// Package requestid assigns every HTTP request an ID so log lines for the
// same request can be correlated.
package requestid

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type contextKey string

const (
	// ContextKey is the context key for storing request IDs.
	ContextKey contextKey = "request_id"
	// Header is the HTTP header name for request IDs.
	Header = "X-Request-ID"
)

// FromContext retrieves the request ID from the context.
// Returns an empty string if no request ID is found.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKey).(string); ok {
		return id
	}
	return ""
}

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKey, id)
}

// Middleware propagates an incoming X-Request-ID or generates a UUID v4.
// The ID is echoed in the response header and stored in the request context.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if id == "" || len(id) > 128 {
			id = uuid.New().String()
		}

		c.Header(Header, id)
		c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}
