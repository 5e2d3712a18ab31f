// Package ratelimit throttles mutating requests with a process-wide token bucket.
package ratelimit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/akarihousing/news-backend/internal/pkg/apperror"
	"github.com/akarihousing/news-backend/internal/pkg/response"
)

var errTooManyRequests = apperror.New(http.StatusTooManyRequests, "リクエストが多すぎます。しばらくしてから再度お試しください。")

// RateLimiter implements the token bucket algorithm for rate limiting.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter allows burst requests at once, refilled at requestsPerSecond.
// A non-positive rate disables limiting.
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	if requestsPerSecond <= 0 {
		return &RateLimiter{}
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

// Allow reports whether a request may proceed now. It never blocks.
func (r *RateLimiter) Allow() bool {
	return r.limiter == nil || r.limiter.Allow()
}

// Middleware rejects requests with 429 once the bucket is empty.
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.Allow() {
			c.Header("Retry-After", "1")
			response.Error(c, errTooManyRequests)
			return
		}
		c.Next()
	}
}
