package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/sweetshop-golang/internal/apperr"
	"github.com/01moynul/sweetshop-golang/internal/ratelimit"
)

// RateLimit answers 429 once the client IP exceeds its budget for the
// route group. A failing limiter backend lets the request through.
func RateLimit(limiter ratelimit.Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()
		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			slog.Warn("rate limiter unavailable", "error", err, "scope", scope)
			c.Next()
			return
		}
		if !allowed {
			abortWith(c, apperr.New(apperr.KindRateLimited, "Too many requests, please try again later"))
			return
		}
		c.Next()
	}
}
