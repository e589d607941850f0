package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/ratelimit"
)

// RateLimit rejects the request with 429 before the handler runs once the
// client IP exceeds the limiter's window. Limiter failures let the request
// through so an unavailable Redis does not lock everyone out.
func RateLimit(limiter ratelimit.Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Println("[RATELIMIT] [ERROR] limiter check failed:", err)
			c.Next()
			return
		}
		if !allowed {
			log.Println("[RATELIMIT] [INFO] limit exceeded for", key)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try again later"})
			return
		}
		c.Next()
	}
}
