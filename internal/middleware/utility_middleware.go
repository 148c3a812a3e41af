package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"ecocreds/internal/utils"
	"ecocreds/pkg/cache"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CORSMiddleware configures CORS headers.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	origins := "*"
	if len(allowedOrigins) > 0 {
		origins = strings.Join(allowedOrigins, ", ")
	}

	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origins)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "Content-Length")
		c.Header("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// RequestIDMiddleware tags each request with an ID for log correlation.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// RateLimitMiddleware applies a fixed-window per-client limit backed by
// Redis. A nil cache disables limiting (tests, local runs).
func RateLimitMiddleware(redis *cache.RedisCache, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redis == nil || limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s%s:%s", utils.CacheRateLimitKey, c.FullPath(), c.ClientIP())

		count, err := redis.Increment(c.Request.Context(), key)
		if err != nil {
			// Redis being down should not take the API with it
			c.Next()
			return
		}
		if count == 1 {
			redis.SetExpire(c.Request.Context(), key, window)
		}

		if count > int64(limit) {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
			c.Abort()
			return
		}

		c.Next()
	}
}
