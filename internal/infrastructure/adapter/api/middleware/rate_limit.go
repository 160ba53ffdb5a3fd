package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainerr "github.com/bugswriter/bizniz-api/internal/domain/error"
	coreport "github.com/bugswriter/bizniz-api/internal/domain/port/core"
	"github.com/bugswriter/bizniz-api/internal/domain/port/provider"
	"github.com/bugswriter/bizniz-api/internal/infrastructure/adapter/api/dto"
)

// RateLimit enforces a fixed-window request limit per client IP and path
// using a counter in the cache. When the cache is unavailable the request is
// allowed through: losing rate limiting is preferable to losing logins.
func RateLimit(cache provider.Cache, limit int, window time.Duration, logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", c.ClientIP(), c.FullPath())

		count, err := cache.IncrementWithTTL(c.Request.Context(), key, window)
		if err != nil {
			logger.Warn("Rate limit check failed, allowing request", map[string]any{
				"key":   key,
				"error": err.Error(),
			})
			c.Next()
			return
		}

		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrRateLimited),
				Message: "Too many requests, please try again later",
			})
			return
		}

		c.Next()
	}
}
