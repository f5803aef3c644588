package middlewares

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/Kariqs/tannaro-api/utils"
	"github.com/gin-gonic/gin"
)

// RateLimitKey is the context key holding the client key counted by LoginRateLimit.
const RateLimitKey = "rateLimitKey"

type AttemptLimiter interface {
	Allow(ctx context.Context, key string) error
}

// ClientIP prefers the first X-Forwarded-For entry, then X-Real-IP.
func ClientIP(ctx *gin.Context) string {
	if forwarded := ctx.GetHeader("X-Forwarded-For"); forwarded != "" {
		if ip := strings.TrimSpace(strings.Split(forwarded, ",")[0]); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(ctx.GetHeader("X-Real-IP")); ip != "" {
		return ip
	}
	if ip := ctx.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func rateLimitMessage(window time.Duration) string {
	minutes := int(math.Ceil(window.Minutes()))
	if minutes < 1 {
		minutes = 1
	}
	unit := "minutes"
	if minutes == 1 {
		unit = "minute"
	}
	return fmt.Sprintf("Too many login attempts. Please try again in %d %s.", minutes, unit)
}

// LoginRateLimit counts every attempt per client and answers 429 once the
// limiter refuses.
func LoginRateLimit(limiter AttemptLimiter, window time.Duration) gin.HandlerFunc {
	message := rateLimitMessage(window)
	return func(ctx *gin.Context) {
		key := "admin-login:" + ClientIP(ctx)
		if err := limiter.Allow(ctx.Request.Context(), key); errors.Is(err, utils.ErrRateLimited) {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"success": false, "error": message})
			return
		}
		ctx.Set(RateLimitKey, key)
		ctx.Next()
	}
}
