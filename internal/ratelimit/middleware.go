package ratelimit

import (
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"webstarter/internal/auth"
	"webstarter/internal/logger"
	"webstarter/pkg/apperrors"
)

// Middleware limits per user when signed in, per client IP otherwise.
// Limiter failures let the request through.
func Middleware(l Limiter, conv *apperrors.Converter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		key := "ip:" + c.ClientIP()
		if user, err := auth.CurrentSession(ctx); err == nil && user != nil {
			key = "user:" + user.ID
		}

		res, err := l.Allow(ctx, key)
		if err != nil {
			logger.CtxWithError(ctx, "rate limiter unavailable, allowing request", err)
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

		if !res.Allowed {
			retryAfter := int(math.Ceil(time.Until(res.ResetAt).Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			h.Set("Retry-After", strconv.Itoa(retryAfter))
			logger.CtxWarn(ctx, "rate limit exceeded", "key", key)
			conv.Respond(c, apperrors.RateLimited(""))
			return
		}
		c.Next()
	}
}
