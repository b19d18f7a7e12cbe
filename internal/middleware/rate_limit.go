package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/pkg/logger"
	"github.com/ypropel/backend/internal/pkg/ratelimit"
)

// RateLimit budgets requests per client IP under the given scope. A failing
// counter store lets the request through.
func RateLimit(limiter *ratelimit.Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := limiter.Allow(c.Request.Context(), scope, c.ClientIP())
		if err != nil {
			logger.Warn().Err(err).Str("scope", scope).Msg("Rate limit store unavailable")
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(limiter.Max(), 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))

		if !decision.Allowed {
			retryAfter := int(time.Until(decision.ResetAt).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse("Too many requests, please try again later."))
			return
		}
		c.Next()
	}
}
