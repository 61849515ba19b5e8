package middlewares

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

type QuotaRule struct {
	Limit  int                       // requests allowed per window
	Window time.Duration             // window length, starts at the first request
	KeyFn  func(*gin.Context) string // empty key skips the quota
}

// BookingQuotaKey counts booking requests per client IP.
func BookingQuotaKey(c *gin.Context) string {
	return "quota:bookings:ip:" + c.ClientIP()
}

// Quota counts requests per key in Redis with INCR + EXPIRE. A nil client or a
// Redis failure lets the request through.
func Quota(rdb *redis.Client, rule QuotaRule) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}
		key := rule.KeyFn(c)
		if key == "" {
			c.Next()
			return
		}
		ctx := c.Request.Context()

		n, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			log.WithError(err).Warn("quota: redis unavailable, letting request through")
			c.Next()
			return
		}
		if n == 1 {
			if err := rdb.Expire(ctx, key, rule.Window).Err(); err != nil {
				log.WithError(err).Warnf("quota: could not set expiry on %s", key)
			}
		}
		if int(n) > rule.Limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Quota exceeded",
				"message": "Usage quota exceeded. Please try again later.",
			})
			return
		}
		c.Header("X-Quota-Used", fmt.Sprintf("%d/%d", n, rule.Limit))
		c.Next()
	}
}
