package middleware

import (
	"net/http"
	"time"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RateLimiter allows limit requests per second per client IP, counted in
// Redis so the limit holds across instances.
func RateLimiter(client *redis.Client, limit int) gin.HandlerFunc {
	if limit <= 0 {
		limit = 10
	}
	store := ratelimit.RedisStore(&ratelimit.RedisOptions{
		RedisClient: client,
		Rate:        time.Second,
		Limit:       uint(limit),
	})

	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: func(c *gin.Context, info ratelimit.Info) {
			util.HandleError(c, http.StatusTooManyRequests,
				errors.New("Too many requests. Try again in "+time.Until(info.ResetTime).Round(time.Millisecond).String()))
		},
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})
}
