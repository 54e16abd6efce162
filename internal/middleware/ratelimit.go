package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/vitanips/platform-api/internal/handler"
)

// RateLimiterConfig controls the per-client token bucket.
type RateLimiterConfig struct {
	RPS   float64
	Burst int
	// TTL is how long an idle client's limiter survives before it is
	// evicted from the cache.
	TTL time.Duration
}

func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RPS:   50,
		Burst: 100,
		TTL:   10 * time.Minute,
	}
}

// RateLimiter keeps a token-bucket limiter per client IP. Limiters live in
// an expiring cache so idle clients don't accumulate forever.
type RateLimiter struct {
	limiters *gocache.Cache
	config   RateLimiterConfig
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	return &RateLimiter{
		limiters: gocache.New(config.TTL, 2*config.TTL),
		config:   config,
	}
}

func (rl *RateLimiter) limiterFor(clientIP string) *rate.Limiter {
	if v, ok := rl.limiters.Get(clientIP); ok {
		return v.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(rate.Limit(rl.config.RPS), rl.config.Burst)
	rl.limiters.SetDefault(clientIP, limiter)
	return limiter
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiterFor(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, handler.NewErrorResponse("rate limit exceeded"))
			c.Abort()
			return
		}
		c.Next()
	}
}
