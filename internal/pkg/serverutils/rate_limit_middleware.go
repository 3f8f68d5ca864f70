// FILE: internal/pkg/serverutils/rate_limit_middleware.go
package serverutils

import (
	"sync"
	"time"

	"admissions-chatbot-be/internal/constant"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware applies a per-IP token bucket. Idle buckets are purged
// after ten minutes so the map stays bounded.
func RateLimitMiddleware(perMinute int, burst int) fiber.Handler {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*ipLimiter)
	)

	go func() {
		for range time.Tick(time.Minute) {
			mu.Lock()
			for ip, l := range limiters {
				if time.Since(l.lastSeen) > 10*time.Minute {
					delete(limiters, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(ctx *fiber.Ctx) error {
		ip := ctx.IP()

		mu.Lock()
		l, ok := limiters[ip]
		if !ok {
			l = &ipLimiter{limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst)}
			limiters[ip] = l
		}
		l.lastSeen = time.Now()
		mu.Unlock()

		if !l.limiter.Allow() {
			return constant.ErrTooManyRequests
		}
		return ctx.Next()
	}
}
