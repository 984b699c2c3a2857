// middleware/rate_limiter.go
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/HSouheill/lead_management_backend/models"
)

type endpointLimit struct {
	limit rate.Limit
	burst int
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles clients per IP. A client that exceeds its limit is
// blocked for blockDuration. Limiters unused for idleTTL are evicted.
type RateLimiter struct {
	ips            map[string]*clientLimiter
	blockedIPs     map[string]time.Time
	mu             sync.Mutex
	defaultLimit   rate.Limit
	defaultBurst   int
	blockDuration  time.Duration
	idleTTL        time.Duration
	endpointLimits map[string]endpointLimit
	now            func() time.Time
	stop           chan struct{}
	stopOnce       sync.Once
}

// NewRateLimiter allows rps requests per second with the given burst.
// Writes are held to a quarter of that.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	limiter := &RateLimiter{
		ips:            make(map[string]*clientLimiter),
		blockedIPs:     make(map[string]time.Time),
		defaultLimit:   rate.Limit(rps),
		defaultBurst:   burst,
		blockDuration:  time.Minute,
		idleTTL:        10 * time.Minute,
		endpointLimits: make(map[string]endpointLimit),
		now:            time.Now,
		stop:           make(chan struct{}),
	}

	writeLimit := endpointLimit{limit: rate.Limit(rps / 4), burst: max(burst/4, 1)}
	for _, key := range []string{
		"POST /agents",
		"POST /leads",
		"POST /leads/:leadId",
		"POST /leads/:leadId/comments",
	} {
		limiter.endpointLimits[key] = writeLimit
	}

	go limiter.cleanup()

	return limiter
}

// Close stops the cleanup goroutine.
func (r *RateLimiter) Close() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *RateLimiter) cleanup() {
	ticker := time.NewTicker(r.idleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

// sweep lifts expired blocks and evicts limiters idle for longer than
// idleTTL.
func (r *RateLimiter) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for ip, blockUntil := range r.blockedIPs {
		if now.After(blockUntil) {
			r.forget(ip)
		}
	}
	for key, cl := range r.ips {
		if now.Sub(cl.lastSeen) > r.idleTTL {
			delete(r.ips, key)
		}
	}
}

// forget drops the block and every limiter of ip. r.mu must be held.
func (r *RateLimiter) forget(ip string) {
	delete(r.blockedIPs, ip)
	prefix := ip + "|"
	for key := range r.ips {
		if strings.HasPrefix(key, prefix) {
			delete(r.ips, key)
		}
	}
}

func (r *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			key := c.Request().Method + " " + c.Path()

			r.mu.Lock()
			if blockUntil, blocked := r.blockedIPs[ip]; blocked {
				if r.now().Before(blockUntil) {
					r.mu.Unlock()
					return tooManyRequests(c, blockUntil.Sub(r.now()))
				}
				// Block has expired - remove it and reset the limiters
				r.forget(ip)
			}

			limit, burst := r.defaultLimit, r.defaultBurst
			if el, ok := r.endpointLimits[key]; ok {
				limit, burst = el.limit, el.burst
			}

			limiterKey := ip + "|" + key
			cl, exists := r.ips[limiterKey]
			if !exists {
				cl = &clientLimiter{limiter: rate.NewLimiter(limit, burst)}
				r.ips[limiterKey] = cl
			}
			cl.lastSeen = r.now()

			if !cl.limiter.AllowN(cl.lastSeen, 1) {
				r.blockedIPs[ip] = r.now().Add(r.blockDuration)
				r.mu.Unlock()
				return tooManyRequests(c, r.blockDuration)
			}
			r.mu.Unlock()

			return next(c)
		}
	}
}

func tooManyRequests(c echo.Context, retryAfter time.Duration) error {
	seconds := int(retryAfter.Round(time.Second) / time.Second)
	c.Response().Header().Set("Retry-After", strconv.Itoa(max(seconds, 1)))
	return c.JSON(http.StatusTooManyRequests, models.ErrorResponse{Error: "Too many requests"})
}
