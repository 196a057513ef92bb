package http

import (
	"net/http"
	"net/netip"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Deek-011/formbot/internal/common/constants"
	"github.com/Deek-011/formbot/internal/common/httpmetrics"
	"github.com/Deek-011/formbot/internal/observability/metrics"
)

type RateLimiter struct {
	limiters map[string]*limiterEntry
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		now:      time.Now,
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	entry, ok := rl.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastSeen = rl.now()
	rl.mu.Unlock()

	return entry.limiter.Allow()
}

// Sweep drops limiters idle for longer than maxIdle.
func (rl *RateLimiter) Sweep(maxIdle time.Duration) int {
	cutoff := rl.now().Add(-maxIdle)
	removed := 0

	rl.mu.Lock()
	for key, entry := range rl.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
			removed++
		}
	}
	rl.mu.Unlock()

	return removed
}

// PathRateLimiter applies stricter budgets to the credential endpoints than
// to the rest of the API. Keys are client IPs. It is installed with
// router.Use, so routes are told apart by their mux path template.
type PathRateLimiter struct {
	limiters map[string]*RateLimiter
	general  *RateLimiter
	types    map[string]string
	clientIP *ClientIPResolver
}

func NewPathRateLimiter(prefix string, trustedProxies []netip.Prefix) *PathRateLimiter {
	login := NewRateLimiter(constants.RateLimitLoginRequestsPerSecond, constants.RateLimitLoginBurst)
	signup := NewRateLimiter(constants.RateLimitSignupRequestsPerSecond, constants.RateLimitSignupBurst)

	return &PathRateLimiter{
		limiters: map[string]*RateLimiter{
			prefix + "/user/login":  login,
			prefix + "/user/signup": signup,
		},
		types: map[string]string{
			prefix + "/user/login":  "login",
			prefix + "/user/signup": "signup",
		},
		general:  NewRateLimiter(constants.RateLimitGeneralRequestsPerSecond, constants.RateLimitGeneralBurst),
		clientIP: NewClientIPResolver(trustedProxies),
	}
}

func (p *PathRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := httpmetrics.RouteLabel(r)
		if route == "/health" || route == "/metrics" || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		limiter, ok := p.limiters[route]
		limiterType := p.types[route]
		if !ok {
			limiter = p.general
			limiterType = "general"
		}

		if !limiter.Allow(p.clientIP.Resolve(r)) {
			metrics.RateLimitBlocked.WithLabelValues(route, limiterType).Inc()
			WriteError(w, http.StatusTooManyRequests, CodeRateLimited, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Sweep runs until stop is closed, periodically evicting idle limiters.
func (p *PathRateLimiter) Sweep(stop <-chan struct{}) {
	ticker := time.NewTicker(constants.RateLimitCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			for _, l := range p.limiters {
				l.Sweep(constants.RateLimitCleanupInterval)
			}
			p.general.Sweep(constants.RateLimitCleanupInterval)
		}
	}
}
