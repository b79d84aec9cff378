package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"gameon/apperrors"

	"github.com/gin-gonic/gin"
)

// IPRateLimiter allows at most limit requests per client IP within any
// sliding window.
type IPRateLimiter struct {
	mu        sync.Mutex
	requests  map[string][]time.Time
	limit     int
	window    time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func NewIPRateLimiter(limit int, window time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Allow records a request from ip and reports whether it is within the
// limit. When it is not, it also returns how long until a slot frees up.
func (rl *IPRateLimiter) Allow(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)
	rl.sweep(now, cutoff)

	requests := prune(rl.requests[ip], cutoff)
	if len(requests) >= rl.limit {
		if len(requests) == 0 {
			// a non-positive limit denies everything
			return false, rl.window
		}
		rl.requests[ip] = requests
		return false, requests[0].Sub(cutoff)
	}

	rl.requests[ip] = append(requests, now)
	return true, 0
}

// sweep drops idle clients once per window.
func (rl *IPRateLimiter) sweep(now, cutoff time.Time) {
	if now.Sub(rl.lastSweep) < rl.window {
		return
	}
	rl.lastSweep = now
	for ip, reqs := range rl.requests {
		if len(prune(reqs, cutoff)) == 0 {
			delete(rl.requests, ip)
		}
	}
}

func prune(requests []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for ; i < len(requests); i++ {
		if requests[i].After(cutoff) {
			break
		}
	}
	return requests[i:]
}

func RateLimit(rl *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retry := rl.Allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
			Abort(c, apperrors.RateLimited())
			return
		}
		c.Next()
	}
}
