package middleware

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	limiterMaxKeys = 1000
	limiterTTL     = 5 * time.Minute
)

// Limiter keeps one token bucket per key. Idle buckets expire.
type Limiter struct {
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

// NewLimiter allows requestsPerMin per key with a burst of a tenth of that.
// A non-positive value disables limiting.
func NewLimiter(requestsPerMin int) *Limiter {
	if requestsPerMin <= 0 {
		return &Limiter{rate: rate.Inf}
	}
	burst := requestsPerMin / 10
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](limiterMaxKeys, nil, limiterTTL),
		rate:     rate.Limit(float64(requestsPerMin) / 60.0),
		burst:    burst,
	}
}

// Allow reports whether key may proceed now.
func (l *Limiter) Allow(key string) bool {
	if l.limiters == nil {
		return true
	}
	limiter, ok := l.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters.Add(key, limiter)
	}
	return limiter.Allow()
}
