package api

import (
	"math"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"
)

type rateLimiter interface {
	Allow() bool
}

// tokenBucket adapts rate.Limiter to rateLimiter.
type tokenBucket struct {
	limiter *rate.Limiter
}

func newTokenBucketLimiter(ratePerSecond float64, burst int) rateLimiter {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}

	return &tokenBucket{
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

func (b *tokenBucket) Allow() bool {
	if b == nil || b.limiter == nil {
		return true
	}
	return b.limiter.Allow()
}

// retryAfterSeconds is the time until the next token, rounded up.
func (b *tokenBucket) retryAfterSeconds() int {
	limit := b.limiter.Limit()
	if limit <= 0 || limit == rate.Inf {
		return 1
	}
	return max(1, int(math.Ceil(1/float64(limit))))
}

func rateLimitMiddleware(limiter rateLimiter, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limiter.Allow() {
			next.ServeHTTP(w, r)
			return
		}
		retryAfter := 1
		if b, ok := limiter.(*tokenBucket); ok && b != nil && b.limiter != nil {
			retryAfter = b.retryAfterSeconds()
		}
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		writeError(w, http.StatusTooManyRequests, "Too many requests", "rate limit exceeded, please retry shortly")
	})
}
