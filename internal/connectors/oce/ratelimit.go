package oce

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HeaderRetryAfter is the retry-after header (seconds or HTTP date).
const HeaderRetryAfter = "Retry-After"

// DefaultRetryAfter is the pause applied after a 429 without Retry-After.
const DefaultRetryAfter = 5 * time.Second

// RateLimiter throttles requests to the content server.
// A token bucket spaces requests out, and a 429 response pauses every
// subsequent request until the server's retry time.
type RateLimiter struct {
	mu          sync.Mutex
	bucket      *rate.Limiter
	pausedUntil time.Time
	now         func() time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second.
// Zero or negative rps disables proactive throttling.
func NewRateLimiter(rps float64) *RateLimiter {
	limit := rate.Inf
	burst := 1
	if rps > 0 {
		limit = rate.Limit(rps)
		burst = max(1, int(rps))
	}
	return &RateLimiter{
		bucket: rate.NewLimiter(limit, burst),
		now:    time.Now,
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	pausedUntil := r.pausedUntil
	r.mu.Unlock()

	if wait := pausedUntil.Sub(r.now()); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// CheckRateLimit inspects a response and returns a RateLimitError for 429.
// The pause applies to later requests; the failed request is not retried.
func (r *RateLimiter) CheckRateLimit(resp *http.Response) error {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}

	resetAt := r.now().Add(parseRetryAfter(resp.Header.Get(HeaderRetryAfter), r.now()))

	r.mu.Lock()
	if resetAt.After(r.pausedUntil) {
		r.pausedUntil = resetAt
	}
	r.mu.Unlock()

	url := ""
	if resp.Request != nil && resp.Request.URL != nil {
		url = resp.Request.URL.String()
	}
	return &RateLimitError{ResetAt: resetAt, URL: url}
}

// PausedUntil returns the time throttling after a 429 ends.
func (r *RateLimiter) PausedUntil() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pausedUntil
}

func parseRetryAfter(v string, now time.Time) time.Duration {
	if v == "" {
		return DefaultRetryAfter
	}
	if seconds, err := strconv.Atoi(v); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
		return 0
	}
	return DefaultRetryAfter
}
