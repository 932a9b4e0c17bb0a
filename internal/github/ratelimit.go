package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultRateLimit is GitHub's authenticated core quota (requests/hour).
	DefaultRateLimit = 5000

	// ProactiveRate throttles sustained outbound traffic (~4300 req/hour).
	ProactiveRate = 1.2

	// ProactiveBurst lets one enrichment batch fan out without queuing.
	ProactiveBurst = 10

	// Header names GitHub uses to signal quota state.
	headerRateLimit     = "X-RateLimit-Limit"
	headerRateRemaining = "X-RateLimit-Remaining"
	headerRateReset     = "X-RateLimit-Reset"
	headerRetryAfter    = "Retry-After"
)

// Limiter combines a proactive token bucket with reactive tracking of the
// quota headers GitHub returns on every response. Unlike a bulk-sync client
// it never sleeps until the quota resets: an exhausted quota surfaces as a
// RateLimitError so the user gets a retry-after answer instead of a stall.
type Limiter struct {
	mu        sync.Mutex
	remaining int
	limit     int
	resetTime time.Time
	bucket    *rate.Limiter
}

// NewLimiter returns a Limiter that assumes a full quota until the first
// response says otherwise.
func NewLimiter() *Limiter {
	return &Limiter{
		remaining: DefaultRateLimit,
		limit:     DefaultRateLimit,
		bucket:    rate.NewLimiter(rate.Limit(ProactiveRate), ProactiveBurst),
	}
}

// Wait blocks for the proactive bucket, then fails fast with a
// RateLimitError if the last known quota state says we are exhausted.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.bucket.Wait(ctx); err != nil {
		return err
	}

	l.mu.Lock()
	remaining := l.remaining
	limit := l.limit
	reset := l.resetTime
	l.mu.Unlock()

	if remaining <= 0 && time.Now().Before(reset) {
		return &RateLimitError{ResetAt: reset, Remaining: remaining, Limit: limit}
	}
	return nil
}

// UpdateFromResponse records the quota headers from a GitHub response.
func (l *Limiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if v := resp.Header.Get(headerRateRemaining); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			l.remaining = n
		}
	}
	if v := resp.Header.Get(headerRateLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			l.limit = n
		}
	}
	if v := resp.Header.Get(headerRateReset); v != "" {
		if unix, err := strconv.ParseInt(v, 10, 64); err == nil {
			l.resetTime = time.Unix(unix, 0)
		}
	}
}

// Remaining returns the last known remaining quota.
func (l *Limiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.remaining
}

// ResetTime returns the last known quota reset time.
func (l *Limiter) ResetTime() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.resetTime
}

// rateLimitErrorFrom builds a RateLimitError from a 403/429 response,
// preferring Retry-After over the reset header when both are present.
func rateLimitErrorFrom(resp *http.Response) *RateLimitError {
	rlErr := &RateLimitError{}

	if v := resp.Header.Get(headerRateRemaining); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			rlErr.Remaining = n
		}
	}
	if v := resp.Header.Get(headerRateLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			rlErr.Limit = n
		}
	}
	if v := resp.Header.Get(headerRateReset); v != "" {
		if unix, err := strconv.ParseInt(v, 10, 64); err == nil {
			rlErr.ResetAt = time.Unix(unix, 0)
		}
	}
	if v := resp.Header.Get(headerRetryAfter); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			rlErr.ResetAt = time.Now().Add(time.Duration(seconds) * time.Second)
		}
	}
	return rlErr
}
