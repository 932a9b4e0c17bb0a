package github

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoContent indicates the contents endpoint answered without a usable
// payload (empty body, or an encoding we cannot reverse). Callers map this
// to a "content unavailable" result rather than a hard failure.
var ErrNoContent = errors.New("github: no file content in response")

// RateLimitError is returned when GitHub denies a request for quota reasons:
// HTTP 429, or HTTP 403 with a zero X-RateLimit-Remaining header. It carries
// the reset time so callers can surface a precise retry-after message.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// APIError is any other non-success response from the GitHub API. The status
// code and upstream message are preserved for diagnostics.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// IsRateLimited reports whether err is (or wraps) a RateLimitError.
func IsRateLimited(err error) bool {
	var rateErr *RateLimitError
	return errors.As(err, &rateErr)
}

// IsNotFound reports whether err is an APIError with a 404 status.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}
