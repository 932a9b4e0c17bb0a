package github

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responseWithHeaders(headers map[string]string) *http.Response {
	resp := &http.Response{Header: http.Header{}}
	for k, v := range headers {
		resp.Header.Set(k, v)
	}
	return resp
}

func TestLimiterUpdateFromResponse(t *testing.T) {
	reset := time.Now().Add(20 * time.Minute).Unix()
	limiter := NewLimiter()

	limiter.UpdateFromResponse(responseWithHeaders(map[string]string{
		headerRateRemaining: "17",
		headerRateLimit:     "30",
		headerRateReset:     fmt.Sprint(reset),
	}))

	assert.Equal(t, 17, limiter.Remaining())
	assert.Equal(t, time.Unix(reset, 0), limiter.ResetTime())
}

func TestLimiterWait(t *testing.T) {
	t.Run("passes while quota remains", func(t *testing.T) {
		limiter := NewLimiter()
		require.NoError(t, limiter.Wait(context.Background()))
	})

	t.Run("fails fast once quota is exhausted", func(t *testing.T) {
		limiter := NewLimiter()
		reset := time.Now().Add(time.Hour)
		limiter.UpdateFromResponse(responseWithHeaders(map[string]string{
			headerRateRemaining: "0",
			headerRateLimit:     "30",
			headerRateReset:     fmt.Sprint(reset.Unix()),
		}))

		err := limiter.Wait(context.Background())

		var rlErr *RateLimitError
		require.ErrorAs(t, err, &rlErr)
		assert.Equal(t, reset.Unix(), rlErr.ResetAt.Unix())
	})

	t.Run("recovers after the reset time passes", func(t *testing.T) {
		limiter := NewLimiter()
		limiter.UpdateFromResponse(responseWithHeaders(map[string]string{
			headerRateRemaining: "0",
			headerRateReset:     fmt.Sprint(time.Now().Add(-time.Minute).Unix()),
		}))

		require.NoError(t, limiter.Wait(context.Background()))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		limiter := NewLimiter()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// Drain the burst so the bucket has to wait, then cancel should win.
		for i := 0; i < ProactiveBurst; i++ {
			_ = limiter.bucket.Allow()
		}
		assert.Error(t, limiter.Wait(ctx))
	})
}

func TestRateLimitErrorFrom(t *testing.T) {
	t.Run("reads reset from X-RateLimit-Reset", func(t *testing.T) {
		reset := time.Now().Add(45 * time.Minute).Unix()
		err := rateLimitErrorFrom(responseWithHeaders(map[string]string{
			headerRateRemaining: "0",
			headerRateLimit:     "5000",
			headerRateReset:     fmt.Sprint(reset),
		}))

		assert.Equal(t, time.Unix(reset, 0), err.ResetAt)
		assert.Equal(t, 0, err.Remaining)
		assert.Equal(t, 5000, err.Limit)
	})

	t.Run("Retry-After wins over the reset header", func(t *testing.T) {
		err := rateLimitErrorFrom(responseWithHeaders(map[string]string{
			headerRateReset:  fmt.Sprint(time.Now().Add(time.Hour).Unix()),
			headerRetryAfter: "60",
		}))

		assert.WithinDuration(t, time.Now().Add(60*time.Second), err.ResetAt, 2*time.Second)
	})
}
