package github

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responseWithHeaders(headers map[string]string) *http.Response {
	resp := &http.Response{Header: make(http.Header)}
	for k, v := range headers {
		resp.Header.Set(k, v)
	}
	return resp
}

func TestNewRateLimiter(t *testing.T) {
	rl := NewRateLimiter()

	assert.Equal(t, UnauthenticatedRateLimit, rl.Remaining())
	assert.Equal(t, UnauthenticatedRateLimit, rl.Limit())
	assert.True(t, rl.ResetTime().IsZero())
}

func TestRateLimiter_UpdateFromResponse(t *testing.T) {
	rl := NewRateLimiter()
	reset := time.Now().Add(time.Hour).Unix()

	rl.UpdateFromResponse(responseWithHeaders(map[string]string{
		HeaderRateLimit:     "5000",
		HeaderRateRemaining: "4987",
		HeaderRateReset:     strconv.FormatInt(reset, 10),
	}))

	assert.Equal(t, 5000, rl.Limit())
	assert.Equal(t, 4987, rl.Remaining())
	assert.Equal(t, time.Unix(reset, 0), rl.ResetTime())
}

func TestRateLimiter_UpdateIgnoresMalformedHeaders(t *testing.T) {
	rl := NewRateLimiter()

	rl.UpdateFromResponse(responseWithHeaders(map[string]string{
		HeaderRateRemaining: "not-a-number",
	}))
	rl.UpdateFromResponse(nil)

	assert.Equal(t, UnauthenticatedRateLimit, rl.Remaining())
}

func TestRateLimiter_WaitWithinBurst(t *testing.T) {
	rl := NewRateLimiter()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// The burst budget admits an immediate first request.
	require.NoError(t, rl.Wait(ctx))
}

func TestRateLimiter_WaitHonoursCancellation(t *testing.T) {
	rl := NewRateLimiter()
	// Exhausted quota with a reset far in the future forces a wait.
	rl.UpdateFromResponse(responseWithHeaders(map[string]string{
		HeaderRateRemaining: "0",
		HeaderRateReset:     strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10),
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResetFromHeaders(t *testing.T) {
	assert.True(t, resetFromHeaders(nil).IsZero())
	assert.True(t, resetFromHeaders(responseWithHeaders(nil)).IsZero())
	assert.True(t, resetFromHeaders(responseWithHeaders(map[string]string{
		HeaderRateReset: "garbage",
	})).IsZero())

	got := resetFromHeaders(responseWithHeaders(map[string]string{
		HeaderRateReset: "1790000000",
	}))
	assert.Equal(t, time.Unix(1790000000, 0), got)
}
