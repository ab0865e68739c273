package provider_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"claimequity/internal/provider"
)

func TestRateLimitError_ErrorString(t *testing.T) {
	err := provider.NewRateLimitError("xai", fmt.Errorf("rate limited"), 30)

	assert.Contains(t, err.Error(), "xai")
	assert.Contains(t, err.Error(), "rate_limit")
	assert.Contains(t, err.Error(), "30s")
}

func TestNewRateLimitError_DefaultRetryAfter(t *testing.T) {
	err := provider.NewRateLimitError("openai", fmt.Errorf("err"), 0)

	assert.Equal(t, 60*time.Second, err.RetryAfter)
}

func TestError_UnwrapAndAs(t *testing.T) {
	underlying := fmt.Errorf("underlying error")
	pe := provider.NewError(provider.KindUnavailable, "dedalus", underlying)
	wrapped := fmt.Errorf("draft failed: %w", pe)

	var target *provider.Error
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "dedalus", target.Provider)
	assert.ErrorIs(t, wrapped, underlying)
}

func TestMissingCredential(t *testing.T) {
	err := provider.MissingCredential("openai")

	assert.Equal(t, provider.KindAuth, err.Kind)
	assert.ErrorIs(t, err, provider.ErrMissingCredential)
}

func TestFromStatus(t *testing.T) {
	header := http.Header{}
	header.Set("Retry-After", "12")

	tests := []struct {
		status int
		header http.Header
		kind   provider.Kind
		retry  time.Duration
	}{
		{http.StatusUnauthorized, nil, provider.KindAuth, 0},
		{http.StatusForbidden, nil, provider.KindAuth, 0},
		{http.StatusTooManyRequests, header, provider.KindRateLimit, 12 * time.Second},
		{http.StatusTooManyRequests, nil, provider.KindRateLimit, 60 * time.Second},
		{http.StatusGatewayTimeout, nil, provider.KindTimeout, 0},
		{http.StatusRequestTimeout, nil, provider.KindTimeout, 0},
		{http.StatusInternalServerError, nil, provider.KindUnavailable, 0},
		{http.StatusBadRequest, nil, provider.KindUnavailable, 0},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := provider.FromStatus("xai", tt.status, tt.header, errors.New("boom"))
			assert.Equal(t, tt.kind, err.Kind)
			assert.Equal(t, tt.retry, err.RetryAfter)
		})
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestFromTransport(t *testing.T) {
	assert.Equal(t, provider.KindTimeout, provider.FromTransport("openai", fmt.Errorf("call: %w", context.DeadlineExceeded)).Kind)
	assert.Equal(t, provider.KindTimeout, provider.FromTransport("openai", timeoutErr{}).Kind)
	assert.Equal(t, provider.KindUnavailable, provider.FromTransport("openai", errors.New("connection refused")).Kind)

	existing := provider.NewRateLimitError("openai", errors.New("slow down"), 5)
	assert.Same(t, existing, provider.FromTransport("openai", fmt.Errorf("wrapped: %w", existing)))
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, provider.ParseRetryAfterHeader(""))
	assert.Equal(t, 30, provider.ParseRetryAfterHeader("30"))
	assert.Equal(t, 0, provider.ParseRetryAfterHeader("invalid"))
	assert.Equal(t, 120, provider.ParseRetryAfterHeader("120"))
}
