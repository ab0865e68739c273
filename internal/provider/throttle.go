package provider

import (
	"context"
	"errors"

	"golang.org/x/time/rate"

	"claimequity/internal/domain"
	"claimequity/internal/port"
)

var errThrottled = errors.New("outbound request budget exhausted")

// Throttled caps the outbound call rate to one provider. When the budget is
// exhausted it fails fast with a rate-limit Error instead of queueing, so the
// caller can move on to the next provider.
type Throttled struct {
	inner   port.ProviderAdapter
	limiter *rate.Limiter
}

// NewThrottled wraps inner with a token bucket of ratePerSecond and burst.
// A non-positive rate disables throttling.
func NewThrottled(inner port.ProviderAdapter, ratePerSecond float64, burst int) port.ProviderAdapter {
	if ratePerSecond <= 0 {
		return inner
	}
	if burst <= 0 {
		burst = 1
	}
	return &Throttled{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

func (t *Throttled) Name() string {
	return t.inner.Name()
}

func (t *Throttled) Supports(capability domain.Capability) bool {
	return t.inner.Supports(capability)
}

func (t *Throttled) Invoke(ctx context.Context, capability domain.Capability, payload port.ProviderPayload, credential string) (*port.ProviderResult, error) {
	if !t.limiter.Allow() {
		return nil, NewRateLimitError(t.inner.Name(), errThrottled, 1)
	}
	return t.inner.Invoke(ctx, capability, payload, credential)
}
