package provider

import (
	"context"
	"errors"
	"time"

	"claimequity/internal/domain"
	"claimequity/internal/metrics"
	"claimequity/internal/port"
)

type instrumented struct {
	inner port.ProviderAdapter
}

// Instrument records attempt counts and call durations for inner.
func Instrument(inner port.ProviderAdapter) port.ProviderAdapter {
	return &instrumented{inner: inner}
}

func (i *instrumented) Name() string {
	return i.inner.Name()
}

func (i *instrumented) Supports(capability domain.Capability) bool {
	return i.inner.Supports(capability)
}

func (i *instrumented) Invoke(ctx context.Context, capability domain.Capability, payload port.ProviderPayload, credential string) (*port.ProviderResult, error) {
	start := time.Now()
	out, err := i.inner.Invoke(ctx, capability, payload, credential)
	metrics.ProviderCallDurationSeconds.WithLabelValues(i.inner.Name()).Observe(time.Since(start).Seconds())

	result := "ok"
	if err != nil {
		result = string(KindUnavailable)
		var pe *Error
		if errors.As(err, &pe) {
			result = string(pe.Kind)
		}
	}
	metrics.ProviderAttemptsTotal.WithLabelValues(i.inner.Name(), string(capability), result).Inc()
	return out, err
}
