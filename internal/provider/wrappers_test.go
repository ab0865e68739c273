package provider_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"claimequity/internal/config"
	"claimequity/internal/domain"
	"claimequity/internal/metrics"
	"claimequity/internal/port"
	"claimequity/internal/provider"
	"claimequity/mocks"
)

func TestThrottled_FailsFastWhenBudgetExhausted(t *testing.T) {
	inner := mocks.NewMockProviderAdapter("xai", domain.CapabilitySummarize)
	inner.On("Invoke", mock.Anything, domain.CapabilitySummarize, mock.Anything, "key").
		Return(&port.ProviderResult{Text: "ok", Provider: "xai"}, nil).Once()

	a := provider.NewThrottled(inner, 0.001, 1)

	out, err := a.Invoke(context.Background(), domain.CapabilitySummarize, port.ProviderPayload{Prompt: "p"}, "key")
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Text)

	_, err = a.Invoke(context.Background(), domain.CapabilitySummarize, port.ProviderPayload{Prompt: "p"}, "key")
	var pe *provider.Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, provider.KindRateLimit, pe.Kind)
	assert.Equal(t, "xai", pe.Provider)
	inner.AssertNumberOfCalls(t, "Invoke", 1)
}

func TestThrottled_NonPositiveRateDisables(t *testing.T) {
	inner := mocks.NewMockProviderAdapter("openai", domain.CapabilitySummarize)
	assert.Same(t, port.ProviderAdapter(inner), provider.NewThrottled(inner, 0, 5))
}

func TestThrottled_DelegatesNameAndSupports(t *testing.T) {
	inner := mocks.NewMockProviderAdapter("dedalus", domain.CapabilityGenerate)
	a := provider.NewThrottled(inner, 10, 1)

	assert.Equal(t, "dedalus", a.Name())
	assert.True(t, a.Supports(domain.CapabilityGenerate))
	assert.False(t, a.Supports(domain.CapabilitySummarize))
}

func TestInstrument_CountsByResult(t *testing.T) {
	inner := mocks.NewMockProviderAdapter("instrumented-test", domain.CapabilityGenerate)
	inner.On("Invoke", mock.Anything, domain.CapabilityGenerate, mock.Anything, "k").
		Return(&port.ProviderResult{Text: "draft"}, nil).Once()
	inner.On("Invoke", mock.Anything, domain.CapabilityGenerate, mock.Anything, "bad").
		Return(nil, provider.NewError(provider.KindAuth, "instrumented-test", errors.New("401"))).Once()

	a := provider.Instrument(inner)
	_, err := a.Invoke(context.Background(), domain.CapabilityGenerate, port.ProviderPayload{}, "k")
	require.NoError(t, err)
	_, err = a.Invoke(context.Background(), domain.CapabilityGenerate, port.ProviderPayload{}, "bad")
	require.Error(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ProviderAttemptsTotal.WithLabelValues("instrumented-test", "generate", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ProviderAttemptsTotal.WithLabelValues("instrumented-test", "generate", "auth")))
}

func TestFactory_NewAndRegistered(t *testing.T) {
	provider.Register("factory-test", func(cfg *config.ProviderConfig) (port.ProviderAdapter, error) {
		return mocks.NewMockProviderAdapter("factory-test"), nil
	})

	a, err := provider.New("factory-test", &config.ProviderConfig{})
	require.NoError(t, err)
	assert.Equal(t, "factory-test", a.Name())
	assert.Contains(t, provider.Registered(), "factory-test")

	_, err = provider.New("does-not-exist", &config.ProviderConfig{})
	assert.Error(t, err)
}
