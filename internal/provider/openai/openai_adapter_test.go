package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimequity/internal/config"
	"claimequity/internal/domain"
	"claimequity/internal/port"
	"claimequity/internal/provider"
	"claimequity/internal/provider/openai"
)

func newTestAdapter(name, serverURL string, caps ...domain.Capability) *openai.Adapter {
	return openai.NewAdapter(name, &config.ProviderConfig{
		BaseURL:      serverURL,
		DefaultModel: "grok-3",
		TimeoutSecs:  5,
		MaxTokens:    500,
	}, caps...)
}

func TestAdapter_Invoke_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "grok-3", reqBody["model"])
		assert.Equal(t, float64(120), reqBody["max_tokens"])
		messages := reqBody["messages"].([]interface{})
		assert.Len(t, messages, 2)
		assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"choices": []map[string]interface{}{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": "  The claim was denied.  "}, "finish_reason": "stop"},
			},
		})
	}))
	defer server.Close()

	a := newTestAdapter(domain.ProviderXAI, server.URL, domain.CapabilitySummarize)
	out, err := a.Invoke(context.Background(), domain.CapabilitySummarize, port.ProviderPayload{
		System:    "You summarize claims.",
		Prompt:    "Summarize this.",
		MaxTokens: 120,
	}, "test-key")

	require.NoError(t, err)
	assert.Equal(t, "The claim was denied.", out.Text)
	assert.Equal(t, domain.ProviderXAI, out.Provider)
	assert.Equal(t, "grok-3", out.Model)
}

func TestAdapter_Invoke_StatusClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		kind   provider.Kind
	}{
		{"unauthorized", http.StatusUnauthorized, provider.KindAuth},
		{"rate limited", http.StatusTooManyRequests, provider.KindRateLimit},
		{"server error", http.StatusInternalServerError, provider.KindUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"message":"nope","type":"error"}}`))
			}))
			defer server.Close()

			a := newTestAdapter(domain.ProviderOpenAI, server.URL, domain.CapabilitySummarize)
			_, err := a.Invoke(context.Background(), domain.CapabilitySummarize, port.ProviderPayload{Prompt: "x"}, "test-key")

			var pe *provider.Error
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.kind, pe.Kind)
			assert.Equal(t, domain.ProviderOpenAI, pe.Provider)
		})
	}
}

func TestAdapter_Invoke_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	a := newTestAdapter(domain.ProviderOpenAI, server.URL, domain.CapabilitySummarize)
	_, err := a.Invoke(context.Background(), domain.CapabilitySummarize, port.ProviderPayload{Prompt: "x"}, "k")

	var pe *provider.Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, provider.KindUnavailable, pe.Kind)
}

func TestAdapter_Invoke_MissingCredentialMakesNoCall(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	a := newTestAdapter(domain.ProviderOpenAI, server.URL, domain.CapabilitySummarize)
	_, err := a.Invoke(context.Background(), domain.CapabilitySummarize, port.ProviderPayload{Prompt: "x"}, "   ")

	assert.ErrorIs(t, err, provider.ErrMissingCredential)
	assert.False(t, called)
}

func TestAdapter_Invoke_UnsupportedCapability(t *testing.T) {
	a := newTestAdapter(domain.ProviderOpenAI, "http://127.0.0.1:0", domain.CapabilitySummarize)
	assert.False(t, a.Supports(domain.CapabilityAnalyze))

	_, err := a.Invoke(context.Background(), domain.CapabilityAnalyze, port.ProviderPayload{Prompt: "x"}, "k")
	var pe *provider.Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, provider.KindUnavailable, pe.Kind)
}
