package dedalus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"claimequity/internal/config"
	"claimequity/internal/domain"
	"claimequity/internal/port"
	"claimequity/internal/provider"
)

const (
	apiURL = "https://api.dedaluslabs.ai/v1/agents/execute"
)

// Adapter implements port.ProviderAdapter for the Dedalus agent execution API.
type Adapter struct {
	model     string
	maxTokens int
	endpoint  string
	client    *http.Client
}

// NewAdapter creates a Dedalus adapter from a provider config.
func NewAdapter(cfg *config.ProviderConfig) *Adapter {
	endpoint := cfg.BaseURL
	if endpoint == "" {
		endpoint = apiURL
	}
	return newAdapter(cfg, endpoint)
}

// NewAdapterWithEndpoint creates an adapter pointing at a custom API endpoint (for testing).
func NewAdapterWithEndpoint(cfg *config.ProviderConfig, endpoint string) *Adapter {
	return newAdapter(cfg, endpoint)
}

func newAdapter(cfg *config.ProviderConfig, endpoint string) *Adapter {
	model := cfg.DefaultModel
	if model == "" {
		model = "gpt-4"
	}
	return &Adapter{
		model:     model,
		maxTokens: cfg.MaxTokens,
		endpoint:  endpoint,
		client:    &http.Client{Timeout: cfg.Timeout()},
	}
}

func (a *Adapter) Name() string {
	return domain.ProviderDedalus
}

func (a *Adapter) Supports(capability domain.Capability) bool {
	return capability == domain.CapabilityGenerate
}

func (a *Adapter) Invoke(ctx context.Context, capability domain.Capability, payload port.ProviderPayload, credential string) (*port.ProviderResult, error) {
	if !a.Supports(capability) {
		return nil, provider.NewError(provider.KindUnavailable, a.Name(), fmt.Errorf("capability %s not supported", capability))
	}
	if strings.TrimSpace(credential) == "" {
		return nil, provider.MissingCredential(a.Name())
	}

	prompt := payload.Prompt
	if payload.System != "" {
		prompt = payload.System + "\n\n" + prompt
	}
	reqBody := map[string]interface{}{
		"model":  a.model,
		"tools":  []string{"summarization", "document_analysis"},
		"prompt": prompt,
	}
	maxTokens := payload.MaxTokens
	if maxTokens == 0 {
		maxTokens = a.maxTokens
	}
	if maxTokens > 0 {
		reqBody["max_tokens"] = maxTokens
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, provider.NewError(provider.KindUnavailable, a.Name(), fmt.Errorf("marshaling request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, provider.NewError(provider.KindUnavailable, a.Name(), fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, provider.FromTransport(a.Name(), fmt.Errorf("calling dedalus API: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, provider.FromTransport(a.Name(), fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("dedalus API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 300))
		return nil, provider.FromStatus(a.Name(), resp.StatusCode, resp.Header, baseErr)
	}

	text, err := parseResponse(respBody)
	if err != nil {
		return nil, provider.NewError(provider.KindUnavailable, a.Name(), err)
	}
	return &port.ProviderResult{
		Text:     text,
		Provider: a.Name(),
		Model:    a.model,
	}, nil
}

// apiResponse models the agent execution response. Deployments have been seen
// returning the text under either key.
type apiResponse struct {
	Output   string `json:"output"`
	Response string `json:"response"`
}

func parseResponse(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}
	text := strings.TrimSpace(resp.Output)
	if text == "" {
		text = strings.TrimSpace(resp.Response)
	}
	if text == "" {
		return "", errors.New("empty agent output")
	}
	return text, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Register registers the dedalus factory.
func Register() {
	provider.Register(domain.ProviderDedalus, func(cfg *config.ProviderConfig) (port.ProviderAdapter, error) {
		return NewAdapter(cfg), nil
	})
}
