package capitalone

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"claimequity/internal/config"
	"claimequity/internal/domain"
	"claimequity/internal/port"
	"claimequity/internal/provider"
)

const (
	apiURL = "https://api.capitalone.com/accounts/simulated"
)

// Adapter implements port.ProviderAdapter for the simulated account impact API.
// It only supports the financial capability and returns the provider's JSON
// object in ProviderResult.Raw.
type Adapter struct {
	endpoint string
	client   *http.Client
}

// NewAdapter creates a Capital One adapter from a provider config.
func NewAdapter(cfg *config.ProviderConfig) *Adapter {
	endpoint := cfg.BaseURL
	if endpoint == "" {
		endpoint = apiURL
	}
	return &Adapter{
		endpoint: endpoint,
		client:   &http.Client{Timeout: cfg.Timeout()},
	}
}

// NewAdapterWithEndpoint creates an adapter pointing at a custom API endpoint (for testing).
func NewAdapterWithEndpoint(cfg *config.ProviderConfig, endpoint string) *Adapter {
	a := NewAdapter(cfg)
	a.endpoint = endpoint
	return a
}

func (a *Adapter) Name() string {
	return domain.ProviderCapitalOne
}

func (a *Adapter) Supports(capability domain.Capability) bool {
	return capability == domain.CapabilityFinancial
}

func (a *Adapter) Invoke(ctx context.Context, capability domain.Capability, payload port.ProviderPayload, credential string) (*port.ProviderResult, error) {
	if !a.Supports(capability) {
		return nil, provider.NewError(provider.KindUnavailable, a.Name(), fmt.Errorf("capability %s not supported", capability))
	}
	if strings.TrimSpace(credential) == "" {
		return nil, provider.MissingCredential(a.Name())
	}

	u, err := url.Parse(a.endpoint)
	if err != nil {
		return nil, provider.NewError(provider.KindUnavailable, a.Name(), fmt.Errorf("parsing endpoint: %w", err))
	}
	q := u.Query()
	for k, v := range payload.Params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, provider.NewError(provider.KindUnavailable, a.Name(), fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, provider.FromTransport(a.Name(), fmt.Errorf("calling capital one API: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, provider.FromTransport(a.Name(), fmt.Errorf("reading response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, provider.FromStatus(a.Name(), resp.StatusCode, resp.Header,
			fmt.Errorf("capital one API error (status %d)", resp.StatusCode))
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, provider.NewError(provider.KindUnavailable, a.Name(), fmt.Errorf("unmarshaling response: %w", err))
	}
	return &port.ProviderResult{
		Provider: a.Name(),
		Raw:      raw,
	}, nil
}

// Register registers the capitalone factory.
func Register() {
	provider.Register(domain.ProviderCapitalOne, func(cfg *config.ProviderConfig) (port.ProviderAdapter, error) {
		return NewAdapter(cfg), nil
	})
}
