package knot

import (
	"bytes"
	"context"
	"encoding/json"
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
	apiURL   = "https://api.knotapi.com/v1/transactions"
	merchant = "insurance_appeal_fee"
	currency = "USD"
)

// Adapter implements port.ProviderAdapter for Knot payment links. It only
// supports the payment capability. Params must carry "amount" as a decimal
// string and may carry "description". The payment link, when the API returns
// one, is in ProviderResult.Text and the full response in Raw.
type Adapter struct {
	endpoint string
	client   *http.Client
}

// NewAdapter creates a Knot adapter from a provider config.
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
	return domain.ProviderKnot
}

func (a *Adapter) Supports(capability domain.Capability) bool {
	return capability == domain.CapabilityPayment
}

type transactionRequest struct {
	Merchant    string      `json:"merchant"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	Currency    string      `json:"currency"`
}

func (a *Adapter) Invoke(ctx context.Context, capability domain.Capability, payload port.ProviderPayload, credential string) (*port.ProviderResult, error) {
	if !a.Supports(capability) {
		return nil, provider.NewError(provider.KindUnavailable, a.Name(), fmt.Errorf("capability %s not supported", capability))
	}
	if strings.TrimSpace(credential) == "" {
		return nil, provider.MissingCredential(a.Name())
	}

	bodyBytes, err := json.Marshal(transactionRequest{
		Merchant:    merchant,
		Amount:      json.Number(payload.Params["amount"]),
		Description: payload.Params["description"],
		Currency:    currency,
	})
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
		return nil, provider.FromTransport(a.Name(), fmt.Errorf("calling knot API: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, provider.FromTransport(a.Name(), fmt.Errorf("reading response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, provider.FromStatus(a.Name(), resp.StatusCode, resp.Header,
			fmt.Errorf("knot API error (status %d)", resp.StatusCode))
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, provider.NewError(provider.KindUnavailable, a.Name(), fmt.Errorf("unmarshaling response: %w", err))
	}
	link, _ := raw["link"].(string)
	return &port.ProviderResult{
		Text:     strings.TrimSpace(link),
		Provider: a.Name(),
		Raw:      raw,
	}, nil
}

// Register registers the knot factory.
func Register() {
	provider.Register(domain.ProviderKnot, func(cfg *config.ProviderConfig) (port.ProviderAdapter, error) {
		return NewAdapter(cfg), nil
	})
}
