package amplitude

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
	apiURL = "https://api2.amplitude.com/2/httpapi"
	// anonymousUser is sent as user_id on every event; the service has no
	// user identity to report.
	anonymousUser = "anon"
)

// Adapter implements port.ProviderAdapter for the Amplitude HTTP V2 API. It
// only supports the track capability: payload.Event is the event type and
// payload.Params the event properties.
type Adapter struct {
	endpoint string
	client   *http.Client
}

// NewAdapter creates an Amplitude adapter from a provider config.
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
	return domain.ProviderAmplitude
}

func (a *Adapter) Supports(capability domain.Capability) bool {
	return capability == domain.CapabilityTrack
}

type event struct {
	UserID          string            `json:"user_id"`
	EventType       string            `json:"event_type"`
	EventProperties map[string]string `json:"event_properties"`
}

type uploadRequest struct {
	APIKey string  `json:"api_key"`
	Events []event `json:"events"`
}

func (a *Adapter) Invoke(ctx context.Context, capability domain.Capability, payload port.ProviderPayload, credential string) (*port.ProviderResult, error) {
	if !a.Supports(capability) {
		return nil, provider.NewError(provider.KindUnavailable, a.Name(), fmt.Errorf("capability %s not supported", capability))
	}
	if strings.TrimSpace(credential) == "" {
		return nil, provider.MissingCredential(a.Name())
	}
	if payload.Event == "" {
		return nil, provider.NewError(provider.KindUnavailable, a.Name(), errors.New("event type is required"))
	}

	props := payload.Params
	if props == nil {
		props = map[string]string{}
	}
	bodyBytes, err := json.Marshal(uploadRequest{
		APIKey: credential,
		Events: []event{{UserID: anonymousUser, EventType: payload.Event, EventProperties: props}},
	})
	if err != nil {
		return nil, provider.NewError(provider.KindUnavailable, a.Name(), fmt.Errorf("marshaling request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, provider.NewError(provider.KindUnavailable, a.Name(), fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, provider.FromTransport(a.Name(), fmt.Errorf("calling amplitude API: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	// The body is only a status summary.
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, provider.FromStatus(a.Name(), resp.StatusCode, resp.Header,
			fmt.Errorf("amplitude API error (status %d)", resp.StatusCode))
	}
	return &port.ProviderResult{Provider: a.Name()}, nil
}

// Register registers the amplitude factory.
func Register() {
	provider.Register(domain.ProviderAmplitude, func(cfg *config.ProviderConfig) (port.ProviderAdapter, error) {
		return NewAdapter(cfg), nil
	})
}
