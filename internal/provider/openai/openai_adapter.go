package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"claimequity/internal/config"
	"claimequity/internal/domain"
	"claimequity/internal/port"
	"claimequity/internal/provider"
)

// Adapter implements port.ProviderAdapter against any OpenAI-compatible chat
// completions API. It backs both the "openai" and "xai" providers; they differ
// only in base URL, model and supported capabilities.
type Adapter struct {
	name         string
	baseURL      string
	model        string
	maxTokens    int
	temperature  float32
	capabilities map[domain.Capability]bool
	httpClient   *http.Client
}

// NewAdapter creates an adapter named name from a provider config.
func NewAdapter(name string, cfg *config.ProviderConfig, capabilities ...domain.Capability) *Adapter {
	model := cfg.DefaultModel
	if model == "" {
		model = goopenai.GPT4oMini
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 500
	}
	caps := make(map[domain.Capability]bool, len(capabilities))
	for _, c := range capabilities {
		caps[c] = true
	}
	return &Adapter{
		name:         name,
		baseURL:      cfg.BaseURL,
		model:        model,
		maxTokens:    maxTokens,
		temperature:  cfg.Temperature,
		capabilities: caps,
		httpClient:   &http.Client{Timeout: cfg.Timeout()},
	}
}

func (a *Adapter) Name() string {
	return a.name
}

func (a *Adapter) Supports(capability domain.Capability) bool {
	return a.capabilities[capability]
}

func (a *Adapter) Invoke(ctx context.Context, capability domain.Capability, payload port.ProviderPayload, credential string) (*port.ProviderResult, error) {
	if !a.Supports(capability) {
		return nil, provider.NewError(provider.KindUnavailable, a.name, fmt.Errorf("capability %s not supported", capability))
	}
	if strings.TrimSpace(credential) == "" {
		return nil, provider.MissingCredential(a.name)
	}

	clientCfg := goopenai.DefaultConfig(credential)
	if a.baseURL != "" {
		clientCfg.BaseURL = a.baseURL
	}
	clientCfg.HTTPClient = a.httpClient
	client := goopenai.NewClientWithConfig(clientCfg)

	maxTokens := payload.MaxTokens
	if maxTokens == 0 {
		maxTokens = a.maxTokens
	}

	var messages []goopenai.ChatCompletionMessage
	if payload.System != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: payload.System,
		})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: payload.Prompt,
	})

	resp, err := client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       a.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: a.temperature,
	})
	if err != nil {
		return nil, a.classify(err)
	}

	if len(resp.Choices) == 0 {
		return nil, provider.NewError(provider.KindUnavailable, a.name, errors.New("empty response from API: no choices"))
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, provider.NewError(provider.KindUnavailable, a.name, errors.New("empty completion content"))
	}

	return &port.ProviderResult{
		Text:     text,
		Provider: a.name,
		Model:    a.model,
	}, nil
}

func (a *Adapter) classify(err error) *provider.Error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return provider.FromStatus(a.name, apiErr.HTTPStatusCode, nil, err)
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return provider.FromStatus(a.name, reqErr.HTTPStatusCode, nil, err)
	}
	return provider.FromTransport(a.name, err)
}

// Register registers the openai and xai factories.
func Register() {
	provider.Register(domain.ProviderOpenAI, func(cfg *config.ProviderConfig) (port.ProviderAdapter, error) {
		return NewAdapter(domain.ProviderOpenAI, cfg, domain.CapabilitySummarize, domain.CapabilityGenerate), nil
	})
	provider.Register(domain.ProviderXAI, func(cfg *config.ProviderConfig) (port.ProviderAdapter, error) {
		return NewAdapter(domain.ProviderXAI, cfg, domain.CapabilitySummarize, domain.CapabilityAnalyze), nil
	})
}
