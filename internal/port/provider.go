package port

import (
	"context"

	"claimequity/internal/domain"
)

// ProviderPayload is the capability-neutral input for one provider call.
type ProviderPayload struct {
	System    string
	Prompt    string
	MaxTokens int
	// Params carries capability-specific values (for example the claim amount
	// for a financial lookup, or event properties for tracking).
	Params map[string]string
	// Event names the analytics event for the track capability.
	Event string
}

// ProviderResult is the text produced by one provider call.
type ProviderResult struct {
	Text     string
	Provider string
	Model    string
	// Raw holds a structured response for pass-through capabilities.
	Raw map[string]interface{}
}

// ProviderAdapter wraps exactly one external AI/ML provider behind a uniform
// contract. Implementations make at most one outbound call per Invoke and
// never retry; failures are reported as *provider.Error.
type ProviderAdapter interface {
	Name() string
	Supports(capability domain.Capability) bool
	Invoke(ctx context.Context, capability domain.Capability, payload ProviderPayload, credential string) (*ProviderResult, error)
}
