package provider

import (
	"fmt"
	"sort"

	"claimequity/internal/config"
	"claimequity/internal/port"
)

// Factory creates a ProviderAdapter from a provider config.
type Factory func(cfg *config.ProviderConfig) (port.ProviderAdapter, error)

// registry of adapter factories, populated explicitly via Register.
var factories = map[string]Factory{}

// Register registers an adapter factory by provider name.
func Register(name string, factory Factory) {
	factories[name] = factory
}

// New creates the adapter registered under name.
func New(name string, cfg *config.ProviderConfig) (port.ProviderAdapter, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
	return factory(cfg)
}

// Registered returns the registered provider names in sorted order.
func Registered() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
