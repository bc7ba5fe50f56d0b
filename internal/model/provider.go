package model

import (
	"fmt"
	"strings"
)

// Provider is the LLM API provider.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderOllama    Provider = "ollama"
	ProviderGemini    Provider = "gemini"
	// ProviderFake answers locally with a canned breakdown, no network involved.
	ProviderFake Provider = "fake"

	DefaultProvider = ProviderOpenAI
)

// Providers returns all the supported providers.
func Providers() []Provider {
	return []Provider{ProviderOpenAI, ProviderAnthropic, ProviderOllama, ProviderGemini, ProviderFake}
}

// ParseProvider parses a provider name.
func ParseProvider(s string) (Provider, error) {
	for _, p := range Providers() {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unsupported provider %q: %w", s, ErrNotValid)
}

// DefaultModel returns the model identifier used when none is configured.
func (p Provider) DefaultModel() string {
	switch p {
	case ProviderOpenAI:
		return "gpt-4"
	case ProviderAnthropic:
		return "claude-3-5-sonnet-latest"
	case ProviderOllama:
		return "llama3.1"
	case ProviderGemini:
		return "gemini-1.5-flash"
	case ProviderFake:
		return "fake"
	}
	return ""
}

// RequiresAPIKey returns true if the provider can't be called without an API key.
func (p Provider) RequiresAPIKey() bool {
	return p != ProviderOllama && p != ProviderFake
}

// APIKeyEnvVar returns the conventional environment variable holding the
// provider API key, empty if there is none.
func (p Provider) APIKeyEnvVar() string {
	switch p {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	}
	return ""
}
