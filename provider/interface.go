// Package provider implements the AI engines behind quick prompts and page
// chat: Ollama, OpenAI, OpenRouter and Anthropic. Callers only see
// model.Provider; SDK types stay in this package.
package provider

import "errors"

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeOllama     ProviderType = "ollama"
	ProviderTypeOpenRouter ProviderType = "openrouter"
	ProviderTypeOpenAI     ProviderType = "openai"
	ProviderTypeAnthropic  ProviderType = "anthropic"
)

// ErrUnknownProvider is returned by NewProvider for an unrecognized type.
var ErrUnknownProvider = errors.New("unknown provider type")

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string // For OpenAI/Anthropic/OpenRouter (unused for Ollama)
}
