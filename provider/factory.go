package provider

import (
	"fmt"

	"smartbar/model"
)

// providerAliases maps settings.toml provider ids to engine types.
var providerAliases = map[string]ProviderType{
	"ollama":     ProviderTypeOllama,
	"openrouter": ProviderTypeOpenRouter,
	"openai":     ProviderTypeOpenAI,
	"anthropic":  ProviderTypeAnthropic,
	"claude":     ProviderTypeAnthropic,
}

// NewProvider builds the engine named by cfg.Type. Unknown types wrap
// ErrUnknownProvider; constructor failures (bad URL, missing key) are
// returned as is.
func NewProvider(cfg Config) (model.Provider, error) {
	switch cfg.Type {
	case ProviderTypeOllama:
		return NewOllamaProvider(cfg.BaseURL, cfg.Model)
	case ProviderTypeOpenRouter:
		return NewOpenRouterProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeOpenAI:
		return NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeAnthropic:
		return NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Type)
}

// MapProviderIDToType resolves a provider id. Unknown ids pass through so
// NewProvider can report them.
func MapProviderIDToType(id string) ProviderType {
	if t, ok := providerAliases[id]; ok {
		return t
	}
	return ProviderType(id)
}
