package provider

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"smartbar/config"
	"smartbar/model"
)

// FromConfig creates the provider selected in the [provider] settings.
//
// Quick prompts and conversations degrade gracefully without a provider, so
// callers usually log the error and continue with a nil provider rather than
// refusing to start.
func FromConfig(cfg *config.Config) (model.Provider, error) {
	providerType := MapProviderIDToType(cfg.Provider.ID)

	p, err := NewProvider(Config{
		Type:    providerType,
		BaseURL: cfg.Provider.BaseURL,
		APIKey:  cfg.Provider.APIKey,
		Model:   cfg.Provider.Model,
	})
	if err != nil {
		config.Log.Warn("provider initialization failed",
			zap.String("provider", cfg.Provider.ID),
			zap.Error(err))
		return nil, err
	}

	config.Log.Debug("provider initialized",
		zap.String("provider", cfg.Provider.ID),
		zap.String("type", string(providerType)),
		zap.String("model", p.GetModel()))

	return p, nil
}

// Validate creates the configured provider and pings it.
func Validate(ctx context.Context, cfg *config.Config) (model.Provider, error) {
	p, err := FromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	if err := p.Ping(ctx); err != nil {
		return nil, fmt.Errorf("connection failed: %w", err)
	}

	config.Log.Debug("provider ping successful", zap.String("provider", cfg.Provider.ID))
	return p, nil
}
