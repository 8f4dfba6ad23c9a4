package provider

import (
	"context"
	"fmt"

	"smartbar/model"
	"smartbar/ollama"
)

// OllamaProvider is the local engine, the default for quick prompts.
type OllamaProvider struct {
	client *ollama.Client
}

// NewOllamaProvider falls back to ollama.DefaultHost and ollama.DefaultModel.
func NewOllamaProvider(baseURL, model string) (*OllamaProvider, error) {
	client, err := ollama.NewClient(baseURL, model)
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}

	return &OllamaProvider{
		client: client,
	}, nil
}

func (p *OllamaProvider) Chat(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
	return p.client.Chat(ctx, ConvertToOllamaMessages(messages), ollama.StreamCallback(callback))
}

func (p *OllamaProvider) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	models, err := p.client.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]model.ModelInfo, len(models))
	for i, m := range models {
		result[i] = model.ModelInfo{
			Name:         m.Name,
			Size:         m.Size,
			Provider:     "ollama",
			InternalName: m.Name,
		}
	}
	return result, nil
}

func (p *OllamaProvider) GetModel() string {
	return p.client.GetModel()
}

func (p *OllamaProvider) GetDisplayName() string {
	return p.client.GetModel()
}

func (p *OllamaProvider) SetModel(model string) {
	p.client.SetModel(model)
}

// Ping also fails when the configured model is not pulled.
func (p *OllamaProvider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}
