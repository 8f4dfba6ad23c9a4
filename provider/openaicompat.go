package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"smartbar/model"
)

const (
	defaultOpenAIURL       = "https://api.openai.com/v1"
	defaultOpenAIModel     = "gpt-4o-mini"
	defaultOpenRouterURL   = "https://openrouter.ai/api/v1"
	defaultOpenRouterModel = "meta-llama/llama-3.2-90b-instruct"

	// OpenRouter attributes traffic by these headers.
	openRouterReferer = "https://github.com/smartbar/smartbar"
	openRouterTitle   = "smartbar"
)

// compatProvider talks to any OpenAI-compatible chat completions endpoint.
type compatProvider struct {
	client openai.Client
	model  string
	vendor string // provider id reported in ModelInfo and errors
	// short strips "vendor/" from model ids for display.
	short bool
}

func newCompat(vendor, baseURL, apiKey, modelName string, extra ...option.RequestOption) (compatProvider, error) {
	if apiKey == "" {
		return compatProvider{}, fmt.Errorf("%s API key is required", vendor)
	}
	opts := append([]option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	}, extra...)
	return compatProvider{
		client: openai.NewClient(opts...),
		model:  modelName,
		vendor: vendor,
	}, nil
}

// Chat streams a chat completion, forwarding non-empty content deltas.
func (p *compatProvider) Chat(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
	stream := p.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Messages: ConvertToOpenAIMessages(messages),
		Model:    openai.ChatModel(p.model),
	})
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		text := chunk.Choices[0].Delta.Content
		if text == "" || callback == nil {
			continue
		}
		if err := callback(text); err != nil {
			return err
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("%s stream: %w", p.vendor, err)
	}
	return nil
}

func (p *compatProvider) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	page, err := p.client.Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s models: %w", p.vendor, err)
	}
	out := make([]model.ModelInfo, 0, len(page.Data))
	for _, m := range page.Data {
		out = append(out, model.ModelInfo{
			Name:         p.display(m.ID),
			InternalName: m.ID,
			Provider:     p.vendor,
		})
	}
	return out, nil
}

func (p *compatProvider) GetModel() string { return p.model }

func (p *compatProvider) GetDisplayName() string { return p.display(p.model) }

func (p *compatProvider) SetModel(name string) { p.model = name }

// Ping lists models, which checks both reachability and the key.
func (p *compatProvider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx); err != nil {
		return fmt.Errorf("%s ping: %w", p.vendor, err)
	}
	return nil
}

func (p *compatProvider) display(id string) string {
	if p.short {
		return StripVendorPrefix(id)
	}
	return id
}

// OpenAIProvider streams replies from the OpenAI API.
type OpenAIProvider struct {
	compatProvider
}

// NewOpenAIProvider defaults baseURL to api.openai.com and model to
// gpt-4o-mini. apiKey is required.
func NewOpenAIProvider(baseURL, apiKey, modelName string) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = defaultOpenAIURL
	}
	if modelName == "" {
		modelName = defaultOpenAIModel
	}
	c, err := newCompat("openai", baseURL, apiKey, modelName)
	if err != nil {
		return nil, err
	}
	return &OpenAIProvider{c}, nil
}

// OpenRouterProvider streams replies through OpenRouter. Model ids carry a
// vendor prefix ("qwen/...") that is hidden in the UI.
type OpenRouterProvider struct {
	compatProvider
}

func NewOpenRouterProvider(baseURL, apiKey, modelName string) (*OpenRouterProvider, error) {
	if baseURL == "" {
		baseURL = defaultOpenRouterURL
	}
	if modelName == "" {
		modelName = defaultOpenRouterModel
	}
	c, err := newCompat("openrouter", baseURL, apiKey, modelName,
		option.WithHeader("HTTP-Referer", openRouterReferer),
		option.WithHeader("X-Title", openRouterTitle),
	)
	if err != nil {
		return nil, err
	}
	c.short = true
	return &OpenRouterProvider{c}, nil
}

// StripVendorPrefix turns "qwen/qwen3-coder:free" into "qwen3-coder:free".
func StripVendorPrefix(modelID string) string {
	if _, after, ok := strings.Cut(modelID, "/"); ok {
		return after
	}
	return modelID
}
