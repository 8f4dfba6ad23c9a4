package provider

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"smartbar/model"
)

const (
	defaultAnthropicURL = "https://api.anthropic.com"
	// Quick prompts and page answers are short; the API requires a cap.
	anthropicMaxTokens = 1024
)

// anthropicModels are the models offered in the picker. The API has no
// list endpoint we rely on.
var anthropicModels = []anthropic.Model{
	anthropic.ModelClaudeSonnet4_5_20250929,
	anthropic.ModelClaude3_5Haiku20241022,
	anthropic.ModelClaude_3_Haiku_20240307,
}

// AnthropicProvider streams replies from the Messages API.
type AnthropicProvider struct {
	client anthropic.Client
	model  anthropic.Model
}

func NewAnthropicProvider(baseURL, apiKey, modelName string) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if baseURL == "" {
		baseURL = defaultAnthropicURL
	}
	m := anthropicModels[0]
	if modelName != "" {
		m = anthropic.Model(modelName)
	}
	return &AnthropicProvider{
		client: anthropic.NewClient(option.WithBaseURL(baseURL), option.WithAPIKey(apiKey)),
		model:  m,
	}, nil
}

func (p *AnthropicProvider) Chat(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
	turns, system := convertToAnthropicMessages(messages)
	params := anthropic.MessageNewParams{
		Model:     p.model,
		Messages:  turns,
		MaxTokens: anthropicMaxTokens,
		System:    system,
	}

	stream := p.client.Messages.NewStreaming(ctx, params)
	defer stream.Close()

	for stream.Next() {
		delta, ok := stream.Current().AsAny().(anthropic.ContentBlockDeltaEvent)
		if !ok {
			continue
		}
		text, ok := delta.Delta.AsAny().(anthropic.TextDelta)
		if !ok || text.Text == "" || callback == nil {
			continue
		}
		if err := callback(text.Text); err != nil {
			return err
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("anthropic stream: %w", err)
	}
	return nil
}

func (p *AnthropicProvider) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	out := make([]model.ModelInfo, len(anthropicModels))
	for i, m := range anthropicModels {
		out[i] = model.ModelInfo{Name: string(m), InternalName: string(m), Provider: "anthropic"}
	}
	return out, nil
}

func (p *AnthropicProvider) GetModel() string { return string(p.model) }

func (p *AnthropicProvider) GetDisplayName() string { return string(p.model) }

func (p *AnthropicProvider) SetModel(name string) { p.model = anthropic.Model(name) }

// Ping sends a one-token request.
func (p *AnthropicProvider) Ping(ctx context.Context) error {
	_, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 1,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock("ping"))},
	})
	if err != nil {
		return fmt.Errorf("anthropic ping: %w", err)
	}
	return nil
}

// convertToAnthropicMessages splits system messages out into the separate
// system parameter. Everything that is not assistant is sent as user.
func convertToAnthropicMessages(messages []model.Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var system []anthropic.TextBlockParam
	turns := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		block := anthropic.NewTextBlock(msg.Content)
		switch msg.Role {
		case model.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case model.RoleAssistant:
			turns = append(turns, anthropic.NewAssistantMessage(block))
		default:
			turns = append(turns, anthropic.NewUserMessage(block))
		}
	}
	return turns, system
}
