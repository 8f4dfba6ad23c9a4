package model

import (
	"context"
	"fmt"
	"strings"
)

// Provider is an AI engine that streams text. It lives in model so prompts
// and chat can depend on it without importing the provider package.
type Provider interface {
	// Chat streams the reply to messages through callback.
	Chat(ctx context.Context, messages []Message, callback StreamCallback) error

	ListModels(ctx context.Context) ([]ModelInfo, error)

	// GetModel is the API model id.
	GetModel() string

	// GetDisplayName is the id shown in the footer.
	GetDisplayName() string

	SetModel(model string)

	// Ping checks reachability and credentials.
	Ping(ctx context.Context) error
}

// StreamCallback is called for each chunk of streamed response.
// Returning an error aborts the stream.
type StreamCallback func(chunk string) error

// ModelInfo describes a model offered by a provider.
type ModelInfo struct {
	Name         string // Display name (stripped for OpenRouter)
	Size         int64
	Provider     string // Provider ID: "ollama", "openrouter", "anthropic", "openai"
	InternalName string // Full API name (e.g., "meta-llama/llama-3.2-90b" for OpenRouter)
}

// Complete runs a non-streaming generation by concatenating every chunk.
func Complete(ctx context.Context, p Provider, messages []Message) (string, error) {
	if p == nil {
		return "", fmt.Errorf("no AI provider configured")
	}

	var sb strings.Builder
	err := p.Chat(ctx, messages, func(chunk string) error {
		sb.WriteString(chunk)
		return nil
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
