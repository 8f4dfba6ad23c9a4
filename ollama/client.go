// Package ollama is the local engine behind quick prompts and page chat.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
)

const (
	DefaultHost  = "http://localhost:11434"
	DefaultModel = "llama3.1:latest"

	pingTimeout = 5 * time.Second
	// keepAlive holds the model in memory between keystrokes so the next
	// quick-prompt request does not pay the load again.
	keepAlive = 10 * time.Minute
)

// StreamCallback receives each non-empty content chunk.
type StreamCallback func(chunk string) error

// Client streams chat replies from one Ollama server and model.
type Client struct {
	api     *api.Client
	host    *url.URL
	model   string
	options map[string]any
}

// NewClient parses host and falls back to DefaultHost and DefaultModel.
func NewClient(host, model string) (*Client, error) {
	if host == "" {
		host = DefaultHost
	}
	if model == "" {
		model = DefaultModel
	}
	u, err := url.Parse(host)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid Ollama URL %q", host)
	}
	return &Client{
		api:   api.NewClient(u, http.DefaultClient),
		host:  u,
		model: model,
	}, nil
}

// SetOptions sets model options (temperature, num_predict, ...) sent
// with every request.
func (c *Client) SetOptions(opts map[string]any) {
	c.options = opts
}

func (c *Client) Chat(ctx context.Context, messages []api.Message, callback StreamCallback) error {
	stream := true
	req := &api.ChatRequest{
		Model:     c.model,
		Messages:  messages,
		Stream:    &stream,
		Options:   c.options,
		KeepAlive: &api.Duration{Duration: keepAlive},
	}
	return c.api.Chat(ctx, req, func(resp api.ChatResponse) error {
		if callback == nil || resp.Message.Content == "" {
			return nil
		}
		return callback(resp.Message.Content)
	})
}

// ModelInfo is one locally installed model.
type ModelInfo struct {
	Name string
	Size int64
}

func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	resp, err := c.api.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list Ollama models at %s: %w", c.host, err)
	}
	out := make([]ModelInfo, 0, len(resp.Models))
	for _, m := range resp.Models {
		out = append(out, ModelInfo{Name: m.Name, Size: m.Size})
	}
	return out, nil
}

func (c *Client) SetModel(model string) { c.model = model }

func (c *Client) GetModel() string { return c.model }

func (c *Client) BaseURL() string { return c.host.String() }

// Ping checks that the server answers and the configured model is installed.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	models, err := c.ListModels(ctx)
	if err != nil {
		return err
	}
	for _, m := range models {
		if m.Name == c.model {
			return nil
		}
	}
	return fmt.Errorf("model %q is not installed on %s", c.model, c.host)
}
