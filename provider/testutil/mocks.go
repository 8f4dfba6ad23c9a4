// Package testutil holds a scriptable model.Provider for tests of the
// quick-prompt and conversation layers.
package testutil

import (
	"context"
	"sync"

	"smartbar/model"
)

// MockProvider implements model.Provider with replaceable funcs. It records
// every Chat request.
type MockProvider struct {
	ChatFunc       func(ctx context.Context, messages []model.Message, callback model.StreamCallback) error
	ListModelsFunc func(ctx context.Context) ([]model.ModelInfo, error)
	PingFunc       func(ctx context.Context) error

	mu       sync.Mutex
	model    string
	requests [][]model.Message
}

// NewMockProvider answers every non-empty request with "Mock response".
func NewMockProvider(modelName string) *MockProvider {
	m := &MockProvider{model: modelName}
	m.ChatFunc = func(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
		if len(messages) == 0 {
			return nil
		}
		return callback("Mock response")
	}
	m.ListModelsFunc = func(ctx context.Context) ([]model.ModelInfo, error) {
		return []model.ModelInfo{{Name: modelName, InternalName: modelName, Provider: "mock"}}, nil
	}
	m.PingFunc = func(ctx context.Context) error { return nil }
	return m
}

// NewReplyProvider streams chunks in order, stopping early if the
// callback or ctx says so.
func NewReplyProvider(chunks ...string) *MockProvider {
	m := NewMockProvider("mock-model")
	m.ChatFunc = func(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
		for _, c := range chunks {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := callback(c); err != nil {
				return err
			}
		}
		return nil
	}
	return m
}

// NewFailingProvider fails every Chat with err.
func NewFailingProvider(err error) *MockProvider {
	m := NewMockProvider("mock-model")
	m.ChatFunc = func(context.Context, []model.Message, model.StreamCallback) error { return err }
	return m
}

func (m *MockProvider) Chat(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
	m.mu.Lock()
	m.requests = append(m.requests, append([]model.Message(nil), messages...))
	m.mu.Unlock()
	return m.ChatFunc(ctx, messages, callback)
}

func (m *MockProvider) ChatCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// LastRequest returns the messages of the most recent Chat call.
func (m *MockProvider) LastRequest() []model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

func (m *MockProvider) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	return m.ListModelsFunc(ctx)
}

func (m *MockProvider) GetModel() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.model
}

func (m *MockProvider) GetDisplayName() string { return m.GetModel() }

func (m *MockProvider) SetModel(name string) {
	m.mu.Lock()
	m.model = name
	m.mu.Unlock()
}

func (m *MockProvider) Ping(ctx context.Context) error { return m.PingFunc(ctx) }
