package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3.1:latest","size":42}]}`))
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.1:latest", req["model"])
		assert.Contains(t, req, "keep_alive")

		w.Header().Set("Content-Type", "application/x-ndjson")
		for _, line := range []string{
			`{"message":{"role":"assistant","content":"What "},"done":false}`,
			`{"message":{"role":"assistant","content":""},"done":false}`,
			`{"message":{"role":"assistant","content":"is this?"},"done":true}`,
		} {
			_, _ = w.Write([]byte(line + "\n"))
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClientDefaults(t *testing.T) {
	c, err := NewClient("", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, c.GetModel())
	assert.Equal(t, DefaultHost, c.BaseURL())

	_, err = NewClient("localhost", "")
	assert.Error(t, err)
}

func TestChatSkipsEmptyChunks(t *testing.T) {
	srv := fakeServer(t)
	c, err := NewClient(srv.URL, "")
	require.NoError(t, err)

	var chunks []string
	err = c.Chat(context.Background(), nil, func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"What ", "is this?"}, chunks)
}

func TestPing(t *testing.T) {
	srv := fakeServer(t)

	c, err := NewClient(srv.URL, "")
	require.NoError(t, err)
	assert.NoError(t, c.Ping(context.Background()))

	c.SetModel("mistral:7b")
	err = c.Ping(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "not installed"))
}
