package provider

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartbar/model"
)

// pageChat is the shape every request takes: the page-context system
// prompt, earlier turns, then the new question.
var pageChat = []model.Message{
	{Role: model.RoleSystem, Content: "Answer using these documents.\n\n## Boston\nURL: https://boston.example\n"},
	{Role: model.RoleUser, Content: "What is the weather like?", Timestamp: time.Now()},
	{Role: model.RoleAssistant, Content: "Mild, around 15C."},
	{Role: model.RoleUser, Content: "And tomorrow?"},
}

func TestConvertToOllamaMessages(t *testing.T) {
	got := ConvertToOllamaMessages(pageChat)
	want := []api.Message{
		{Role: "system", Content: pageChat[0].Content},
		{Role: "user", Content: "What is the weather like?"},
		{Role: "assistant", Content: "Mild, around 15C."},
		{Role: "user", Content: "And tomorrow?"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ConvertToOllamaMessages() mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, ConvertToOllamaMessages(nil))
}

func TestConvertToOpenAIMessages(t *testing.T) {
	input := append(append([]model.Message(nil), pageChat...), model.Message{Role: "tool", Content: "unknown role"})

	got := ConvertToOpenAIMessages(input)
	require.Len(t, got, len(input))
	assert.NotNil(t, got[0].OfSystem)
	assert.NotNil(t, got[1].OfUser)
	assert.NotNil(t, got[2].OfAssistant)
	assert.NotNil(t, got[4].OfUser, "unknown roles are sent as user")
}

func TestConvertToAnthropicMessages(t *testing.T) {
	turns, system := convertToAnthropicMessages(pageChat)

	require.Len(t, system, 1)
	assert.Equal(t, pageChat[0].Content, system[0].Text)

	require.Len(t, turns, 3)
	roles := []string{string(turns[0].Role), string(turns[1].Role), string(turns[2].Role)}
	assert.Equal(t, []string{"user", "assistant", "user"}, roles)
}

func TestStripVendorPrefix(t *testing.T) {
	assert.Equal(t, "qwen3-coder:free", StripVendorPrefix("qwen/qwen3-coder:free"))
	assert.Equal(t, "gpt-4o-mini", StripVendorPrefix("gpt-4o-mini"))
}

func TestOpenRouterDisplayName(t *testing.T) {
	p, err := NewOpenRouterProvider("", "key", "")
	require.NoError(t, err)
	assert.Equal(t, defaultOpenRouterModel, p.GetModel())
	assert.Equal(t, "llama-3.2-90b-instruct", p.GetDisplayName())

	o, err := NewOpenAIProvider("", "key", "openai/gpt-4o")
	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-4o", o.GetDisplayName(), "OpenAI ids are shown as-is")

	_, err = NewOpenAIProvider("", "", "")
	assert.EqualError(t, err, "openai API key is required")
}
