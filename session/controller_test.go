package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"smartbar/autocomplete"
	"smartbar/config"
	"smartbar/contextset"
	"smartbar/intent"
	"smartbar/model"
	"smartbar/provider/testutil"
	"smartbar/storage"
	"smartbar/suggest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeHost struct {
	mu            sync.Mutex
	intents       []intent.Type
	items         []suggest.Suggestion
	index         int
	views         []contextset.View
	presentations []model.Presentation
	transcript    model.Transcript
	requests      []Request
}

func (h *fakeHost) IntentChanged(_ string, t intent.Type) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.intents = append(h.intents, t)
}

func (h *fakeHost) SuggestionsChanged(items []suggest.Suggestion, index int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items, h.index = items, index
}

func (h *fakeHost) ContextChanged(view contextset.View) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.views = append(h.views, view)
}

func (h *fakeHost) PresentationChanged(p model.Presentation, _ model.Transcript) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.presentations = append(h.presentations, p)
}

func (h *fakeHost) ConversationUpdated(t model.Transcript, _ bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.transcript = t
}

func (h *fakeHost) Execute(req Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, req)
}

func (h *fakeHost) shown() ([]suggest.Suggestion, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.items, h.index
}

func (h *fakeHost) executed() []Request {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Request(nil), h.requests...)
}

type searchLog struct {
	mu      sync.Mutex
	queries []string
}

func (l *searchLog) RecordSearch(_ context.Context, q string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.queries = append(l.queries, q)
	return nil
}

func testConfig() *config.Config {
	cfg := &config.Config{Settings: *config.DefaultSettings()}
	cfg.Suggest.DebounceMS = 10
	cfg.Context.PageTextDelayMS = 10
	cfg.Prompts.PerMinute = 60000
	return cfg
}

var (
	goTab     = contextset.Document{ID: "tab-1", Title: "The Go Programming Language", URL: "https://go.dev/", Favicon: "go.ico"}
	bostonTab = contextset.Document{ID: "tab-2", Title: "Flights to Boston", URL: "https://kayak.com/boston", Favicon: "kayak.ico"}
)

type fixture struct {
	c        *Controller
	host     *fakeHost
	searches *searchLog
	ai       *testutil.MockProvider
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		host:     &fakeHost{index: -1},
		searches: &searchLog{},
		ai:       testutil.NewReplyProvider("What is Go?\nWho designed Go?"),
	}
	results := []autocomplete.Result{
		{Kind: autocomplete.KindQuery, Suggestion: "flights to boston"},
		{Kind: autocomplete.KindURL, URL: "https://kayak.com/"},
	}
	f.c = New(Deps{
		Config: testConfig(),
		Autocomplete: autocomplete.ProviderFunc(func(context.Context, autocomplete.Query) ([]autocomplete.Result, error) {
			return results, nil
		}),
		Searches: f.searches,
		AI:       f.ai,
		Store:    storage.NewChatStore(storage.NewMemoryBackend()),
		Host:     f.host,
	})
	t.Cleanup(f.c.Close)
	return f
}

func (f *fixture) waitForItems(t *testing.T) []suggest.Suggestion {
	t.Helper()
	require.Eventually(t, func() bool {
		items, _ := f.host.shown()
		return len(items) > 0
	}, time.Second, 5*time.Millisecond)
	items, _ := f.host.shown()
	return items
}

func TestTypingShowsSuggestions(t *testing.T) {
	f := newFixture(t)

	f.c.OnInputChanged("flights to boston")
	items := f.waitForItems(t)

	require.GreaterOrEqual(t, len(items), 2)
	assert.Equal(t, suggest.Suggestion{Text: "flights to boston", Type: intent.Search}, items[0])
	assert.Equal(t, suggest.Suggestion{Text: "flights to boston?", Type: intent.Chat}, items[1])

	f.host.mu.Lock()
	assert.Equal(t, []intent.Type{intent.Search}, f.host.intents)
	f.host.mu.Unlock()
}

func TestSelectSearchRecordsAndExecutes(t *testing.T) {
	f := newFixture(t)
	f.c.OnInputChanged("flights to boston")
	f.waitForItems(t)

	assert.Equal(t, 0, f.c.Down())
	require.NoError(t, f.c.SelectCurrent(context.Background()))

	assert.Equal(t, []Request{{Kind: RequestSearch, Text: "flights to boston"}}, f.host.executed())
	assert.Equal(t, []string{"flights to boston"}, f.searches.queries)
}

func TestSelectRawInput(t *testing.T) {
	f := newFixture(t)
	f.c.OnInputChanged("example.com")

	require.NoError(t, f.c.Select(context.Background(), -1))
	assert.Equal(t, []Request{{Kind: RequestNavigate, Text: "example.com"}}, f.host.executed())
}

func TestSelectOutOfRange(t *testing.T) {
	f := newFixture(t)
	assert.Error(t, f.c.Select(context.Background(), 3))
}

func TestSelectChatAsksConversation(t *testing.T) {
	f := newFixture(t)
	f.c.OnInputChanged("flights to boston")
	f.waitForItems(t)

	require.NoError(t, f.c.Select(context.Background(), 1))

	assert.Empty(t, f.host.executed())
	got := f.c.Transcript()
	require.Len(t, got, 2)
	assert.Equal(t, "flights to boston?", got[0].Content)

	f.host.mu.Lock()
	defer f.host.mu.Unlock()
	assert.Contains(t, f.host.presentations, model.PresentationConversation)
	assert.Len(t, f.host.transcript, 2)
}

func TestConversationFollowsDocuments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.c.OnDocumentSwitched(ctx, goTab))
	require.NoError(t, f.c.Ask(ctx, "what is go?"))
	require.Len(t, f.c.Transcript(), 2)

	require.NoError(t, f.c.OnDocumentSwitched(ctx, bostonTab))
	assert.True(t, f.c.Transcript().Empty())

	require.NoError(t, f.c.OnDocumentSwitched(ctx, goTab))
	got := f.c.Transcript()
	require.Len(t, got, 2)
	assert.Equal(t, "what is go?", got[0].Content)

	view := f.c.Context()
	assert.Equal(t, 1, view.Count())
	assert.Equal(t, goTab.ID, view.Primary.ID)
}

func TestContextAddAndRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.c.OnDocumentSwitched(ctx, goTab))
	require.NoError(t, f.c.ContextAdd(ctx, bostonTab))
	require.NoError(t, f.c.ContextAdd(ctx, contextset.Document{ID: "tab-3", URL: "about:config"}))

	view := f.c.Context()
	assert.Equal(t, 2, view.Count())
	assert.Equal(t, []string{"kayak.ico"}, view.Favicons)

	require.NoError(t, f.c.ContextRemove(ctx, bostonTab.ID))
	assert.Equal(t, 1, f.c.Context().Count())

	f.host.mu.Lock()
	defer f.host.mu.Unlock()
	require.NotEmpty(t, f.host.views)
	assert.Equal(t, 1, f.host.views[len(f.host.views)-1].Count())
}

func TestQuickPromptsAfterDocumentSwitch(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.c.OnDocumentSwitched(context.Background(), goTab))
	items := f.waitForItems(t)

	want := []suggest.Suggestion{
		{Text: "What is Go?", Type: intent.Chat},
		{Text: "Who designed Go?", Type: intent.Chat},
	}
	assert.Equal(t, want, items)
}

func TestRapidSwitchesRefreshOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.c.OnDocumentSwitched(ctx, bostonTab))
	require.NoError(t, f.c.OnDocumentSwitched(ctx, goTab))
	f.waitForItems(t)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 1, f.ai.ChatCalls(), "only the last document gets prompts")
}

func TestEscape(t *testing.T) {
	f := newFixture(t)
	f.c.OnInputChanged("flights")
	f.waitForItems(t)

	assert.Equal(t, suggest.EscapeClearInput, f.c.Escape())
	assert.Empty(t, f.c.Input())

	assert.Equal(t, suggest.EscapeHide, f.c.Escape())
	items, index := f.host.shown()
	assert.Empty(t, items)
	assert.Equal(t, -1, index)
}

func TestFlushPersistsTranscript(t *testing.T) {
	store := storage.NewChatStore(storage.NewMemoryBackend())
	c := New(Deps{
		Config:       testConfig(),
		Autocomplete: autocomplete.ProviderFunc(func(context.Context, autocomplete.Query) ([]autocomplete.Result, error) { return nil, nil }),
		AI:           testutil.NewReplyProvider("Hi."),
		Store:        store,
	})
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.OnDocumentSwitched(ctx, goTab))
	require.NoError(t, c.Ask(ctx, "hello?"))
	require.NoError(t, c.Flush(ctx))

	got, p, err := store.Load(ctx, contextset.NewSet(goTab), goTab.ID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, model.PresentationConversation, p)
}
