package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"smartbar/autocomplete"
	"smartbar/chat"
	"smartbar/config"
	"smartbar/contextset"
	"smartbar/intent"
	"smartbar/model"
	"smartbar/pagetext"
	"smartbar/promptcache"
	"smartbar/prompts"
	"smartbar/suggest"
)

// SearchRecorder remembers executed searches so they rank in later
// autocomplete results. autocomplete.History implements it.
type SearchRecorder interface {
	RecordSearch(ctx context.Context, query string) error
}

// Deps are the collaborators of a Controller. Autocomplete, Store and Host
// are required.
type Deps struct {
	Config       *config.Config
	Autocomplete autocomplete.Provider
	Searches     SearchRecorder
	AI           model.Provider
	Reader       pagetext.Reader
	Store        contextset.Store
	Host         Host
}

// Controller is the produced interface of the input bar core.
type Controller struct {
	cfg      *config.Config
	host     Host
	reader   pagetext.Reader
	searches SearchRecorder
	store    contextset.Store

	cache    *promptcache.Cache[[]suggest.Suggestion]
	agg      *suggest.Aggregator
	nav      *suggest.Navigator
	contexts *contextset.Manager
	conv     *chat.Conversation

	mu        sync.Mutex
	input     string
	pageTimer *time.Timer
	closed    bool
}

// New builds a controller and its components from deps.
func New(deps Deps) *Controller {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{Settings: *config.DefaultSettings()}
	}

	c := &Controller{
		cfg:      cfg,
		host:     deps.Host,
		reader:   deps.Reader,
		searches: deps.Searches,
		store:    deps.Store,
		cache:    promptcache.New[[]suggest.Suggestion](cfg.CacheTTL()),
		nav:      suggest.NewNavigator(),
	}
	c.conv = chat.New(deps.AI, c)
	c.contexts = contextset.NewManager(deps.Store, c.conv, c)

	var source suggest.PromptSource
	if deps.AI != nil {
		source = prompts.NewGenerator(deps.AI, deps.Reader, prompts.OptionsFromConfig(cfg))
	}
	c.agg = suggest.NewAggregator(deps.Autocomplete, source, c.cache, c.contexts, c,
		suggest.OptionsFromConfig(cfg))
	return c
}

// Classify returns the intent of text.
func (c *Controller) Classify(text string) intent.Type {
	return intent.Classify(text)
}

// OnInputChanged handles every edit of the input bar.
func (c *Controller) OnInputChanged(text string) {
	c.mu.Lock()
	c.input = text
	c.mu.Unlock()

	if strings.TrimSpace(text) != "" {
		c.nav.MarkEdited()
	}
	c.agg.OnInputChanged(text)
}

// Input returns the last input text.
func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// Select acts on row index, or on the raw input when index is -1. Chat
// entries are asked in the conversation; everything else is handed to the
// host as a Request.
func (c *Controller) Select(ctx context.Context, index int) error {
	var s suggest.Suggestion
	if index < 0 {
		text := strings.TrimSpace(c.Input())
		if text == "" {
			return nil
		}
		s = suggest.Suggestion{Text: text, Type: intent.Classify(text)}
	} else {
		items := c.nav.Items()
		if index >= len(items) {
			return fmt.Errorf("no suggestion at index %d", index)
		}
		s = items[index]
	}

	config.Log.Debug("suggestion selected",
		zap.Int("index", index),
		zap.String("type", string(s.Type)))

	switch s.Type {
	case intent.Chat:
		return c.Ask(ctx, s.Text)
	case intent.Search:
		if c.searches != nil {
			if err := c.searches.RecordSearch(ctx, s.Text); err != nil {
				config.Log.Warn("recording search failed", zap.Error(err))
			}
		}
		c.execute(Request{Kind: RequestSearch, Text: s.Text})
	case intent.Action:
		c.execute(Request{Kind: RequestAction, Text: s.Text})
	default:
		c.execute(Request{Kind: RequestNavigate, Text: s.Text})
	}
	return nil
}

// SelectCurrent acts on the highlighted row or the raw input.
func (c *Controller) SelectCurrent(ctx context.Context) error {
	return c.Select(ctx, c.nav.Index())
}

func (c *Controller) execute(req Request) {
	if c.host != nil {
		c.host.Execute(req)
	}
}

func (c *Controller) Down() int       { return c.moved(c.nav.Down()) }
func (c *Controller) Up() int         { return c.moved(c.nav.Up()) }
func (c *Controller) Hover(i int) int { return c.moved(c.nav.Hover(i)) }
func (c *Controller) MouseLeave() int { return c.moved(c.nav.MouseLeave()) }

func (c *Controller) moved(index int) int {
	if c.host != nil {
		c.host.SuggestionsChanged(c.nav.Items(), index)
	}
	return index
}

// Escape clears the input and re-shows quick prompts, or hides the list
// when the input is already empty.
func (c *Controller) Escape() suggest.EscapeResult {
	r := c.nav.Escape(strings.TrimSpace(c.Input()) == "")
	switch r {
	case suggest.EscapeClearInput:
		c.OnInputChanged("")
	case suggest.EscapeHide:
		c.moved(-1)
	}
	return r
}

// Ask streams an answer to question, grounded in the context set.
func (c *Controller) Ask(ctx context.Context, question string) error {
	description := prompts.Describe(ctx, c.reader, c.contexts.Current(), c.cfg.Context.PageTextLimit)
	return c.conv.Ask(ctx, question, prompts.ChatSystemPrompt(description))
}

// ContextAdd adds doc to the context set.
func (c *Controller) ContextAdd(ctx context.Context, doc contextset.Document) error {
	err := c.contexts.Add(ctx, doc)
	c.agg.RefreshQuickPrompts()
	return err
}

// ContextRemove drops the document with id from the context set.
func (c *Controller) ContextRemove(ctx context.Context, id string) error {
	err := c.contexts.Remove(ctx, id)
	c.agg.RefreshQuickPrompts()
	return err
}

// OnDocumentSwitched resets the context set to doc. Quick prompts are
// refreshed after the page-text delay; a newer switch replaces the wait.
func (c *Controller) OnDocumentSwitched(ctx context.Context, doc contextset.Document) error {
	err := c.contexts.ResetToCurrent(ctx, doc)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return err
	}
	if c.pageTimer != nil {
		c.pageTimer.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(c.cfg.PageTextDelay(), func() {
		c.mu.Lock()
		current := c.pageTimer == timer && !c.closed
		c.mu.Unlock()
		if current {
			c.agg.RefreshQuickPrompts()
		}
	})
	c.pageTimer = timer
	return err
}

// UpdateDocument refreshes a document's title, url or favicon.
func (c *Controller) UpdateDocument(doc contextset.Document) {
	c.contexts.UpdateDocument(doc)
	if c.host != nil {
		c.host.ContextChanged(c.contexts.View())
	}
}

// Context returns the display aggregate of the context set.
func (c *Controller) Context() contextset.View { return c.contexts.View() }

// Transcript returns the live conversation.
func (c *Controller) Transcript() model.Transcript { return c.conv.Transcript() }

// Flush saves the live transcript for the current context set.
func (c *Controller) Flush(ctx context.Context) error {
	return c.store.Save(ctx, c.contexts.Current(), c.conv.Transcript())
}

// Close stops timers and background work and drops cached prompts.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	if c.pageTimer != nil {
		c.pageTimer.Stop()
		c.pageTimer = nil
	}
	c.mu.Unlock()

	c.agg.Close()
	c.cache.Clear()
}

// IntentChanged implements suggest.Listener.
func (c *Controller) IntentChanged(text string, t intent.Type) {
	if c.host != nil {
		c.host.IntentChanged(text, t)
	}
}

// SuggestionsChanged implements suggest.Listener.
func (c *Controller) SuggestionsChanged(list []suggest.Suggestion, origin suggest.Origin) {
	c.nav.Show(list, c.agg.Edited())
	config.Log.Debug("suggestions shown",
		zap.Int("count", len(list)),
		zap.Stringer("origin", origin))
	c.moved(-1)
}

// ContextChanged implements contextset.Listener.
func (c *Controller) ContextChanged(_ contextset.Set, view contextset.View) {
	if c.host != nil {
		c.host.ContextChanged(view)
	}
}

// PresentationChanged implements chat.Listener.
func (c *Controller) PresentationChanged(p model.Presentation, transcript model.Transcript) {
	if c.host != nil {
		c.host.PresentationChanged(p, transcript)
	}
}

// ConversationUpdated implements chat.Listener.
func (c *Controller) ConversationUpdated(transcript model.Transcript, streaming bool) {
	if c.host != nil {
		c.host.ConversationUpdated(transcript, streaming)
	}
}
