package suggest

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"smartbar/autocomplete"
	"smartbar/config"
	"smartbar/contextset"
	"smartbar/intent"
	"smartbar/promptcache"
)

// Listener receives the aggregator's output. Calls are serialized and must
// not call back into the aggregator synchronously.
type Listener interface {
	IntentChanged(text string, t intent.Type)
	SuggestionsChanged(list []Suggestion, origin Origin)
}

// PromptSource generates quick prompts for a context set.
type PromptSource interface {
	Generate(ctx context.Context, set contextset.Set) ([]Suggestion, error)
}

// ContextSource supplies the active context set.
type ContextSource interface {
	Current() contextset.Set
}

// Options configures an Aggregator. Zero fields take defaults.
type Options struct {
	Debounce   time.Duration
	MaxResults int
	Policy     Policy
	// Timeout bounds each autocomplete query and prompt generation.
	Timeout time.Duration
}

// OptionsFromConfig maps the [suggest] settings.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Debounce:   cfg.Debounce(),
		MaxResults: cfg.Suggest.MaxResults,
		Policy: Policy{
			MaxSuggestions: cfg.Suggest.MaxSuggestions,
			FallbackDomain: cfg.Suggest.FallbackDomain,
		},
	}
}

// Aggregator merges the classifier, the autocomplete provider and quick
// prompts into one list.
//
// Every delivery is tagged with a request id taken when the work started;
// a result is delivered only while its id is still the latest, so a slow
// query can never overwrite a newer one or replace quick prompts shown
// after the input was cleared.
type Aggregator struct {
	provider autocomplete.Provider
	prompts  PromptSource
	cache    *promptcache.Cache[[]Suggestion]
	contexts ContextSource
	listener Listener
	opts     Options

	mu         sync.Mutex
	timer      *time.Timer
	timerToken uint64
	requestID  uint64
	text       string
	edited     bool
	closed     bool

	// emitMu orders deliveries; it is never held together with mu.
	emitMu sync.Mutex
	wg     sync.WaitGroup

	// ctx ends on Close and aborts in-flight queries and prompt waits.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewAggregator wires an aggregator. prompts may be nil, in which case the
// empty input shows no quick prompts.
func NewAggregator(
	provider autocomplete.Provider,
	prompts PromptSource,
	cache *promptcache.Cache[[]Suggestion],
	contexts ContextSource,
	listener Listener,
	opts Options,
) *Aggregator {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute
	}
	if cache == nil {
		cache = promptcache.New[[]Suggestion](promptcache.DefaultTTL)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Aggregator{
		ctx:      ctx,
		cancel:   cancel,
		provider: provider,
		prompts:  prompts,
		cache:    cache,
		contexts: contexts,
		listener: listener,
		opts:     opts,
	}
}

// OnInputChanged handles a new input value. Blank input shows quick prompts
// right away; anything else is classified now and queried after the
// debounce period.
func (a *Aggregator) OnInputChanged(text string) {
	query := strings.TrimSpace(text)

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.text = text
	a.stopTimerLocked()

	if query == "" {
		a.edited = false
		a.requestID++
		id := a.requestID
		a.mu.Unlock()

		a.showQuickPrompts(id)
		return
	}

	a.edited = true
	token := a.timerToken
	a.timer = time.AfterFunc(a.opts.Debounce, func() { a.fire(token, query) })
	a.mu.Unlock()

	a.listener.IntentChanged(query, intent.Classify(query))
}

// RefreshQuickPrompts re-shows quick prompts when the input is empty, for
// example after the context set changed.
func (a *Aggregator) RefreshQuickPrompts() {
	a.mu.Lock()
	if a.closed || strings.TrimSpace(a.text) != "" {
		a.mu.Unlock()
		return
	}
	a.requestID++
	id := a.requestID
	a.mu.Unlock()

	a.showQuickPrompts(id)
}

// Edited reports whether the user typed since quick prompts were shown.
func (a *Aggregator) Edited() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.edited
}

// Close stops the pending timer, discards in-flight results and waits for
// background work to finish.
func (a *Aggregator) Close() {
	a.mu.Lock()
	a.closed = true
	a.stopTimerLocked()
	a.requestID++
	a.mu.Unlock()

	a.cancel()
	a.wg.Wait()
}

// stopTimerLocked cancels the pending debounce. The token bump makes a
// callback that already started return without querying.
func (a *Aggregator) stopTimerLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.timerToken++
}

func (a *Aggregator) fire(token uint64, query string) {
	a.mu.Lock()
	if a.closed || token != a.timerToken {
		a.mu.Unlock()
		return
	}
	a.timer = nil
	a.requestID++
	id := a.requestID
	a.wg.Add(1)
	a.mu.Unlock()
	defer a.wg.Done()

	ctx, cancel := context.WithTimeout(a.ctx, a.opts.Timeout)
	defer cancel()

	list, origin := Once(ctx, a.provider, a.opts, query)
	a.deliver(id, list, origin)
}

// Once runs a single autocomplete query for query and ranks the result,
// degrading to the fallback list when the provider fails.
func Once(ctx context.Context, provider autocomplete.Provider, opts Options, query string) ([]Suggestion, Origin) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	results, err := provider.Search(ctx, autocomplete.Query{
		Text:          query,
		MaxResults:    maxResults,
		AllowAutofill: false,
	})
	if err != nil {
		config.Log.Warn("autocomplete query failed",
			zap.String("query", query),
			zap.Error(err))
		return opts.Policy.Fallback(query), OriginFallback
	}
	return opts.Policy.Rank(query, Map(results)), OriginLive
}

func (a *Aggregator) showQuickPrompts(id uint64) {
	var set contextset.Set
	if a.contexts != nil {
		set = a.contexts.Current()
	}
	if set.Empty() || a.prompts == nil {
		a.deliver(id, nil, OriginQuickPrompts)
		return
	}

	// The generation belongs to the shared cache, not to this aggregator,
	// so it is not tied to a.ctx.
	f := a.cache.GetOrStart(set.CacheKey(), func() ([]Suggestion, error) {
		ctx, cancel := context.WithTimeout(context.Background(), a.opts.Timeout)
		defer cancel()
		return a.prompts.Generate(ctx, set)
	})

	if f.Settled() {
		a.deliverPrompts(id, f)
		return
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.wg.Add(1)
	a.mu.Unlock()

	go func() {
		defer a.wg.Done()
		a.deliverPrompts(id, f)
	}()
}

func (a *Aggregator) deliverPrompts(id uint64, f *promptcache.Future[[]Suggestion]) {
	prompts, err := f.Wait(a.ctx)
	if err != nil {
		config.Log.Warn("quick prompt generation failed", zap.Error(err))
		prompts = nil
	}
	a.deliver(id, prompts, OriginQuickPrompts)
}

func (a *Aggregator) deliver(id uint64, list []Suggestion, origin Origin) {
	a.emitMu.Lock()
	defer a.emitMu.Unlock()

	a.mu.Lock()
	current := id == a.requestID && !a.closed
	a.mu.Unlock()
	if !current {
		config.Log.Debug("dropping stale suggestions",
			zap.Uint64("request", id),
			zap.Stringer("origin", origin))
		return
	}

	a.listener.SuggestionsChanged(list, origin)
}
