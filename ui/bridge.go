package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"smartbar/contextset"
	"smartbar/intent"
	"smartbar/model"
	"smartbar/session"
	"smartbar/suggest"
)

type intentMsg struct {
	text string
	t    intent.Type
}

type suggestionsMsg struct {
	items []suggest.Suggestion
	index int
}

type contextMsg struct {
	view contextset.View
}

type presentationMsg struct {
	p          model.Presentation
	transcript model.Transcript
}

type conversationMsg struct {
	transcript model.Transcript
	streaming  bool
}

type executeMsg struct {
	req session.Request
}

// hostEventsMsg carries every event queued since the last read.
type hostEventsMsg []tea.Msg

// Bridge implements session.Host by queueing callbacks for the bubbletea
// loop. Callbacks arrive on arbitrary goroutines, including from inside
// Update, so pushing never blocks.
type Bridge struct {
	mu     sync.Mutex
	queue  []tea.Msg
	notify chan struct{}
	done   chan struct{}
	once   sync.Once
}

func NewBridge() *Bridge {
	return &Bridge{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (b *Bridge) push(msg tea.Msg) {
	b.mu.Lock()
	b.queue = append(b.queue, msg)
	b.mu.Unlock()

	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// Wait returns a command that delivers the next batch of events.
func (b *Bridge) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-b.notify:
		case <-b.done:
			return nil
		}
		b.mu.Lock()
		batch := b.queue
		b.queue = nil
		b.mu.Unlock()
		return hostEventsMsg(batch)
	}
}

// Close releases a pending Wait.
func (b *Bridge) Close() {
	b.once.Do(func() { close(b.done) })
}

func (b *Bridge) IntentChanged(text string, t intent.Type) {
	b.push(intentMsg{text: text, t: t})
}

func (b *Bridge) SuggestionsChanged(items []suggest.Suggestion, index int) {
	b.push(suggestionsMsg{items: items, index: index})
}

func (b *Bridge) ContextChanged(view contextset.View) {
	b.push(contextMsg{view: view})
}

func (b *Bridge) PresentationChanged(p model.Presentation, transcript model.Transcript) {
	b.push(presentationMsg{p: p, transcript: transcript})
}

func (b *Bridge) ConversationUpdated(transcript model.Transcript, streaming bool) {
	b.push(conversationMsg{transcript: transcript, streaming: streaming})
}

func (b *Bridge) Execute(req session.Request) {
	b.push(executeMsg{req: req})
}
