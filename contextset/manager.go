package contextset

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"smartbar/config"
	"smartbar/model"
)

// Store persists transcripts per context set.
type Store interface {
	Save(ctx context.Context, set Set, transcript model.Transcript) error
	Load(ctx context.Context, set Set, primaryID string) (model.Transcript, model.Presentation, error)
}

// Conversation is the live transcript flushed before and restored after
// every transition.
type Conversation interface {
	Transcript() model.Transcript
	Restore(transcript model.Transcript, presentation model.Presentation)
}

// Listener is told about every installed set.
type Listener interface {
	ContextChanged(set Set, view View)
}

// Manager owns the active context set.
type Manager struct {
	store    Store
	conv     Conversation
	listener Listener

	// transition serializes flush/install/load sequences.
	transition sync.Mutex

	mu      sync.RWMutex
	set     Set
	primary Document
}

// NewManager creates a manager with an empty set. listener may be nil.
func NewManager(store Store, conv Conversation, listener Listener) *Manager {
	return &Manager{
		store:    store,
		conv:     conv,
		listener: listener,
	}
}

// Current returns the installed set.
func (m *Manager) Current() Set {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set
}

// Primary returns the active document, eligible or not.
func (m *Manager) Primary() Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.primary
}

// View returns the display aggregate of the installed set.
func (m *Manager) View() View {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return NewView(m.set, m.primary.ID)
}

// ResetToCurrent makes doc the active document and the set {doc}, or the
// empty set when doc is ineligible.
func (m *Manager) ResetToCurrent(ctx context.Context, doc Document) error {
	m.transition.Lock()
	defer m.transition.Unlock()

	next := NewSet()
	if Eligible(doc) {
		next = NewSet(doc)
	}
	return m.transitionTo(ctx, next, &doc)
}

// Add appends doc to the set. Ineligible or already-present documents are
// ignored without error.
func (m *Manager) Add(ctx context.Context, doc Document) error {
	m.transition.Lock()
	defer m.transition.Unlock()

	cur := m.Current()
	if !Eligible(doc) || cur.Contains(doc.ID) {
		return nil
	}
	return m.transitionTo(ctx, cur.With(doc), nil)
}

// Remove drops every member with id.
func (m *Manager) Remove(ctx context.Context, id string) error {
	m.transition.Lock()
	defer m.transition.Unlock()

	cur := m.Current()
	if !cur.Contains(id) {
		return nil
	}
	return m.transitionTo(ctx, cur.Without(id), nil)
}

// UpdateDocument refreshes title, url or favicon of a member in place of
// the old value. The cache key changes with it.
func (m *Manager) UpdateDocument(doc Document) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.primary.ID == doc.ID {
		m.primary = doc
	}
	if !m.set.Contains(doc.ID) {
		return
	}
	docs := m.set.Documents()
	for i := range docs {
		if docs[i].ID == doc.ID {
			docs[i] = doc
		}
	}
	m.set = NewSet(docs...)
}

// transitionTo flushes the outgoing set, installs next and loads its
// transcript. Store failures are logged and returned, but the new set is
// installed regardless so the host never sees a half-finished switch.
func (m *Manager) transitionTo(ctx context.Context, next Set, primary *Document) error {
	var errs []error

	outgoing := m.Current()
	if err := m.store.Save(ctx, outgoing, m.conv.Transcript()); err != nil {
		config.Log.Warn("saving transcript failed",
			zap.Strings("ids", outgoing.IDs()),
			zap.Error(err))
		errs = append(errs, fmt.Errorf("save transcript: %w", err))
	}

	m.mu.Lock()
	m.set = next
	if primary != nil {
		m.primary = *primary
	}
	primaryID := m.primary.ID
	m.mu.Unlock()

	transcript, presentation, err := m.store.Load(ctx, next, primaryID)
	if err != nil {
		config.Log.Warn("loading transcript failed",
			zap.Strings("ids", next.IDs()),
			zap.Error(err))
		errs = append(errs, fmt.Errorf("load transcript: %w", err))
		transcript, presentation = nil, model.PresentationResults
	}
	m.conv.Restore(transcript, presentation)

	config.Log.Debug("context set installed",
		zap.Int("members", next.Len()),
		zap.String("primary", primaryID),
		zap.Stringer("presentation", presentation))

	if m.listener != nil {
		m.listener.ContextChanged(next, NewView(next, primaryID))
	}
	return errors.Join(errs...)
}
