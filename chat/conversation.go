// Package chat holds the live conversation shown when the user asks a
// question instead of navigating or searching.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"smartbar/config"
	"smartbar/model"
)

// ErrBusy is returned by Ask while a reply is still streaming.
var ErrBusy = errors.New("a reply is already streaming")

// errReplaced aborts a stream whose transcript was replaced by Restore.
var errReplaced = errors.New("transcript replaced")

// Listener is told about presentation switches and transcript updates.
// Calls are made without internal locks held.
type Listener interface {
	PresentationChanged(p model.Presentation, transcript model.Transcript)
	ConversationUpdated(transcript model.Transcript, streaming bool)
}

// Conversation is the live transcript. It satisfies contextset.Conversation
// so the context manager can flush and restore it on every transition.
type Conversation struct {
	provider model.Provider
	listener Listener

	mu           sync.Mutex
	transcript   model.Transcript
	presentation model.Presentation
	generation   uint64
	streaming    bool
}

// New creates an empty conversation. provider and listener may be nil; a
// nil provider makes every Ask end in an inline error.
func New(provider model.Provider, listener Listener) *Conversation {
	return &Conversation{provider: provider, listener: listener}
}

// SetProvider swaps the AI engine for later Asks.
func (c *Conversation) SetProvider(p model.Provider) {
	c.mu.Lock()
	c.provider = p
	c.mu.Unlock()
}

func (c *Conversation) Transcript() model.Transcript {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript.Clone()
}

func (c *Conversation) Presentation() model.Presentation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.presentation
}

// Streaming reports whether a reply is in progress.
func (c *Conversation) Streaming() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.streaming
}

// Restore replaces the transcript, abandoning any reply in progress.
func (c *Conversation) Restore(transcript model.Transcript, p model.Presentation) {
	c.mu.Lock()
	c.generation++
	c.transcript = transcript.Clone()
	c.presentation = p
	c.streaming = false
	snapshot := c.transcript.Clone()
	c.mu.Unlock()

	if c.listener != nil {
		c.listener.PresentationChanged(p, snapshot)
	}
}

// Ask appends question and streams the reply into the transcript. A
// failure is appended to the reply as "Error: ..." and also returned.
func (c *Conversation) Ask(ctx context.Context, question, system string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil
	}

	c.mu.Lock()
	if c.streaming {
		c.mu.Unlock()
		return ErrBusy
	}
	c.generation++
	gen := c.generation
	provider := c.provider

	history := c.transcript.Clone()
	now := time.Now()
	c.transcript = append(c.transcript,
		model.Message{Role: model.RoleUser, Content: question, Timestamp: now},
		model.Message{Role: model.RoleAssistant, Timestamp: now},
	)
	switched := c.presentation != model.PresentationConversation
	c.presentation = model.PresentationConversation
	c.streaming = true
	snapshot := c.transcript.Clone()
	c.mu.Unlock()

	if c.listener != nil {
		if switched {
			c.listener.PresentationChanged(model.PresentationConversation, snapshot)
		}
		c.listener.ConversationUpdated(snapshot, true)
	}

	messages := requestMessages(system, history, question, now)

	var err error
	if provider == nil {
		err = fmt.Errorf("no AI provider configured")
	} else {
		err = provider.Chat(ctx, messages, func(chunk string) error {
			snap, ok := c.appendReply(gen, chunk)
			if !ok {
				return errReplaced
			}
			if c.listener != nil {
				c.listener.ConversationUpdated(snap, true)
			}
			return nil
		})
	}

	if errors.Is(err, errReplaced) {
		return nil
	}
	if err != nil {
		config.Log.Warn("chat request failed",
			zap.String("model", modelName(provider)),
			zap.Error(err))
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		last := &c.transcript[len(c.transcript)-1]
		if last.Content != "" {
			last.Content += "\n\n"
		}
		last.Content += "Error: " + err.Error()
	}
	c.streaming = false
	snapshot = c.transcript.Clone()
	c.mu.Unlock()

	if c.listener != nil {
		c.listener.ConversationUpdated(snapshot, false)
	}
	return err
}

func (c *Conversation) appendReply(gen uint64, chunk string) (model.Transcript, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return nil, false
	}
	c.transcript[len(c.transcript)-1].Content += chunk
	return c.transcript.Clone(), true
}

func requestMessages(system string, history model.Transcript, question string, now time.Time) []model.Message {
	messages := make([]model.Message, 0, len(history)+2)
	if system != "" {
		messages = append(messages, model.Message{Role: model.RoleSystem, Content: system, Timestamp: now})
	}
	for _, m := range history {
		// abandoned replies
		if m.Role == model.RoleAssistant && m.Content == "" {
			continue
		}
		messages = append(messages, m)
	}
	return append(messages, model.Message{Role: model.RoleUser, Content: question, Timestamp: now})
}

func modelName(p model.Provider) string {
	if p == nil {
		return ""
	}
	return p.GetModel()
}
