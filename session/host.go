// Package session wires the classifier, suggestion aggregator, context
// manager, prompt generator and conversation into the single surface a host
// shell talks to.
package session

import (
	"smartbar/contextset"
	"smartbar/intent"
	"smartbar/model"
	"smartbar/suggest"
)

// RequestKind says what the host should do with a selected entry.
type RequestKind int

const (
	RequestNavigate RequestKind = iota
	RequestSearch
	RequestAction
)

func (k RequestKind) String() string {
	switch k {
	case RequestNavigate:
		return "navigate"
	case RequestSearch:
		return "search"
	case RequestAction:
		return "action"
	default:
		return "unknown"
	}
}

// Request is a navigation, search or browser action the host executes.
// The core never performs these itself.
type Request struct {
	Kind RequestKind
	Text string
}

// Host is the shell around the input bar. Callbacks may arrive from
// background goroutines; implementations must be safe for that.
type Host interface {
	IntentChanged(text string, t intent.Type)
	SuggestionsChanged(items []suggest.Suggestion, index int)
	ContextChanged(view contextset.View)
	PresentationChanged(p model.Presentation, transcript model.Transcript)
	ConversationUpdated(transcript model.Transcript, streaming bool)
	Execute(req Request)
}
