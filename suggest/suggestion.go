// Package suggest turns input bar text into a ranked suggestion list.
//
// The Aggregator classifies every keystroke synchronously, debounces the
// autocomplete query, and shows AI quick prompts for the context set when
// the input is empty. Rank and Fallback hold the exact merge policy; the
// Navigator tracks keyboard and mouse selection over the shown list.
package suggest

import (
	"time"

	"smartbar/intent"
)

// Suggestion is one row of the list. Two suggestions are the same row
// when their Text is equal.
type Suggestion struct {
	Text string      `json:"text"`
	Type intent.Type `json:"type"`
}

const (
	// DefaultDebounce is the quiet period before an autocomplete query fires.
	DefaultDebounce = 50 * time.Millisecond
	// DefaultMaxResults is how many results the autocomplete query asks for.
	DefaultMaxResults = 10
	// MaxSuggestions caps the final list.
	MaxSuggestions = 10
	// MinBeforeRawQuery is the list length below which the raw query is added.
	MinBeforeRawQuery = 4
	// TargetWithFallbacks is the length synthetic fallbacks fill up to.
	TargetWithFallbacks = 6
	// MaxReclassified is how many search results after the first are re-classified.
	MaxReclassified = 4
	// MaxNavigate and MaxAction cap those result types.
	MaxNavigate = 2
	MaxAction   = 2
	// FallbackDomain is the generic navigable fallback.
	FallbackDomain = "wikipedia.org"
	// NextTab is the synthetic action fallback.
	NextTab = "tab next"
)

// Origin says which path produced a delivered list.
type Origin int

const (
	OriginQuickPrompts Origin = iota
	OriginLive
	OriginFallback
)

func (o Origin) String() string {
	switch o {
	case OriginLive:
		return "live"
	case OriginFallback:
		return "fallback"
	default:
		return "quick-prompts"
	}
}

func contains(list []Suggestion, text string) bool {
	for _, s := range list {
		if s.Text == text {
			return true
		}
	}
	return false
}
