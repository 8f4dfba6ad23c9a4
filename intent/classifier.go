// Package intent classifies free-text input bar entries into one of four
// intents: navigate, chat, action or search.
//
// Classification is rule based and deliberately approximate. Rules are
// evaluated in a fixed order and the first match wins; the order is part of
// the contract (a dotted host ending in "?" is navigate, not chat).
package intent

import (
	"regexp"
	"strings"
)

// Type identifies the intent behind an input.
type Type string

const (
	Navigate Type = "navigate"
	Chat     Type = "chat"
	Action   Type = "action"
	Search   Type = "search"
)

// Rule identifies which classification rule produced a Type.
type Rule int

const (
	RuleURL        Rule = iota + 1 // scheme prefix or bare host with optional path
	RuleDottedHost                 // exact dotted host, any final label
	RuleQuestion                   // interrogative prefix or trailing "?"
	RuleAction                     // tab / find / tab switch:
	RuleDefault                    // fallthrough to search
)

var (
	schemePattern     = regexp.MustCompile(`^[a-z][a-z0-9+.\-]*:`)
	hostPattern       = regexp.MustCompile(`^[a-z0-9\-]+(\.[a-z0-9\-]+)*\.[a-z]{2,}([:/?#]\S*)?$`)
	dottedHostPattern = regexp.MustCompile(`^[a-z0-9\-]+(\.[a-z0-9\-]+)+$`)
	questionPattern   = regexp.MustCompile(`^(who|what|when|where|why|how|can)\b`)
)

// actionPrefixes are matched against the normalized input. "tab switch:" is
// covered by "tab" but is kept as its own entry; hosts emit it verbatim.
var actionPrefixes = []string{"tab switch:", "tab", "find"}

// Classify returns the intent for text. It is total: empty input yields
// Search, although callers are expected not to classify empty input.
func Classify(text string) Type {
	t, _ := Explain(text)
	return t
}

// Explain returns the intent for text together with the rule that fired.
func Explain(text string) (Type, Rule) {
	q := strings.ToLower(strings.TrimSpace(text))

	noSpace := !strings.ContainsFunc(q, isSpace)

	// 1. URL-ish: scheme prefix or host(.label)+.tld[/path]
	if q != "" && noSpace && (schemePattern.MatchString(q) || hostPattern.MatchString(q)) {
		return Navigate, RuleURL
	}

	// 2. Exact dotted host (IPv4 addresses, intranet names)
	if noSpace && dottedHostPattern.MatchString(q) {
		return Navigate, RuleDottedHost
	}

	// 3. Question
	if questionPattern.MatchString(q) || strings.HasSuffix(q, "?") {
		return Chat, RuleQuestion
	}

	// 4. Browser action
	for _, prefix := range actionPrefixes {
		if strings.HasPrefix(q, prefix) {
			return Action, RuleAction
		}
	}

	return Search, RuleDefault
}

// Toggle returns the alternate intent offered next to a classified query:
// chat for anything that is not already chat, search for chat.
func Toggle(t Type) Type {
	if t == Chat {
		return Search
	}
	return Chat
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
