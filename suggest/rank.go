package suggest

import (
	"strings"

	"smartbar/autocomplete"
	"smartbar/intent"
)

// TabSwitchPrefix starts the text of tab-match suggestions.
const TabSwitchPrefix = "tab switch: "

// Map converts autocomplete results into suggestions, dropping results
// with no text and kinds it does not know.
func Map(results []autocomplete.Result) []Suggestion {
	out := make([]Suggestion, 0, len(results))
	for _, r := range results {
		var s Suggestion
		switch r.Kind {
		case autocomplete.KindTab:
			if r.Title == "" {
				continue
			}
			s = Suggestion{Text: TabSwitchPrefix + r.Title, Type: intent.Action}
		case autocomplete.KindQuery:
			s = Suggestion{Text: r.Suggestion, Type: intent.Search}
		case autocomplete.KindURL:
			s = Suggestion{Text: r.URL, Type: intent.Navigate}
		default:
			continue
		}
		if s.Text == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Policy holds the tunable parts of ranking.
type Policy struct {
	MaxSuggestions int
	FallbackDomain string
}

// DefaultPolicy returns the built-in caps.
func DefaultPolicy() Policy {
	return Policy{MaxSuggestions: MaxSuggestions, FallbackDomain: FallbackDomain}
}

func (p Policy) maxSuggestions() int {
	if p.MaxSuggestions <= 0 {
		return MaxSuggestions
	}
	return p.MaxSuggestions
}

func (p Policy) fallbackDomain() string {
	if p.FallbackDomain == "" {
		return FallbackDomain
	}
	return p.FallbackDomain
}

// Rank merges mapped autocomplete suggestions for query:
//
//  1. the first search result twice, as search and with "?" as chat, then
//     up to MaxReclassified further search results re-classified;
//     rows whose text is already listed are skipped and the next
//     candidate of the same group takes their place;
//  2. up to MaxNavigate navigate results;
//  3. up to MaxAction action results;
//  4. below MinBeforeRawQuery entries, the raw query (and its "?" chat
//     variant when the query itself classifies as search);
//  5. below TargetWithFallbacks entries, synthetic fallbacks;
//  6. at most MaxSuggestions entries.
func (p Policy) Rank(query string, mapped []Suggestion) []Suggestion {
	var searches, navigates, actions []Suggestion
	for _, s := range mapped {
		switch s.Type {
		case intent.Search:
			searches = append(searches, s)
		case intent.Navigate:
			navigates = append(navigates, s)
		case intent.Action:
			actions = append(actions, s)
		}
	}

	var out []Suggestion
	// take appends up to limit candidates whose text is not shown yet.
	take := func(candidates []Suggestion, limit int, retype bool) {
		for _, s := range candidates {
			if limit == 0 {
				return
			}
			if contains(out, s.Text) {
				continue
			}
			if retype {
				s.Type = intent.Classify(s.Text)
			}
			out = append(out, s)
			limit--
		}
	}
	if len(searches) > 0 {
		first := searches[0].Text
		out = append(out,
			Suggestion{Text: first, Type: intent.Search},
			Suggestion{Text: first + "?", Type: intent.Chat},
		)
		take(searches[1:], MaxReclassified, true)
	}
	take(navigates, MaxNavigate, false)
	take(actions, MaxAction, false)

	if len(out) < MinBeforeRawQuery {
		t := intent.Classify(query)
		if !contains(out, query) {
			out = append(out, Suggestion{Text: query, Type: t})
		}
		if t == intent.Search && !contains(out, query+"?") {
			out = append(out, Suggestion{Text: query + "?", Type: intent.Chat})
		}
	}

	if len(out) < TargetWithFallbacks {
		for _, s := range p.fallbacks(query) {
			if len(out) >= TargetWithFallbacks {
				break
			}
			if !contains(out, s.Text) {
				out = append(out, s)
			}
		}
	}

	if limit := p.maxSuggestions(); len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (p Policy) fallbacks(query string) []Suggestion {
	return []Suggestion{
		{Text: NextTab, Type: intent.Action},
		{Text: p.fallbackDomain(), Type: intent.Navigate},
		{Text: query + " guide", Type: intent.Search},
		{Text: query + " tutorial", Type: intent.Search},
	}
}

// Fallback is the fixed list shown when the autocomplete query fails: the
// query as classified, the query with its chat/search reading toggled, the
// next-tab action and the fallback domain.
func (p Policy) Fallback(query string) []Suggestion {
	t := intent.Classify(query)

	toggled := Suggestion{Text: query, Type: intent.Toggle(t)}
	if t == intent.Chat {
		toggled.Text = strings.TrimSuffix(query, "?")
	} else if !strings.HasSuffix(query, "?") {
		toggled.Text = query + "?"
	}

	return []Suggestion{
		{Text: query, Type: t},
		toggled,
		{Text: NextTab, Type: intent.Action},
		{Text: p.fallbackDomain(), Type: intent.Navigate},
	}
}
