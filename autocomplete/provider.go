// Package autocomplete defines the history/autocomplete source the
// suggestion aggregator queries, plus a sqlite-backed implementation.
package autocomplete

import "context"

// Kind tags a result with the payload it carries.
type Kind int

const (
	KindUnknown Kind = iota
	// KindTab is an open tab matching the query; Title and URL are set.
	KindTab
	// KindQuery is a search suggestion; Suggestion is set.
	KindQuery
	// KindURL is a history entry or bookmark; URL is set.
	KindURL
)

func (k Kind) String() string {
	switch k {
	case KindTab:
		return "tab"
	case KindQuery:
		return "query"
	case KindURL:
		return "url"
	default:
		return "unknown"
	}
}

// Query is one autocomplete request.
type Query struct {
	Text          string
	MaxResults    int
	AllowAutofill bool
}

// Result is one typed autocomplete match.
type Result struct {
	Kind       Kind
	Title      string
	URL        string
	Suggestion string
	Icon       string
}

// Provider answers autocomplete queries. Search may fail; callers degrade.
type Provider interface {
	Search(ctx context.Context, q Query) ([]Result, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, q Query) ([]Result, error)

func (f ProviderFunc) Search(ctx context.Context, q Query) ([]Result, error) {
	return f(ctx, q)
}
