package autocomplete

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sahilm/fuzzy"

	"smartbar/contextset"
)

// candidateLimit bounds how many rows per table are fuzzy-matched.
const candidateLimit = 500

// History answers queries from open tabs, past searches and visited pages.
// Results come back as tabs, then searches (led by the typed text itself),
// then pages, each group ordered by fuzzy score.
type History struct {
	db *sql.DB

	mu   sync.RWMutex
	tabs []contextset.Document
}

// NewHistory uses the history and searches tables of db (see storage.Open).
func NewHistory(db *sql.DB) *History {
	return &History{db: db}
}

// SetOpenTabs replaces the tabs offered as "switch to tab" results.
func (h *History) SetOpenTabs(tabs []contextset.Document) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tabs = append([]contextset.Document(nil), tabs...)
}

// RecordVisit counts a page visit.
func (h *History) RecordVisit(ctx context.Context, url, title, icon string) error {
	if strings.TrimSpace(url) == "" {
		return nil
	}
	_, err := h.db.ExecContext(ctx, `
	INSERT INTO history (url, title, icon, visits, last_visited)
	VALUES (?, ?, ?, 1, ?)
	ON CONFLICT(url) DO UPDATE SET
		title = excluded.title,
		icon = excluded.icon,
		visits = history.visits + 1,
		last_visited = excluded.last_visited
	`, url, title, icon, time.Now())
	if err != nil {
		return fmt.Errorf("failed to record visit: %w", err)
	}
	return nil
}

// SetBookmarked marks or unmarks url as a bookmark, creating the row if needed.
func (h *History) SetBookmarked(ctx context.Context, url, title string, bookmarked bool) error {
	_, err := h.db.ExecContext(ctx, `
	INSERT INTO history (url, title, visits, last_visited, bookmarked)
	VALUES (?, ?, 0, ?, ?)
	ON CONFLICT(url) DO UPDATE SET bookmarked = excluded.bookmarked
	`, url, title, time.Now(), bookmarked)
	if err != nil {
		return fmt.Errorf("failed to update bookmark: %w", err)
	}
	return nil
}

// RecordSearch counts a submitted search.
func (h *History) RecordSearch(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	_, err := h.db.ExecContext(ctx, `
	INSERT INTO searches (query, count, last_used)
	VALUES (?, 1, ?)
	ON CONFLICT(query) DO UPDATE SET
		count = searches.count + 1,
		last_used = excluded.last_used
	`, query, time.Now())
	if err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}

// Search implements Provider.
func (h *History) Search(ctx context.Context, q Query) ([]Result, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return nil, nil
	}

	var results []Result
	results = append(results, h.matchTabs(text)...)

	searches, err := h.matchSearches(ctx, text)
	if err != nil {
		return nil, err
	}
	results = append(results, searches...)

	pages, err := h.matchPages(ctx, text)
	if err != nil {
		return nil, err
	}
	results = append(results, pages...)

	if q.MaxResults > 0 && len(results) > q.MaxResults {
		results = results[:q.MaxResults]
	}
	return results, nil
}

func (h *History) matchTabs(text string) []Result {
	h.mu.RLock()
	tabs := h.tabs
	h.mu.RUnlock()

	targets := make([]string, len(tabs))
	for i, t := range tabs {
		targets[i] = t.Title + " " + t.URL
	}

	var out []Result
	for _, match := range fuzzy.Find(text, targets) {
		t := tabs[match.Index]
		out = append(out, Result{Kind: KindTab, Title: t.Title, URL: t.URL, Icon: t.Favicon})
	}
	return out
}

func (h *History) matchSearches(ctx context.Context, text string) ([]Result, error) {
	rows, err := h.db.QueryContext(ctx, `
	SELECT query FROM searches
	ORDER BY count DESC, last_used DESC
	LIMIT ?
	`, candidateLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query searches: %w", err)
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var query string
		if err := rows.Scan(&query); err != nil {
			return nil, err
		}
		targets = append(targets, query)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The typed text itself always leads the search suggestions.
	out := []Result{{Kind: KindQuery, Suggestion: text}}
	for _, match := range fuzzy.Find(text, targets) {
		if strings.EqualFold(match.Str, text) {
			continue
		}
		out = append(out, Result{Kind: KindQuery, Suggestion: match.Str})
	}
	return out, nil
}

type page struct {
	url, title, icon string
	bookmarked       bool
}

// pages is a fuzzy.Source over title and url.
type pages []page

func (p pages) String(i int) string { return p[i].title + " " + p[i].url }
func (p pages) Len() int            { return len(p) }

func (h *History) matchPages(ctx context.Context, text string) ([]Result, error) {
	rows, err := h.db.QueryContext(ctx, `
	SELECT url, title, icon, bookmarked FROM history
	ORDER BY bookmarked DESC, visits DESC, last_visited DESC
	LIMIT ?
	`, candidateLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var candidates pages
	for rows.Next() {
		var p page
		if err := rows.Scan(&p.url, &p.title, &p.icon, &p.bookmarked); err != nil {
			return nil, err
		}
		candidates = append(candidates, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var out []Result
	for _, match := range fuzzy.FindFrom(text, candidates) {
		p := candidates[match.Index]
		out = append(out, Result{Kind: KindURL, Title: p.title, URL: p.url, Icon: p.icon})
	}
	return out, nil
}
