package ui

import (
	"net/url"
	"strings"

	"github.com/google/uuid"

	"smartbar/contextset"
)

// searchURL is where search requests are sent.
const searchURL = "https://duckduckgo.com/?q="

// Tabs is the simulated tab strip the input bar runs in.
type Tabs struct {
	docs   []contextset.Document
	active int
}

// NewTabs opens one tab per url. With no urls a single blank tab is opened.
func NewTabs(urls ...string) *Tabs {
	t := &Tabs{}
	for _, u := range urls {
		t.Open(u)
	}
	if len(t.docs) == 0 {
		t.Open("about:blank")
	}
	t.active = 0
	return t
}

// Open appends a tab for rawURL and makes it active.
func (t *Tabs) Open(rawURL string) contextset.Document {
	doc := contextset.Document{ID: uuid.New().String()}
	doc.URL, doc.Title = normalizeURL(rawURL)
	t.docs = append(t.docs, doc)
	t.active = len(t.docs) - 1
	return doc
}

// Navigate points the active tab at rawURL, keeping its id.
func (t *Tabs) Navigate(rawURL string) contextset.Document {
	doc := &t.docs[t.active]
	doc.URL, doc.Title = normalizeURL(rawURL)
	doc.Favicon = ""
	return *doc
}

// Search navigates the active tab to the results page for query.
func (t *Tabs) Search(query string) contextset.Document {
	doc := t.Navigate(searchURL + url.QueryEscape(query))
	t.docs[t.active].Title = query
	doc.Title = query
	return doc
}

// Next activates the following tab, wrapping around.
func (t *Tabs) Next() contextset.Document {
	t.active = (t.active + 1) % len(t.docs)
	return t.Active()
}

// Prev activates the preceding tab, wrapping around.
func (t *Tabs) Prev() contextset.Document {
	t.active = (t.active - 1 + len(t.docs)) % len(t.docs)
	return t.Active()
}

// SwitchTo activates the first tab titled title.
func (t *Tabs) SwitchTo(title string) (contextset.Document, bool) {
	for i, d := range t.docs {
		if d.Title == title {
			t.active = i
			return d, true
		}
	}
	return contextset.Document{}, false
}

// Close removes the active tab. The last tab cannot be closed.
func (t *Tabs) Close() (contextset.Document, bool) {
	if len(t.docs) < 2 {
		return contextset.Document{}, false
	}
	t.docs = append(t.docs[:t.active], t.docs[t.active+1:]...)
	if t.active >= len(t.docs) {
		t.active = len(t.docs) - 1
	}
	return t.Active(), true
}

func (t *Tabs) Active() contextset.Document { return t.docs[t.active] }
func (t *Tabs) ActiveIndex() int            { return t.active }

// All returns a copy of the open tabs.
func (t *Tabs) All() []contextset.Document {
	return append([]contextset.Document(nil), t.docs...)
}

// Others returns the tabs other than the active one, in strip order.
func (t *Tabs) Others() []contextset.Document {
	out := make([]contextset.Document, 0, len(t.docs))
	for i, d := range t.docs {
		if i != t.active {
			out = append(out, d)
		}
	}
	return out
}

// normalizeURL adds https:// to bare hosts and derives a title.
func normalizeURL(raw string) (string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "about:blank", "New Tab"
	}
	if !strings.Contains(raw, "://") && !strings.HasPrefix(raw, "about:") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw, raw
	}
	return raw, strings.TrimPrefix(u.Host, "www.")
}
