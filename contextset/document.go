// Package contextset tracks the documents (tabs) that scope quick prompts
// and the chat transcript.
package contextset

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"slices"
	"strings"
)

// Document is a source document offered as context. ID is opaque and
// stable for the lifetime of the document; two documents may share a URL.
type Document struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Favicon string `json:"favicon,omitempty"`
}

// Eligible reports whether doc may join a context set: it needs an ID and
// an http(s) URL with a host. Browser-internal pages (about:, chrome:,
// view-source:, file:, data: and the like) and non-page links such as
// mailto: or tel: are all excluded.
func Eligible(doc Document) bool {
	raw := strings.TrimSpace(doc.URL)
	if raw == "" || doc.ID == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return true
	}
	return false
}

// Set is an immutable ordered collection of documents, unique by ID.
// Build a new Set for every context change instead of mutating one.
type Set struct {
	docs []Document
}

// NewSet builds a set from docs, keeping the first occurrence of each ID.
func NewSet(docs ...Document) Set {
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if !containsID(out, d.ID) {
			out = append(out, d)
		}
	}
	return Set{docs: out}
}

func containsID(docs []Document, id string) bool {
	return slices.ContainsFunc(docs, func(d Document) bool { return d.ID == id })
}

// Documents returns the members in insertion order.
func (s Set) Documents() []Document {
	return slices.Clone(s.docs)
}

// IDs returns the member ids in insertion order.
func (s Set) IDs() []string {
	ids := make([]string, len(s.docs))
	for i, d := range s.docs {
		ids[i] = d.ID
	}
	return ids
}

func (s Set) Len() int    { return len(s.docs) }
func (s Set) Empty() bool { return len(s.docs) == 0 }

// Contains reports whether a member has the given id.
func (s Set) Contains(id string) bool {
	return containsID(s.docs, id)
}

// With returns a new set with doc appended. Already-present ids are ignored.
func (s Set) With(doc Document) Set {
	if s.Contains(doc.ID) {
		return s
	}
	docs := make([]Document, len(s.docs), len(s.docs)+1)
	copy(docs, s.docs)
	return Set{docs: append(docs, doc)}
}

// Without returns a new set minus every member with the given id.
func (s Set) Without(id string) Set {
	docs := make([]Document, 0, len(s.docs))
	for _, d := range s.docs {
		if d.ID != id {
			docs = append(docs, d)
		}
	}
	return Set{docs: docs}
}

// CacheKey digests the members' title|url pairs. The pairs are sorted
// first, so the key ignores insertion order but changes whenever any title
// or url does.
func (s Set) CacheKey() string {
	parts := make([]string, len(s.docs))
	for i, d := range s.docs {
		parts[i] = d.Title + "|" + d.URL
	}
	slices.Sort(parts)

	sum := sha256.Sum256([]byte(strings.Join(parts, "\n")))
	return hex.EncodeToString(sum[:])
}
