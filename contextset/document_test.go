package contextset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEligible(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/flights", true},
		{"http://localhost:8080/", true},
		{"HTTPS://EXAMPLE.COM", true},
		{"", false},
		{"   ", false},
		{"about:blank", false},
		{"about:newtab", false},
		{"chrome://settings", false},
		{"resource://gre/modules", false},
		{"moz-extension://abc/popup.html", false},
		{"chrome-extension://abc/options.html", false},
		{"view-source:https://example.com", false},
		{"data:text/html,<p>hi</p>", false},
		{"javascript:alert(1)", false},
		{"blob:https://example.com/uuid", false},
		{"jar:file:///x.jar!/y", false},
		{"file:///etc/hosts", false},
		{"moz-icon://.pdf?size=16", false},
		{"mailto:someone@example.com", false},
		{"tel:+15555550100", false},
		{"ftp://ftp.example.com/pub", false},
		{"example.com", false},
		{"https://", false},
		{"javascript:%zz", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, Eligible(Document{ID: "1", URL: tt.url}))
		})
	}

	assert.False(t, Eligible(Document{URL: "https://example.com"}), "documents need an id")
}

func TestNewSetDeduplicatesByID(t *testing.T) {
	a := Document{ID: "1", Title: "A", URL: "https://a.example"}
	a2 := Document{ID: "1", Title: "A again", URL: "https://a.example/2"}
	b := Document{ID: "2", Title: "B", URL: "https://a.example"}

	s := NewSet(a, a2, b)
	assert.Equal(t, []string{"1", "2"}, s.IDs())
	assert.Equal(t, "A", s.Documents()[0].Title)
}

func TestSetWithAndWithoutReturnNewValues(t *testing.T) {
	a := Document{ID: "1", URL: "https://a.example"}
	b := Document{ID: "2", URL: "https://b.example"}

	s := NewSet(a)
	s2 := s.With(b)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 2, s2.Len())
	assert.Equal(t, s2, s2.With(a))

	s3 := s2.Without("1")
	assert.Equal(t, []string{"2"}, s3.IDs())
	assert.True(t, s2.Contains("1"))
	assert.True(t, NewSet().Empty())
}

func TestCacheKeyIgnoresOrder(t *testing.T) {
	docs := []Document{
		{ID: "1", Title: "Flights", URL: "https://flights.example"},
		{ID: "2", Title: "Hotels", URL: "https://hotels.example"},
		{ID: "3", Title: "Boston", URL: "https://wikipedia.org/wiki/Boston"},
	}

	perms := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	want := NewSet(docs...).CacheKey()
	for _, p := range perms {
		s := NewSet(docs[p[0]], docs[p[1]], docs[p[2]])
		assert.Equal(t, want, s.CacheKey(), "permutation %v", p)
	}
}

func TestCacheKeyTracksContent(t *testing.T) {
	base := []Document{
		{ID: "1", Title: "Flights", URL: "https://flights.example"},
		{ID: "2", Title: "Hotels", URL: "https://hotels.example"},
	}
	key := NewSet(base...).CacheKey()

	retitled := []Document{base[0], {ID: "2", Title: "Hotels in Boston", URL: base[1].URL}}
	assert.NotEqual(t, key, NewSet(retitled...).CacheKey())

	moved := []Document{base[0], {ID: "2", Title: base[1].Title, URL: "https://hotels.example/boston"}}
	assert.NotEqual(t, key, NewSet(moved...).CacheKey())

	// ids are not part of the digest
	renumbered := []Document{{ID: "9", Title: "Flights", URL: "https://flights.example"}, base[1]}
	assert.Equal(t, key, NewSet(renumbered...).CacheKey())

	assert.Len(t, NewSet().CacheKey(), 64)
}

func TestNewView(t *testing.T) {
	var docs []Document
	for _, id := range []string{"p", "a", "b", "c", "d", "e"} {
		docs = append(docs, Document{ID: id, URL: "https://x.example/" + id, Favicon: "icon-" + id})
	}

	v := NewView(NewSet(docs...), "p")
	assert.True(t, v.HasPrimary)
	assert.Equal(t, "p", v.Primary.ID)
	assert.Equal(t, []string{"icon-a", "icon-b", "icon-c"}, v.Favicons)
	assert.Equal(t, 2, v.Remaining)
	assert.Equal(t, 6, v.Count())

	small := NewView(NewSet(docs[1], docs[2]), "p")
	assert.False(t, small.HasPrimary)
	assert.Equal(t, []string{"icon-a", "icon-b"}, small.Favicons)
	assert.Zero(t, small.Remaining)

	empty := NewView(NewSet(), "")
	assert.Empty(t, empty.Favicons)
	assert.Zero(t, empty.Count())
}
