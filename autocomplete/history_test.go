package autocomplete

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartbar/contextset"
	"smartbar/storage"
)

func newHistory(t *testing.T) *History {
	t.Helper()
	db, err := storage.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewHistory(db)
}

func kinds(results []Result) []Kind {
	out := make([]Kind, len(results))
	for i, r := range results {
		out[i] = r.Kind
	}
	return out
}

func TestHistorySearchGroupsByKind(t *testing.T) {
	ctx := context.Background()
	h := newHistory(t)

	require.NoError(t, h.RecordSearch(ctx, "flights to boston"))
	require.NoError(t, h.RecordVisit(ctx, "https://flights.example/boston", "Cheap flights to Boston", "f.ico"))
	h.SetOpenTabs([]contextset.Document{
		{ID: "1", Title: "Flights dashboard", URL: "https://flights.example/"},
		{ID: "2", Title: "Weather", URL: "https://weather.example/"},
	})

	results, err := h.Search(ctx, Query{Text: "flights", MaxResults: 10})
	require.NoError(t, err)

	assert.Equal(t, []Kind{KindTab, KindQuery, KindQuery, KindURL}, kinds(results))
	assert.Equal(t, "Flights dashboard", results[0].Title)
	assert.Equal(t, "flights", results[1].Suggestion)
	assert.Equal(t, "flights to boston", results[2].Suggestion)
	assert.Equal(t, "https://flights.example/boston", results[3].URL)
	assert.Equal(t, "f.ico", results[3].Icon)
}

func TestHistoryTypedTextLeadsWithoutDuplicate(t *testing.T) {
	ctx := context.Background()
	h := newHistory(t)
	require.NoError(t, h.RecordSearch(ctx, "flights to boston"))

	results, err := h.Search(ctx, Query{Text: "flights to boston", MaxResults: 10})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, Result{Kind: KindQuery, Suggestion: "flights to boston"}, results[0])
}

func TestHistoryRanksFrequentSearchesFirst(t *testing.T) {
	ctx := context.Background()
	h := newHistory(t)

	require.NoError(t, h.RecordSearch(ctx, "go tutorial"))
	for range 3 {
		require.NoError(t, h.RecordSearch(ctx, "go generics"))
	}

	results, err := h.Search(ctx, Query{Text: "go", MaxResults: 10})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "go", results[0].Suggestion)
	assert.Equal(t, "go generics", results[1].Suggestion)
	assert.Equal(t, "go tutorial", results[2].Suggestion)
}

func TestHistoryBookmarks(t *testing.T) {
	ctx := context.Background()
	h := newHistory(t)

	require.NoError(t, h.SetBookmarked(ctx, "https://go.dev/doc", "Go documentation", true))
	results, err := h.Search(ctx, Query{Text: "go.dev", MaxResults: 10})
	require.NoError(t, err)

	var urls []string
	for _, r := range results {
		if r.Kind == KindURL {
			urls = append(urls, r.URL)
		}
	}
	assert.Equal(t, []string{"https://go.dev/doc"}, urls)
}

func TestHistoryMaxResultsAndEmptyText(t *testing.T) {
	ctx := context.Background()
	h := newHistory(t)
	for _, q := range []string{"boston a", "boston b", "boston c", "boston d"} {
		require.NoError(t, h.RecordSearch(ctx, q))
	}

	results, err := h.Search(ctx, Query{Text: "boston", MaxResults: 2})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = h.Search(ctx, Query{Text: "   "})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRecordVisitCountsRepeats(t *testing.T) {
	ctx := context.Background()
	h := newHistory(t)

	require.NoError(t, h.RecordVisit(ctx, "https://a.example", "A", ""))
	require.NoError(t, h.RecordVisit(ctx, "https://a.example", "A renamed", ""))
	require.NoError(t, h.RecordVisit(ctx, "", "ignored", ""))

	var visits int
	var title string
	require.NoError(t, h.db.QueryRow(`SELECT visits, title FROM history WHERE url = ?`, "https://a.example").Scan(&visits, &title))
	assert.Equal(t, 2, visits)
	assert.Equal(t, "A renamed", title)
}

func TestProviderFunc(t *testing.T) {
	var p Provider = ProviderFunc(func(_ context.Context, q Query) ([]Result, error) {
		return []Result{{Kind: KindQuery, Suggestion: q.Text}}, nil
	})
	results, err := p.Search(context.Background(), Query{Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", results[0].Suggestion)
	assert.Equal(t, "query", KindQuery.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
