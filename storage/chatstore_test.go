package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartbar/contextset"
	"smartbar/model"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()

	db, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]Backend{
		"memory": NewMemoryBackend(),
		"sqlite": NewSQLiteBackend(db),
	}
}

func doc(id string) contextset.Document {
	return contextset.Document{ID: id, Title: "Doc " + id, URL: "https://example.com/" + id}
}

func transcript(lines ...string) model.Transcript {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	t := make(model.Transcript, 0, len(lines))
	for i, l := range lines {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		t = append(t, model.Message{Role: role, Content: l, Timestamp: ts})
	}
	return t
}

func TestChatStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := NewChatStore(backend)
			set := contextset.NewSet(doc("a"), doc("b"))
			want := transcript("what is this?", "a page about boston")

			require.NoError(t, store.Save(ctx, set, want))

			got, presentation, err := store.Load(ctx, set, "a")
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.Equal(t, model.PresentationConversation, presentation)
		})
	}
}

func TestChatStoreSavesUnderEveryMember(t *testing.T) {
	ctx := context.Background()
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := NewChatStore(backend)
			want := transcript("hello", "hi")
			require.NoError(t, store.Save(ctx, contextset.NewSet(doc("a"), doc("b")), want))

			for _, id := range []string{"a", "b"} {
				got, err := backend.Get(ctx, id)
				require.NoError(t, err)
				assert.Equal(t, want, got, "member %s", id)
			}
		})
	}
}

func TestChatStoreEmptyTranscriptClears(t *testing.T) {
	ctx := context.Background()
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := NewChatStore(backend)
			set := contextset.NewSet(doc("a"))
			require.NoError(t, store.Save(ctx, set, transcript("hello")))
			require.NoError(t, store.Save(ctx, set, nil))

			_, err := backend.Get(ctx, "a")
			assert.ErrorIs(t, err, ErrNotFound)

			got, presentation, err := store.Load(ctx, set, "a")
			require.NoError(t, err)
			assert.Empty(t, got)
			assert.Equal(t, model.PresentationResults, presentation)
		})
	}
}

func TestChatStoreLoadResolutionOrder(t *testing.T) {
	ctx := context.Background()
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := NewChatStore(backend)
			require.NoError(t, store.Save(ctx, contextset.NewSet(doc("b")), transcript("from b")))
			require.NoError(t, store.Save(ctx, contextset.NewSet(doc("c")), transcript("from c")))

			set := contextset.NewSet(doc("a"), doc("b"), doc("c"))

			// primary member with a transcript wins
			got, _, err := store.Load(ctx, set, "c")
			require.NoError(t, err)
			assert.Equal(t, "from c", got[0].Content)

			// primary without a transcript falls back to member order
			got, _, err = store.Load(ctx, set, "a")
			require.NoError(t, err)
			assert.Equal(t, "from b", got[0].Content)

			// primary outside the set is ignored
			got, _, err = store.Load(ctx, contextset.NewSet(doc("a"), doc("c")), "b")
			require.NoError(t, err)
			assert.Equal(t, "from c", got[0].Content)
		})
	}
}

func TestChatStoreNoCrossContamination(t *testing.T) {
	ctx := context.Background()
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := NewChatStore(backend)
			home := contextset.NewSet(doc("a"))
			other := contextset.NewSet(doc("x"), doc("y"))
			mine := transcript("about a", "answer a")

			require.NoError(t, store.Save(ctx, home, mine))

			// switch away: an unrelated save/load on a disjoint set
			got, _, err := store.Load(ctx, other, "x")
			require.NoError(t, err)
			assert.Empty(t, got)
			require.NoError(t, store.Save(ctx, other, transcript("about x")))

			// and back
			got, presentation, err := store.Load(ctx, home, "a")
			require.NoError(t, err)
			assert.Equal(t, mine, got)
			assert.Equal(t, model.PresentationConversation, presentation)
		})
	}
}

func TestChatStoreClear(t *testing.T) {
	ctx := context.Background()
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := NewChatStore(backend)
			set := contextset.NewSet(doc("a"))
			require.NoError(t, store.Save(ctx, set, transcript("hello")))
			require.NoError(t, store.Clear(ctx))

			got, _, err := store.Load(ctx, set, "a")
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestMemoryBackendIsolatesCallers(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	orig := transcript("hello")
	require.NoError(t, b.Put(ctx, "a", orig))

	orig[0].Content = "mutated"
	got, err := b.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "hello", got[0].Content)
}
