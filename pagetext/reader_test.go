package pagetext

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartbar/contextset"
)

const page = `<!doctype html>
<html>
<head><title>Flights</title><style>body{color:red}</style></head>
<body>
  <nav>Home</nav>
  <h1>Cheap   flights to Boston</h1>
  <script>var tracking = "secret";</script>
  <p>Fares from <b>$89</b> one way.</p>
  <ul><li>Logan</li><li>Worcester</li></ul>
  <noscript>Enable JS</noscript>
</body>
</html>`

func TestExtract(t *testing.T) {
	text, err := Extract(strings.NewReader(page))
	require.NoError(t, err)

	assert.Equal(t, "Home\nCheap flights to Boston\nFares from $89 one way.\nLogan\nWorcester", text)
	assert.NotContains(t, text, "secret")
	assert.NotContains(t, text, "color")
	assert.NotContains(t, text, "Enable JS")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "unchanged", Truncate("unchanged", 0))
	assert.Equal(t, "the quick brown …", Truncate("the quick brown fox jumps", 18))
	assert.Equal(t, "日本語 …", Truncate("日本語テキスト", 3))
}

func TestHTTPReader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(page))
		case "/plain":
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("  plain   text\n\n body "))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	r := NewHTTPReader(0)
	ctx := context.Background()

	text, err := r.PageText(ctx, contextset.Document{ID: "1", URL: srv.URL + "/page"})
	require.NoError(t, err)
	assert.Contains(t, text, "Cheap flights to Boston")

	text, err = r.PageText(ctx, contextset.Document{ID: "2", URL: srv.URL + "/plain"})
	require.NoError(t, err)
	assert.Equal(t, "plain text\nbody", text)

	_, err = r.PageText(ctx, contextset.Document{ID: "3", URL: srv.URL + "/missing"})
	assert.ErrorContains(t, err, "HTTP 404")

	_, err = r.PageText(ctx, contextset.Document{ID: "4", URL: "about:blank"})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestHTTPReaderRespectsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<p>" + strings.Repeat("word ", 200) + "</p>"))
	}))
	defer srv.Close()

	text, err := NewHTTPReader(50).PageText(context.Background(), contextset.Document{ID: "1", URL: srv.URL})
	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(text)), 52)
}

func TestStaticReader(t *testing.T) {
	r := StaticReader{"a": "text of a"}
	text, err := r.PageText(context.Background(), contextset.Document{ID: "a"})
	require.NoError(t, err)
	assert.Equal(t, "text of a", text)

	_, err = r.PageText(context.Background(), contextset.Document{ID: "b"})
	assert.ErrorIs(t, err, ErrUnsupported)
}
