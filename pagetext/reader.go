// Package pagetext extracts readable text from context documents so quick
// prompts and conversations can be grounded in page content.
package pagetext

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"smartbar/config"
	"smartbar/contextset"
)

// DefaultLimit is the rune budget per document.
const DefaultLimit = 4000

// maxBody caps how much of a response is read.
const maxBody = 2 << 20

// ErrUnsupported is returned for documents that cannot be fetched over HTTP.
var ErrUnsupported = errors.New("unsupported document url")

// Reader returns the visible text of a document.
type Reader interface {
	PageText(ctx context.Context, doc contextset.Document) (string, error)
}

// HTTPReader fetches documents over HTTP and strips markup.
type HTTPReader struct {
	Client *http.Client
	// Limit is the rune budget per document; DefaultLimit when <= 0.
	Limit int
}

// NewHTTPReader creates a reader with a 15s timeout.
func NewHTTPReader(limit int) *HTTPReader {
	return &HTTPReader{
		Client: &http.Client{Timeout: 15 * time.Second},
		Limit:  limit,
	}
}

func (r *HTTPReader) PageText(ctx context.Context, doc contextset.Document) (string, error) {
	u, err := url.Parse(doc.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, doc.URL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "smartbar/1.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.5")

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, doc.URL)
	}

	body := io.LimitReader(resp.Body, maxBody)

	var text string
	if strings.Contains(resp.Header.Get("Content-Type"), "text/plain") {
		raw, err := io.ReadAll(body)
		if err != nil {
			return "", fmt.Errorf("failed to read page: %w", err)
		}
		text = collapse(string(raw))
	} else {
		text, err = Extract(body)
		if err != nil {
			return "", fmt.Errorf("failed to parse page: %w", err)
		}
	}

	text = Truncate(text, r.limit())
	config.Log.Debug("page text extracted",
		zap.String("url", doc.URL),
		zap.Int("runes", len([]rune(text))))
	return text, nil
}

func (r *HTTPReader) limit() int {
	if r.Limit <= 0 {
		return DefaultLimit
	}
	return r.Limit
}

// StaticReader serves page text from a map keyed by document id.
type StaticReader map[string]string

func (s StaticReader) PageText(_ context.Context, doc contextset.Document) (string, error) {
	text, ok := s[doc.ID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, doc.ID)
	}
	return text, nil
}
