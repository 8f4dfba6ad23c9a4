package prompts

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"smartbar/config"
	"smartbar/contextset"
	"smartbar/pagetext"
)

// maxConcurrentReads bounds page fetches per description.
const maxConcurrentReads = 4

// Describe renders the members of set as a markdown section each, with up
// to limit runes of page text. A document whose text cannot be read is
// described by its title and url alone.
func Describe(ctx context.Context, reader pagetext.Reader, set contextset.Set, limit int) string {
	docs := set.Documents()
	texts := make([]string, len(docs))

	if reader != nil {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxConcurrentReads)
		for i, doc := range docs {
			g.Go(func() error {
				text, err := reader.PageText(gctx, doc)
				if err != nil {
					config.Log.Debug("page text unavailable",
						zap.String("url", doc.URL),
						zap.Error(err))
					return nil
				}
				texts[i] = pagetext.Truncate(text, limit)
				return nil
			})
		}
		_ = g.Wait()
	}

	var sb strings.Builder
	for i, doc := range docs {
		if i > 0 {
			sb.WriteString("\n")
		}
		title := doc.Title
		if title == "" {
			title = doc.URL
		}
		fmt.Fprintf(&sb, "## %s\nURL: %s\n", title, doc.URL)
		if texts[i] != "" {
			sb.WriteString("\n")
			sb.WriteString(texts[i])
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
