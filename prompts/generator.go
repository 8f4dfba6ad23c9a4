// Package prompts generates the quick prompts shown under an empty input
// bar: short questions about the documents in the active context set.
package prompts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"smartbar/config"
	"smartbar/contextset"
	"smartbar/intent"
	"smartbar/model"
	"smartbar/pagetext"
	"smartbar/suggest"
)

// ErrNoPrompts is returned when the model reply held no usable prompt. The
// prompt cache drops failed generations, so the next empty input retries.
var ErrNoPrompts = errors.New("no prompts in model reply")

const (
	DefaultCount     = 3
	DefaultPerMinute = 20
)

// Options configures a Generator. Zero fields take defaults.
type Options struct {
	Count         int
	PerMinute     int
	PageTextLimit int
}

// OptionsFromConfig maps the [prompts] and [context] settings.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Count:         cfg.Prompts.Count,
		PerMinute:     cfg.Prompts.PerMinute,
		PageTextLimit: cfg.Context.PageTextLimit,
	}
}

// Generator asks the AI engine for quick prompts. It implements
// suggest.PromptSource.
type Generator struct {
	provider model.Provider
	reader   pagetext.Reader
	limiter  *rate.Limiter
	opts     Options
}

// NewGenerator creates a generator. reader may be nil, in which case only
// titles and urls are sent.
func NewGenerator(provider model.Provider, reader pagetext.Reader, opts Options) *Generator {
	if opts.Count <= 0 {
		opts.Count = DefaultCount
	}
	if opts.PerMinute <= 0 {
		opts.PerMinute = DefaultPerMinute
	}
	if opts.PageTextLimit <= 0 {
		opts.PageTextLimit = pagetext.DefaultLimit
	}
	return &Generator{
		provider: provider,
		reader:   reader,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.PerMinute)), 1),
		opts:     opts,
	}
}

// Generate returns chat suggestions for set. The empty set yields none
// without calling the model.
func (g *Generator) Generate(ctx context.Context, set contextset.Set) ([]suggest.Suggestion, error) {
	if set.Empty() {
		return nil, nil
	}
	if g.provider == nil {
		return nil, fmt.Errorf("no AI provider configured")
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("prompt generation rate limited: %w", err)
	}

	description := Describe(ctx, g.reader, set, g.opts.PageTextLimit)
	messages := []model.Message{
		{Role: model.RoleSystem, Content: generatorInstructions, Timestamp: time.Now()},
		{Role: model.RoleUser, Content: generatorRequest(g.opts.Count, description), Timestamp: time.Now()},
	}

	start := time.Now()
	reply, err := model.Complete(ctx, g.provider, messages)
	if err != nil {
		return nil, fmt.Errorf("failed to generate prompts: %w", err)
	}

	texts := ParsePrompts(reply, g.opts.Count)
	config.Log.Debug("quick prompts generated",
		zap.Int("documents", set.Len()),
		zap.Int("prompts", len(texts)),
		zap.Duration("elapsed", time.Since(start)))
	if len(texts) == 0 {
		return nil, ErrNoPrompts
	}

	out := make([]suggest.Suggestion, len(texts))
	for i, t := range texts {
		out[i] = suggest.Suggestion{Text: t, Type: intent.Chat}
	}
	return out, nil
}

const generatorInstructions = `You suggest questions a reader might ask about the documents they have open.
Reply with one question per line. No numbering, no commentary, no blank lines.
Each question must be short (under 60 characters) and answerable from the documents.`

func generatorRequest(count int, description string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Suggest %d questions about these documents.\n\n", count)
	sb.WriteString(description)
	return sb.String()
}

// ChatSystemPrompt frames a conversation about the described documents.
func ChatSystemPrompt(description string) string {
	if strings.TrimSpace(description) == "" {
		return "You are a helpful assistant built into a web browser. Answer concisely."
	}
	return "You are a helpful assistant built into a web browser. " +
		"The user has these documents open as context; use them when relevant and answer concisely.\n\n" +
		description
}
