package ui

import (
	"fmt"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/mattn/go-runewidth"

	"smartbar/model"
)

func (a App) View() string {
	if a.width < 30 || a.height < 8 {
		return "Terminal too small"
	}
	if a.showHelp {
		return renderHelp(a.keys, a.width, a.height)
	}

	var b strings.Builder
	b.WriteString(a.renderTabs())
	b.WriteString("\n")
	b.WriteString(a.renderInput())
	b.WriteString("\n")
	b.WriteString(a.renderContext())
	b.WriteString("\n\n")

	if a.presentation == model.PresentationConversation {
		b.WriteString(a.convo.View())
	} else {
		b.WriteString(a.renderList())
	}

	b.WriteString("\n")
	b.WriteString(a.renderFooter())
	return b.String()
}

func (a App) renderTabs() string {
	var parts []string
	for i, doc := range a.tabs.All() {
		title := runewidth.Truncate(doc.Title, 18, "…")
		if i == a.tabs.ActiveIndex() {
			parts = append(parts, ActiveTabStyle.Render(title))
		} else {
			parts = append(parts, DimStyle.Render(title))
		}
	}
	return runewidth.Truncate(strings.Join(parts, DimStyle.Render(" │ ")), a.width, "…")
}

func (a App) renderInput() string {
	badge := "    "
	if strings.TrimSpace(a.input.Value()) != "" && a.intent != "" {
		label := intentBadges[a.intent]
		badge = intentStyle(a.intent).Render(fmt.Sprintf("[%s]", label))
	}
	return a.input.View() + " " + badge
}

// renderContext draws the context chip: the primary document, up to
// three other favicons and the count of the rest.
func (a App) renderContext() string {
	if a.view.Count() == 0 {
		return DimStyle.Render("no context")
	}

	var parts []string
	if a.view.HasPrimary {
		parts = append(parts, runewidth.Truncate(a.view.Primary.Title, 30, "…"))
	}
	for _, icon := range a.view.Favicons {
		if icon == "" {
			icon = "◦"
		}
		parts = append(parts, runewidth.Truncate(icon, 12, "…"))
	}
	if a.view.Remaining > 0 {
		parts = append(parts, fmt.Sprintf("+%d", a.view.Remaining))
	}
	return ChipStyle.Render(strings.Join(parts, " · "))
}

func (a App) renderList() string {
	if len(a.items) == 0 {
		return DimStyle.Render("  nothing to suggest")
	}

	textWidth := max(a.width-12, 10)
	lines := make([]string, 0, len(a.items))
	for i, s := range a.items {
		badge := intentStyle(s.Type).Render(fmt.Sprintf("%-7s", intentBadges[s.Type]))
		text := runewidth.Truncate(s.Text, textWidth, "…")
		cursor := "  "
		if i == a.index {
			cursor = SelectedStyle.Render("› ")
			text = SelectedStyle.Render(text)
		}
		lines = append(lines, cursor+badge+" "+text)
	}
	return strings.Join(lines, "\n")
}

func (a App) renderFooter() string {
	if a.status != "" {
		return ErrorStyle.Render(a.status)
	}
	if a.streaming {
		return a.spinner.View() + DimStyle.Render(" answering…")
	}
	return FormatFooter("↑/↓", "Select", "Enter", "Open", "Esc", "Clear",
		a.keys.Display("next_tab"), "Next tab", a.keys.Display("context_add"), "Add context",
		a.keys.Display("help"), "Help")
}

// renderConversation refreshes the transcript viewport.
func (a *App) renderConversation() {
	if a.convo.Width <= 0 {
		return
	}
	var b strings.Builder
	for _, m := range a.transcript {
		switch m.Role {
		case model.RoleUser:
			b.WriteString(UserStyle.Render("You: "))
			b.WriteString(m.Content)
			b.WriteString("\n\n")
		case model.RoleAssistant:
			b.WriteString(AssistantStyle.Render("Assistant:"))
			b.WriteString("\n")
			b.WriteString(renderMarkdown(m.Content, a.convo.Width))
			b.WriteString("\n")
		}
	}
	a.convo.SetContent(b.String())
}

// renderMarkdown renders content for the terminal, leaving bare urls as
// plain text so the terminal can make them clickable.
func renderMarkdown(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	ext := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	r := markdown.NewRenderer(max(width-4, 20), 0)
	return string(gomarkdown.Render(p.Parse([]byte(content)), r))
}
