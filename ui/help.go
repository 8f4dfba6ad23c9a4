package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"smartbar/config"
)

type helpEntry struct {
	key  string
	desc string
}

type helpSection struct {
	title   string
	entries []helpEntry
}

func helpSections(kb config.KeyBindings) []helpSection {
	return []helpSection{
		{"Input bar", []helpEntry{
			{"Enter", "Open the highlighted row, or the typed text"},
			{"↑ / ↓", "Move through suggestions"},
			{"Esc", "Clear the input; again to hide suggestions"},
			{kb.Display("yank"), "Copy the highlighted row"},
		}},
		{"Tabs", []helpEntry{
			{kb.Display("next_tab"), "Next tab"},
			{kb.Display("prev_tab"), "Previous tab"},
			{kb.Display("new_tab"), "New tab"},
			{kb.Display("close_tab"), "Close tab"},
		}},
		{"Context", []helpEntry{
			{kb.Display("context_add"), "Add the next open tab to the context"},
			{kb.Display("context_remove"), "Remove the last added tab"},
		}},
		{"Conversation", []helpEntry{
			{"PgUp / PgDn", "Scroll"},
			{"Esc", "Back to suggestions"},
		}},
	}
}

func renderHelp(kb config.KeyBindings, width, height int) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(successColor).Render("smartbar - Keyboard Shortcuts")
	heading := lipgloss.NewStyle().Foreground(accentColor)

	blocks := []string{title, ""}
	for _, s := range helpSections(kb) {
		lines := []string{heading.Render("## " + s.title)}
		for _, e := range s.entries {
			lines = append(lines, fmt.Sprintf("• %-13s %s", e.key, e.desc))
		}
		blocks = append(blocks, lipgloss.JoinVertical(lipgloss.Left, lines...), "")
	}
	blocks = append(blocks, DimStyle.Render(fmt.Sprintf("Press %s or Esc to close", kb.Display("help"))))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, blocks...))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
