package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"smartbar/intent"
)

var (
	dimColor       = lipgloss.Color("7")
	accentColor    = lipgloss.Color("12")
	successColor   = lipgloss.Color("10")
	warningColor   = lipgloss.Color("11")
	dangerColor    = lipgloss.Color("9")
	highlightColor = lipgloss.Color("13")

	UserStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	AssistantStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(dangerColor)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(highlightColor).
			Bold(true).
			Underline(true)

	ChipStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Border(lipgloss.RoundedBorder(), false, true).
			BorderForeground(dimColor).
			Padding(0, 1)
)

// intentBadges label each intent in the input bar and list rows.
var intentBadges = map[intent.Type]string{
	intent.Navigate: "go",
	intent.Chat:     "ask",
	intent.Action:   "do",
	intent.Search:   "search",
}

func intentStyle(t intent.Type) lipgloss.Style {
	switch t {
	case intent.Navigate:
		return lipgloss.NewStyle().Foreground(successColor)
	case intent.Chat:
		return lipgloss.NewStyle().Foreground(highlightColor)
	case intent.Action:
		return lipgloss.NewStyle().Foreground(warningColor)
	default:
		return lipgloss.NewStyle().Foreground(accentColor)
	}
}

// FormatFooter renders alternating keys and descriptions:
// FormatFooter("Enter", "Open", "Esc", "Clear") -> "Enter Open  Esc Clear".
func FormatFooter(parts ...string) string {
	descStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	var result []string
	for i := 0; i+1 < len(parts); i += 2 {
		result = append(result, parts[i]+" "+descStyle.Render(parts[i+1]))
	}
	return strings.Join(result, "  ")
}
