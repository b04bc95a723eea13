package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// styles holds the lipgloss styles of one renderer. SSH sessions each get
// their own renderer so color detection follows the client terminal.
type styles struct {
	r *lipgloss.Renderer

	title    lipgloss.Style
	subtle   lipgloss.Style
	label    lipgloss.Style
	selected lipgloss.Style
	correct  lipgloss.Style
	wrong    lipgloss.Style
	warn     lipgloss.Style
	heart    lipgloss.Style
	panel    lipgloss.Style
	help     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return styles{
		r:        r,
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		subtle:   r.NewStyle().Foreground(lipgloss.Color("241")),
		label:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		selected: r.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")),
		correct:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		wrong:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		warn:     r.NewStyle().Foreground(lipgloss.Color("208")),
		heart:    r.NewStyle().Foreground(lipgloss.Color("9")),
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		help: r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// label turns a config value such as "medium" or "united states" into a
// display label. Casers are stateful, so each call builds its own.
func label(s string) string {
	return cases.Title(language.English).String(s)
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
