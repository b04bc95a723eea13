package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/guess-the-met/internal/core"
)

// paletteColors maps core.Color to terminal colors.
var paletteColors = map[core.Color]lipgloss.Color{
	core.ColorRed:     "1",
	core.ColorGreen:   "2",
	core.ColorYellow:  "3",
	core.ColorBlue:    "4",
	core.ColorMagenta: "5",
	core.ColorCyan:    "6",
	core.ColorWhite:   "7",
	core.ColorGray:    "245",
}

// cellStyle is the part of a cell that decides its escape sequence.
type cellStyle struct {
	color     core.Color
	fg, bg    core.RGB
	trueColor bool
}

func styleOf(c core.Cell) cellStyle {
	if c.TrueColor {
		return cellStyle{fg: c.FG, bg: c.BG, trueColor: true}
	}
	return cellStyle{color: c.Color}
}

func (cs cellStyle) lipgloss(r *lipgloss.Renderer) lipgloss.Style {
	st := r.NewStyle()
	if cs.trueColor {
		return st.Foreground(lipgloss.Color(cs.fg.Hex())).Background(lipgloss.Color(cs.bg.Hex()))
	}
	if c, ok := paletteColors[cs.color]; ok {
		return st.Foreground(c)
	}
	return st
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same style to minimize ANSI escape sequences.
// A nil renderer uses the default one.
func RenderScreen(r *lipgloss.Renderer, s *core.Screen) string {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	styles := make(map[cellStyle]lipgloss.Style)

	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			start := styleOf(s.GetCell(x, y))

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if styleOf(cell) != start {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := styles[start]
			if !ok {
				style = start.lipgloss(r)
				styles[start] = style
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
