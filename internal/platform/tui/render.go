package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snake/internal/config"
	"github.com/vovakirdan/snake/internal/core"
)

// Palette maps core.Color to lipgloss styles.
type Palette map[core.Color]lipgloss.Style

// DefaultPalette uses the 16 ANSI colours.
func DefaultPalette() Palette {
	return Palette{
		core.ColorDefault:     lipgloss.NewStyle(),
		core.ColorRed:         lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		core.ColorGreen:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		core.ColorYellow:      lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		core.ColorWhite:       lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		core.ColorBrightRed:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		core.ColorBrightGreen: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		core.ColorBrightWhite: lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		core.ColorGray:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// ThemePalette applies the configured head, body and food colours on top of
// the default palette. Lipgloss degrades the hex values on terminals without
// true colour.
func ThemePalette(theme config.ThemeConfig) Palette {
	p := DefaultPalette()
	p[core.ColorGreen] = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Head))
	p[core.ColorBrightGreen] = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Body))
	p[core.ColorRed] = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Food))
	return p
}

// Render converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func (p Palette) Render(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			// Collect consecutive cells with same color
			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := p[startColor]
			if !ok {
				style = p[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
