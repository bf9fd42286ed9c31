// Package theme holds the terminal palette and styles of the CLI.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette
var (
	Ink     = lipgloss.Color("#6366F1") // Indigo
	Brush   = lipgloss.Color("#14B8A6") // Teal
	Seal    = lipgloss.Color("#DC2626") // Vermilion
	Success = lipgloss.Color("#22C55E")
	Warn    = lipgloss.Color("#F59E0B")
	Text    = lipgloss.Color("#F8FAFC")
	TextDim = lipgloss.Color("#94A3B8")
	Track   = lipgloss.Color("#334155")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Ink)

	Heading = lipgloss.NewStyle().
		Bold(true).
		Foreground(Brush).
		MarginTop(1)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Error = lipgloss.NewStyle().
		Foreground(Seal).
		Bold(true)
)

// Bars
var (
	BarFilled = lipgloss.NewStyle().
			Background(Brush)

	BarEmpty = lipgloss.NewStyle().
			Background(Track)
)

// ScoreStyle colors a 0-100 score.
func ScoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 85:
		return lipgloss.NewStyle().Foreground(Success).Bold(true)
	case score >= 70:
		return lipgloss.NewStyle().Foreground(Warn)
	default:
		return lipgloss.NewStyle().Foreground(Seal)
	}
}
