package components

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/importJL/GlyphWrAIte/internal/ui/theme"
)

// Bar is a labelled horizontal bar for a 0..1 fraction.
type Bar struct {
	Label      string
	LabelWidth int
	Fraction   float64
	Width      int
	Suffix     string
}

// Render draws the bar. Without color the filled and empty parts are
// block characters.
func (b Bar) Render(p *Printer) string {
	width := max(b.Width, 4)
	filled := int(float64(width)*b.Fraction + 0.5)
	filled = min(max(filled, 0), width)

	var bar string
	if p.Color() {
		bar = theme.BarFilled.Render(strings.Repeat(" ", filled)) +
			theme.BarEmpty.Render(strings.Repeat(" ", width-filled))
	} else {
		bar = strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	}

	label := runewidth.FillRight(runewidth.Truncate(b.Label, b.LabelWidth, "…"), b.LabelWidth)
	out := fmt.Sprintf("%s  %s", label, bar)
	if b.Suffix != "" {
		out += "  " + p.Style(theme.Hint, b.Suffix)
	}
	return out
}
