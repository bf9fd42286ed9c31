// Package components renders the CLI's tables, bars and styled lines.
package components

import (
	"fmt"
	"io"
	"os"

	"charm.land/lipgloss/v2"
	"golang.org/x/term"
)

// Printer writes lines to w, styling them only when w is a color
// terminal.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter creates a Printer. force enables color even when w is not a
// terminal; NO_COLOR always disables it.
func NewPrinter(w io.Writer, force bool) *Printer {
	return &Printer{w: w, color: shouldUseColor(w, force)}
}

// Color reports whether output is styled.
func (p *Printer) Color() bool { return p.color }

// Style renders text with s, or returns it unchanged without color.
func (p *Printer) Style(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

// Println writes one line.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

// Print writes s as is.
func (p *Printer) Print(s string) {
	io.WriteString(p.w, s)
}

// Printf writes formatted output.
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
