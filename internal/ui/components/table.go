package components

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Align is the alignment of a table column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Table lays out rows in columns by display width, so CJK characters
// line up with Latin text.
type Table struct {
	Headers  []string
	Align    []Align
	MaxWidth int // per column, 0 means unlimited
	rows     [][]string
}

// AddRow appends a row. Missing cells are blank.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Render returns the table, one line per row, headers underlined.
func (t *Table) Render() string {
	cols := len(t.Headers)
	for _, r := range t.rows {
		cols = max(cols, len(r))
	}
	widths := make([]int, cols)
	measure := func(cells []string) {
		for i, c := range cells {
			widths[i] = max(widths[i], runewidth.StringWidth(t.clip(c)))
		}
	}
	measure(t.Headers)
	for _, r := range t.rows {
		measure(r)
	}

	var b strings.Builder
	if len(t.Headers) > 0 {
		t.line(&b, t.Headers, widths)
		total := 0
		for _, w := range widths {
			total += w
		}
		b.WriteString(strings.Repeat("─", total+2*(cols-1)))
		b.WriteByte('\n')
	}
	for _, r := range t.rows {
		t.line(&b, r, widths)
	}
	return b.String()
}

func (t *Table) clip(s string) string {
	if t.MaxWidth <= 0 {
		return s
	}
	return runewidth.Truncate(s, t.MaxWidth, "…")
}

func (t *Table) line(b *strings.Builder, cells []string, widths []int) {
	parts := make([]string, len(widths))
	for i, w := range widths {
		var c string
		if i < len(cells) {
			c = t.clip(cells[i])
		}
		if i < len(t.Align) && t.Align[i] == AlignRight {
			parts[i] = runewidth.FillLeft(c, w)
		} else {
			parts[i] = runewidth.FillRight(c, w)
		}
	}
	b.WriteString(strings.TrimRight(strings.Join(parts, "  "), " "))
	b.WriteByte('\n')
}
