package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cfarm/internal/model"
	"github.com/theirongolddev/cfarm/internal/tui/theme"
)

// styles are built from the active theme on each call so `cfarm` output
// follows the configured theme.
type styles struct {
	title, header, value, muted, dim lipgloss.Style
	good, low, warn, bad             lipgloss.Style
	border                           lipgloss.Color
}

func current() styles {
	t := theme.Active
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return styles{
		title:  fg(t.TextPrimary).Bold(true).Align(lipgloss.Center),
		header: fg(t.Accent).Bold(true),
		value:  fg(t.TextPrimary),
		muted:  fg(t.TextMuted),
		dim:    fg(t.TextDim),
		good:   fg(t.Reward()),
		low:    fg(t.Blue),
		warn:   fg(t.Orange),
		bad:    fg(t.Red),
		border: t.Border,
	}
}

// Align is a column alignment.
type Align int

const (
	// AlignAuto left-aligns the first column and right-aligns the rest.
	AlignAuto Align = iota
	AlignLeft
	AlignRight
)

// Table represents a bordered text table for CLI output. A row holding the
// single cell "---" draws a separator.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int   // optional column widths, auto-calculated if nil
	Aligns  []Align // optional per-column alignment
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	st := current()
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(st.border).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(st.title.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 {
		numCols = len(t.Rows[0])
	}
	widths := t.columnWidths(numCols)
	st := current()

	// rule draws a horizontal border line such as ╭──┬──╮.
	rule := func(left, mid, right string) string {
		var b strings.Builder
		b.WriteString(left)
		for i, w := range widths {
			b.WriteString(strings.Repeat("─", w+2))
			if i < numCols-1 {
				b.WriteString(mid)
			}
		}
		b.WriteString(right)
		return st.dim.Render(b.String()) + "\n"
	}
	row := func(cells []string, style lipgloss.Style, header bool) string {
		bar := st.dim.Render("│")
		var b strings.Builder
		b.WriteString(bar)
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if header || t.align(i) == AlignLeft {
				cell = padRight(cell, widths[i])
			} else {
				cell = padLeft(cell, widths[i])
			}
			b.WriteString(style.Render(" " + cell + " "))
			b.WriteString(bar)
		}
		return b.String() + "\n"
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + st.header.Render(t.Title) + "\n")
	}

	b.WriteString(rule("╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		b.WriteString(row(t.Headers, st.header, true))
		b.WriteString(rule("├", "┼", "┤"))
	}
	for _, r := range t.Rows {
		if len(r) == 1 && r[0] == "---" {
			b.WriteString(rule("├", "┼", "┤"))
			continue
		}
		b.WriteString(row(r, st.value, false))
	}
	b.WriteString(rule("╰", "┴", "╯"))
	return b.String()
}

func (t Table) columnWidths(numCols int) []int {
	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
		return widths
	}
	grow := func(cells []string) {
		if len(cells) == 1 && cells[0] == "---" {
			return
		}
		for i, c := range cells {
			if i < numCols {
				widths[i] = max(widths[i], lipgloss.Width(c))
			}
		}
	}
	grow(t.Headers)
	for _, r := range t.Rows {
		grow(r)
	}
	return widths
}

func (t Table) align(col int) Align {
	if col < len(t.Aligns) && t.Aligns[col] != AlignAuto {
		return t.Aligns[col]
	}
	if col == 0 {
		return AlignLeft
	}
	return AlignRight
}

func padRight(s string, w int) string {
	if n := w - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func padLeft(s string, w int) string {
	if n := w - lipgloss.Width(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}

// RenderProgressBar renders a text progress bar for a 0-100 percentage.
// Values outside that range are clamped for drawing only.
func RenderProgressBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	fill := pct / 100
	if math.IsNaN(fill) || fill < 0 {
		fill = 0
	}
	if fill > 1 {
		fill = 1
	}

	st := current()
	filled := int(fill * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if fill < 0.5 {
		return st.low.Render(bar)
	}
	return st.good.Render(bar)
}

// RenderNotice renders a one-line message colored by kind.
func RenderNotice(n model.Notice) string {
	st := current()
	color, icon := theme.Active.Notice(n.Kind)
	return lipgloss.NewStyle().Foreground(color).Render(icon+" ") + st.value.Render(n.Message)
}

// RenderWarning renders a muted warning line.
func RenderWarning(msg string) string {
	st := current()
	return st.warn.Render("! ") + st.muted.Render(msg)
}
