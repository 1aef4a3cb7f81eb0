package components

import (
	"strings"

	"github.com/theirongolddev/cfarm/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key hints on the left and
// the given segments on the right, separated by thin bars.
func RenderStatusBar(width int, hints string, right ...string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)
	sep := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface).Render(" │ ")

	left := style.Render(" " + hints)

	var segs []string
	for _, s := range right {
		if s != "" {
			segs = append(segs, s)
		}
	}
	r := strings.Join(segs, sep)
	if r != "" {
		r += style.Render(" ")
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(r)
	if gap < 1 {
		gap = 1
	}
	return left + style.Render(strings.Repeat(" ", gap)) + r
}
