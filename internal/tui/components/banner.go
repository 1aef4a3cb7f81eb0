package components

import (
	"strings"

	"github.com/theirongolddev/cfarm/internal/model"
	"github.com/theirongolddev/cfarm/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// NotificationBanner renders one notification as a full-width banner with
// a close hint on the right.
func NotificationBanner(message string, kind model.NoticeKind, width int) string {
	t := theme.Active

	fg, icon := t.Notice(kind)

	style := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright)
	iconStyle := lipgloss.NewStyle().Foreground(fg).Background(t.SurfaceBright).Bold(true)
	closeStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.SurfaceBright)

	left := iconStyle.Render(" "+icon+" ") + style.Render(message)
	right := closeStyle.Render("[x] ")
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(left + style.Render(strings.Repeat(" ", gap)) + right)
}
