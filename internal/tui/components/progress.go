package components

import (
	"math"
	"strings"

	"github.com/theirongolddev/cfarm/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a filled bar for pct in [0,1] followed by label.
// Out-of-range and NaN values are clamped for drawing; label is shown as is.
func ProgressBar(pct float64, width int, label string) string {
	t := theme.Active
	pct = clamp01(pct)

	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	barColor := ColorForPct(pct)
	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	labelStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))
	if label != "" {
		b.WriteString(spaceStyle.Render(" "))
		b.WriteString(labelStyle.Render(label))
	}
	return b.String()
}

// ColorForPct grades progress with the active theme's funding colors.
func ColorForPct(pct float64) lipgloss.Color {
	return theme.Active.Funding(pct)
}

// CooldownBar renders a compact status-bar meter for the tap cooldown.
// remaining is the fraction of the window still to wait, in [0,1].
func CooldownBar(label string, remaining float64, width int) string {
	t := theme.Active
	remaining = clamp01(remaining)

	barW := width - lipgloss.Width(label) - 1
	if barW < 4 {
		barW = 4
	}

	color := t.Green
	if remaining > 0 {
		color = t.Orange
	}
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barW),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(label) + spaceStyle.Render(" ") + bar.ViewAs(1-remaining)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
