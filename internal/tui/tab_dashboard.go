package tui

import (
	"strings"

	"github.com/theirongolddev/cfarm/internal/cli"
	"github.com/theirongolddev/cfarm/internal/tui/components"
	"github.com/theirongolddev/cfarm/internal/tui/theme"
	"github.com/theirongolddev/cfarm/internal/view"

	"github.com/charmbracelet/lipgloss"
)

const placeholder = "—"

func (a App) renderDashboardTab(cw int) string {
	var b strings.Builder

	// Row 1: stat cards
	cards := []components.Metric{
		{Label: "Balance", Value: orPlaceholder(a.vm.Text(view.StatBalance))},
		{Label: "Level", Value: orPlaceholder(a.vm.Text(view.StatLevel))},
		{Label: "Total help", Value: orPlaceholder(a.vm.Text(view.StatTotalHelp))},
		{Label: "Completed projects", Value: orPlaceholder(a.vm.Text(view.StatProjects))},
	}
	for i := range cards {
		if !a.cardVisible(i) {
			cards[i] = components.Metric{}
		}
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: experience + tap
	n := len(cards)
	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		a.enteringCard(n, halves[0], a.renderExperienceCard),
		a.enteringCard(n+1, halves[1], a.renderTapCard),
	}))
	b.WriteString("\n")

	// Row 3: achievements
	b.WriteString(a.enteringCard(n+2, cw, a.renderAchievementsCard))
	return b.String()
}

// enteringCard renders card n, or an empty frame of the same width while its
// entrance delay is still running.
func (a App) enteringCard(n, w int, render func(int) string) string {
	if !a.cardVisible(n) {
		return components.ContentCard("", "", w)
	}
	return render(w)
}

func (a App) renderExperienceCard(w int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	exp := a.vm.Text(view.StatExperience)
	if exp == "" {
		return components.ContentCard("Experience", muted.Render("No stats yet"), w)
	}

	barW := components.CardInnerWidth(w) - 6
	width := a.vm.Width(view.StatExperienceBar)
	body := muted.Render(exp) + "\n" +
		components.ProgressBar(view.Percent(width), barW, width)
	return components.ContentCard("Experience", body, w)
}

func (a App) renderTapCard(w int) string {
	t := theme.Active
	btn := lipgloss.NewStyle().Foreground(t.Background).Background(t.Accent).Bold(true).Padding(0, 2)
	idle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.SurfaceHover).Padding(0, 2)
	flash := lipgloss.NewStyle().Foreground(t.Reward()).Background(t.Surface).Bold(true)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	button := btn.Render("◉ TAP")
	hint := muted.Render("press space")
	if a.cooldownRemaining() > 0 {
		button = idle.Render("◌ TAP")
		hint = muted.Render("cooling down")
	}

	line := button + space.Render("  ")
	if a.reward != nil {
		line += flash.Render("+" + view.FormatAmount(*a.reward))
	}
	return components.ContentCard("Tap to earn", line+"\n"+hint, w)
}

func (a App) renderAchievementsCard(cw int) string {
	t := theme.Active
	got := lipgloss.NewStyle().Foreground(t.Badge(true)).Background(t.Surface).Bold(true)
	locked := lipgloss.NewStyle().Foreground(t.Badge(false)).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	parts := make([]string, 0, len(view.Achievements))
	for _, rule := range view.Achievements {
		if a.vm.HasClass(view.AchievementTarget(rule.ID), view.AchievedClass) {
			parts = append(parts, got.Render("★ "+rule.Label))
		} else {
			parts = append(parts, locked.Render("☆ "+rule.Label))
		}
	}

	body := strings.Join(parts, space.Render("   "))
	if lipgloss.Width(body) > components.CardInnerWidth(cw) {
		body = strings.Join(parts, "\n")
	}
	return components.ContentCard("Achievements", body, cw)
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

// amountLabel shows a preset amount the way the confirm prompt does.
func amountLabel(v float64) string {
	if v == float64(int64(v)) {
		return cli.FormatNumber(int64(v))
	}
	return cli.FormatAmount(v)
}
