package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cfarm/internal/cli"
	"github.com/theirongolddev/cfarm/internal/model"
	"github.com/theirongolddev/cfarm/internal/tui/components"
	"github.com/theirongolddev/cfarm/internal/tui/theme"
	"github.com/theirongolddev/cfarm/internal/view"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderHistoryTab(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	if a.history == nil {
		return components.ContentCard("History", muted.Render("The action journal is disabled."), cw)
	}

	var b strings.Builder
	tot := a.totals
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Taps", Value: cli.FormatNumber(int64(tot.Taps))},
		{Label: "Rewards", Value: view.FormatAmount(tot.Rewards)},
		{Label: "Contributions", Value: cli.FormatNumber(int64(tot.Contributions))},
		{Label: "Donated", Value: view.FormatAmount(tot.Contributed)},
		{Label: "AFK earned", Value: view.FormatAmount(tot.AFKEarnings)},
		{Label: "Upgrades", Value: cli.FormatNumber(int64(tot.Upgrades))},
	}, cw))
	b.WriteString("\n")

	if len(a.records) == 0 {
		b.WriteString(components.ContentCard("Recent activity", muted.Render("Nothing yet. Tap or help a project."), cw))
		return b.String()
	}

	b.WriteString(components.ContentCard("Activity", a.activitySparkline(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Recent activity", a.renderRecords(components.CardInnerWidth(cw)), cw))
	return b.String()
}

// activitySparkline plots the value of each recent action, oldest first.
func (a App) activitySparkline() string {
	vals := make([]float64, 0, len(a.records))
	for i := len(a.records) - 1; i >= 0; i-- {
		r := a.records[i]
		switch {
		case !r.OK:
			vals = append(vals, 0)
		case r.Kind == model.ActionTap, r.Kind == model.ActionAFK:
			vals = append(vals, r.Reward)
		default:
			vals = append(vals, r.Amount)
		}
	}
	return components.Sparkline(vals, theme.Active.Accent)
}

func (a App) renderRecords(innerW int) string {
	t := theme.Active
	head := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	cell := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	okStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	failStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)

	const (
		whenW   = 12
		actionW = 11
		projW   = 8
		valueW  = 10
	)
	msgW := max(innerW-whenW-actionW-projW-valueW-4, 8)

	var b strings.Builder
	b.WriteString(head.Render(fmt.Sprintf("%-*s %-*s %-*s %*s %s",
		whenW, "When", actionW, "Action", projW, "Project", valueW, "Value", "Result")))

	now := a.now()
	for _, r := range a.records {
		value := view.ActionValue(r)
		if value == "" {
			value = placeholder
		}
		proj := string(r.ProjectID)
		if proj == "" {
			proj = placeholder
		}

		result := okStyle.Render("ok")
		if !r.OK {
			result = failStyle.Render(cli.Truncate(r.Message, msgW))
		}

		b.WriteString("\n")
		b.WriteString(muted.Render(fmt.Sprintf("%-*s ", whenW, cli.Truncate(cli.FormatAgo(r.CreatedAt, now), whenW))))
		b.WriteString(cell.Render(fmt.Sprintf("%-*s %-*s %*s ",
			actionW, string(r.Kind), projW, cli.Truncate(proj, projW), valueW, value)))
		b.WriteString(result)
	}
	return b.String()
}
