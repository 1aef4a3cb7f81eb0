package view

import (
	"fmt"
	"math"
	"strconv"

	"github.com/theirongolddev/cfarm/internal/model"
)

// AchievementRule unlocks a badge when Holds returns true.
type AchievementRule struct {
	ID    string
	Label string
	Holds func(model.UserStats) bool
}

// Achievements is the fixed badge table evaluated after every stats render.
var Achievements = []AchievementRule{
	{ID: "level-1", Label: "Level 1", Holds: func(s model.UserStats) bool { return s.Level >= 1 }},
	{ID: "help-100", Label: "100 units of help", Holds: func(s model.UserStats) bool { return s.TotalHelp >= 100 }},
	{ID: "project-1", Label: "First completed project", Holds: func(s model.UserStats) bool { return s.CompletedProjects >= 1 }},
	{ID: "exp-1000", Label: "1000 experience", Holds: func(s model.UserStats) bool { return s.Experience >= 1000 }},
}

// FormatAmount renders a currency amount with exactly two decimals.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ExperiencePercent is the experience bar fill. It wraps every 100 points
// and deliberately ignores next_level.
func ExperiencePercent(experience int) int {
	return experience % 100
}

// ProjectPercent is current/target as a whole percentage. A zero target is
// not guarded and yields Inf or NaN.
func ProjectPercent(current, target float64) float64 {
	return math.Round(current / target * 100)
}

// RenderStats projects stats onto the balance, level and experience widgets,
// followed by the achievement badges.
func RenderStats(s model.UserStats) []Command {
	cmds := progress(s)
	cmds = append(cmds,
		text(StatTotalHelp, FormatAmount(s.TotalHelp)),
		text(StatProjects, strconv.Itoa(s.CompletedProjects)),
	)
	return append(cmds, EvaluateAchievements(s)...)
}

// RenderTapStats is RenderStats for a tap reply that carried no totals: the
// total help and completed project widgets keep their values.
func RenderTapStats(s model.UserStats) []Command {
	return append(progress(s), EvaluateAchievements(s)...)
}

// RenderBalance updates both balance widgets.
func RenderBalance(balance float64) []Command {
	v := FormatAmount(balance)
	return []Command{text(UserBalance, v), text(StatBalance, v)}
}

func progress(s model.UserStats) []Command {
	level := strconv.Itoa(s.Level)
	expWidth := strconv.Itoa(ExperiencePercent(s.Experience)) + "%"

	return append(RenderBalance(s.Balance),
		text(UserLevel, level),
		text(StatLevel, level),
		text(StatExperience, fmt.Sprintf("Experience: %d/%d", s.Experience, s.NextLevel)),
		width(ExperienceBar, expWidth),
		width(StatExperienceBar, expWidth),
	)
}

// EvaluateAchievements marks every badge whose rule holds. Badges whose rule
// does not hold are left alone.
func EvaluateAchievements(s model.UserStats) []Command {
	var cmds []Command
	for _, r := range Achievements {
		if r.Holds(s) {
			cmds = append(cmds, Command{Target: AchievementTarget(r.ID), Op: AddClass, Value: AchievedClass})
		}
	}
	return cmds
}

// RenderProjects updates each project's bar, bar label and amount.
func RenderProjects(projects []model.Project) []Command {
	cmds := make([]Command, 0, len(projects)*3)
	for _, p := range projects {
		id := string(p.ID)
		pct := strconv.FormatFloat(ProjectPercent(p.CurrentAmount, p.TargetAmount), 'f', 0, 64) + "%"
		cmds = append(cmds,
			width(ProjectBarTarget(id), pct),
			text(ProjectBarTarget(id), pct),
			text(ProjectAmountTarget(id), FormatAmount(p.CurrentAmount)),
		)
	}
	return cmds
}

// RenderContribution applies a successful contribution: the new balance and
// the server-reported progress of the project, shown as sent.
func RenderContribution(projectID model.ProjectID, r model.ContributeResult) []Command {
	pct := strconv.FormatFloat(r.ProjectProgress, 'f', -1, 64) + "%"
	id := string(projectID)
	return append(RenderBalance(r.NewBalance),
		width(ProjectBarTarget(id), pct),
		text(ProjectBarTarget(id), pct),
	)
}

// ActionValue is the value column of a journal record: the amount donated,
// or the reward earned with a leading plus. Upgrades have no value and
// render as "".
func ActionValue(r model.ActionRecord) string {
	switch r.Kind {
	case model.ActionTap, model.ActionAFK:
		return "+" + FormatAmount(r.Reward)
	case model.ActionUpgrade:
		return ""
	}
	return FormatAmount(r.Amount)
}
