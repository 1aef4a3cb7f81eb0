// Package view holds the dashboard view model and the pure renderers that
// project stats and projects onto it as lists of update commands.
package view

import (
	"fmt"
	"time"
)

// Op is the kind of mutation a Command applies to an element.
type Op int

const (
	SetText Op = iota
	SetWidth
	AddClass
	SetDelay
)

func (o Op) String() string {
	switch o {
	case SetText:
		return "text"
	case SetWidth:
		return "width"
	case AddClass:
		return "class"
	case SetDelay:
		return "delay"
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Command is one UI update produced by a renderer.
type Command struct {
	Target string
	Op     Op
	Value  string
}

func text(target, value string) Command  { return Command{Target: target, Op: SetText, Value: value} }
func width(target, value string) Command { return Command{Target: target, Op: SetWidth, Value: value} }

// Element ids. They mirror the dashboard widgets one to one.
const (
	UserBalance       = "user-balance"
	StatBalance       = "stat-balance"
	UserLevel         = "user-level"
	StatLevel         = "stat-level"
	StatExperience    = "stat-experience"
	ExperienceBar     = "experience-bar"
	StatExperienceBar = "stat-experience-bar"
	StatTotalHelp     = "stat-total-help"
	StatProjects      = "stat-projects"
)

// AchievedClass marks an unlocked achievement badge.
const AchievedClass = "achieved"

// AchievementTarget is the element id of an achievement badge.
func AchievementTarget(ruleID string) string { return "achievement-" + ruleID }

// ProjectBarTarget is the element id of a project's progress bar.
func ProjectBarTarget(id string) string { return "project-" + id + "-bar" }

// ProjectAmountTarget is the element id of a project's current amount text.
func ProjectAmountTarget(id string) string { return "project-" + id + "-amount" }

// CardTarget is the element id of the n-th dashboard card.
func CardTarget(n int) string { return fmt.Sprintf("card-%d", n) }

// DefaultStagger is the entrance delay between consecutive cards.
const DefaultStagger = 100 * time.Millisecond

// EntranceDelays staggers the entrance of n cards by step each, or by
// DefaultStagger when step is not positive.
func EntranceDelays(n int, step time.Duration) []Command {
	if step <= 0 {
		step = DefaultStagger
	}
	cmds := make([]Command, 0, n)
	for i := 0; i < n; i++ {
		d := time.Duration(i) * step
		cmds = append(cmds, Command{Target: CardTarget(i), Op: SetDelay, Value: d.String()})
	}
	return cmds
}
