package view

import (
	"math"
	"testing"

	"github.com/theirongolddev/cfarm/internal/model"
)

func TestRenderStatsTwoDecimals(t *testing.T) {
	cases := []struct {
		balance, help    float64
		wantBal, wantHelp string
	}{
		{0, 0, "0.00", "0.00"},
		{120.5, 100, "120.50", "100.00"},
		{0.01, 3.14159, "0.01", "3.14"},
		{1234.567, 99.999, "1234.57", "100.00"},
	}
	for _, tc := range cases {
		vm := New()
		vm.Apply(RenderStats(model.UserStats{Balance: tc.balance, TotalHelp: tc.help})...)
		if got := vm.Text(UserBalance); got != tc.wantBal {
			t.Errorf("balance %v: user-balance = %q, want %q", tc.balance, got, tc.wantBal)
		}
		if got := vm.Text(StatBalance); got != tc.wantBal {
			t.Errorf("balance %v: stat-balance = %q, want %q", tc.balance, got, tc.wantBal)
		}
		if got := vm.Text(StatTotalHelp); got != tc.wantHelp {
			t.Errorf("total_help %v: got %q, want %q", tc.help, got, tc.wantHelp)
		}
	}
}

func TestRenderStatsExperienceBar(t *testing.T) {
	cases := map[int]string{
		0:    "0%",
		99:   "99%",
		100:  "0%",
		250:  "50%",
		1001: "1%",
	}
	for exp, want := range cases {
		vm := New()
		vm.Apply(RenderStats(model.UserStats{Experience: exp, NextLevel: 200})...)
		if got := vm.Width(ExperienceBar); got != want {
			t.Errorf("experience=%d: experience-bar = %q, want %q", exp, got, want)
		}
		if got := vm.Width(StatExperienceBar); got != want {
			t.Errorf("experience=%d: stat-experience-bar = %q, want %q", exp, got, want)
		}
	}
}

func TestRenderStatsText(t *testing.T) {
	vm := New()
	vm.Apply(RenderStats(model.UserStats{Level: 3, Experience: 42, NextLevel: 300, CompletedProjects: 2})...)

	if got := vm.Text(StatExperience); got != "Experience: 42/300" {
		t.Fatalf("stat-experience = %q", got)
	}
	if vm.Text(UserLevel) != "3" || vm.Text(StatLevel) != "3" {
		t.Fatalf("level = %q/%q, want 3", vm.Text(UserLevel), vm.Text(StatLevel))
	}
	if got := vm.Text(StatProjects); got != "2" {
		t.Fatalf("stat-projects = %q, want 2", got)
	}
}

func TestRenderStatsNaNIsRenderedAsIs(t *testing.T) {
	vm := New()
	vm.Apply(RenderStats(model.UserStats{Balance: math.NaN(), TotalHelp: math.NaN()})...)
	if got := vm.Text(UserBalance); got != "NaN" {
		t.Fatalf("NaN balance rendered as %q, want NaN", got)
	}
	if got := vm.Text(StatTotalHelp); got != "NaN" {
		t.Fatalf("NaN total_help rendered as %q, want NaN", got)
	}
	if vm.HasClass(AchievementTarget("help-100"), AchievedClass) {
		t.Fatal("NaN total_help unlocked help-100")
	}
}

func TestRenderTapStatsKeepsTotals(t *testing.T) {
	vm := New()
	vm.Apply(RenderStats(model.UserStats{Balance: 1, Level: 1, TotalHelp: 150, CompletedProjects: 2})...)
	vm.Apply(RenderTapStats(model.UserStats{Balance: 1.5, Level: 2, Experience: 7, NextLevel: 200})...)

	if got := vm.Text(StatBalance); got != "1.50" {
		t.Errorf("stat-balance = %q, want 1.50", got)
	}
	if got := vm.Text(StatLevel); got != "2" {
		t.Errorf("stat-level = %q, want 2", got)
	}
	if got := vm.Width(ExperienceBar); got != "7%" {
		t.Errorf("experience-bar = %q, want 7%%", got)
	}
	if got := vm.Text(StatTotalHelp); got != "150.00" {
		t.Errorf("stat-total-help = %q, want 150.00", got)
	}
	if got := vm.Text(StatProjects); got != "2" {
		t.Errorf("stat-projects = %q, want 2", got)
	}
}

func TestRenderBalance(t *testing.T) {
	vm := New()
	vm.Apply(RenderBalance(42.5)...)
	if vm.Text(UserBalance) != "42.50" || vm.Text(StatBalance) != "42.50" {
		t.Fatalf("balance = %q/%q, want 42.50", vm.Text(UserBalance), vm.Text(StatBalance))
	}
}

func TestAchievementsTable(t *testing.T) {
	cases := []struct {
		name  string
		stats model.UserStats
		want  []string
	}{
		{"fresh", model.UserStats{}, nil},
		{"level", model.UserStats{Level: 1}, []string{"level-1"}},
		{"help boundary", model.UserStats{TotalHelp: 100}, []string{"help-100"}},
		{"help below", model.UserStats{TotalHelp: 99.99}, nil},
		{"project", model.UserStats{CompletedProjects: 1}, []string{"project-1"}},
		{"exp", model.UserStats{Experience: 1000}, []string{"exp-1000"}},
		{"all", model.UserStats{Level: 5, TotalHelp: 500, CompletedProjects: 3, Experience: 2000},
			[]string{"level-1", "help-100", "project-1", "exp-1000"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			vm := New()
			vm.Apply(EvaluateAchievements(tc.stats)...)
			want := make(map[string]bool)
			for _, id := range tc.want {
				want[id] = true
			}
			for _, r := range Achievements {
				got := vm.HasClass(AchievementTarget(r.ID), AchievedClass)
				if got != want[r.ID] {
					t.Errorf("%s achieved = %v, want %v", r.ID, got, want[r.ID])
				}
			}
		})
	}
}

func TestAchievementsAreMonotonic(t *testing.T) {
	vm := New()
	vm.Apply(RenderStats(model.UserStats{Level: 1, TotalHelp: 150})...)
	vm.Apply(RenderStats(model.UserStats{Level: 2, TotalHelp: 160})...)
	if !vm.HasClass(AchievementTarget("help-100"), AchievedClass) {
		t.Fatal("help-100 lost after re-render with predicate still true")
	}

	// Inconsistent stats from the server do not revert a badge.
	vm.Apply(RenderStats(model.UserStats{Level: 0, TotalHelp: 0})...)
	if !vm.HasClass(AchievementTarget("level-1"), AchievedClass) {
		t.Fatal("level-1 was unmarked")
	}
	if !vm.HasClass(AchievementTarget("help-100"), AchievedClass) {
		t.Fatal("help-100 was unmarked")
	}
}

func TestRenderProjects(t *testing.T) {
	vm := New()
	vm.Apply(RenderProjects([]model.Project{
		{ID: "1", CurrentAmount: 45, TargetAmount: 90},
		{ID: "2", CurrentAmount: 1, TargetAmount: 3},
		{ID: "3", CurrentAmount: 2, TargetAmount: 3},
		{ID: "4", CurrentAmount: 5, TargetAmount: 0},
		{ID: "5", CurrentAmount: 0, TargetAmount: 0},
	})...)

	checks := []struct{ id, pct, amount string }{
		{"1", "50%", "45.00"},
		{"2", "33%", "1.00"},
		{"3", "67%", "2.00"},
		{"4", "+Inf%", "5.00"},
		{"5", "NaN%", "0.00"},
	}
	for _, c := range checks {
		if got := vm.Width(ProjectBarTarget(c.id)); got != c.pct {
			t.Errorf("project %s width = %q, want %q", c.id, got, c.pct)
		}
		if got := vm.Text(ProjectBarTarget(c.id)); got != c.pct {
			t.Errorf("project %s label = %q, want %q", c.id, got, c.pct)
		}
		if got := vm.Text(ProjectAmountTarget(c.id)); got != c.amount {
			t.Errorf("project %s amount = %q, want %q", c.id, got, c.amount)
		}
	}
}

func TestRenderContribution(t *testing.T) {
	vm := New()
	vm.Apply(RenderContribution("7", model.ContributeResult{Success: true, NewBalance: 120.5, ProjectProgress: 75})...)

	if got := vm.Text(UserBalance); got != "120.50" {
		t.Fatalf("balance = %q, want 120.50", got)
	}
	if got := vm.Width(ProjectBarTarget("7")); got != "75%" {
		t.Fatalf("project-7 width = %q, want 75%%", got)
	}
	if got := vm.Text(ProjectBarTarget("7")); got != "75%" {
		t.Fatalf("project-7 label = %q, want 75%%", got)
	}
}

func TestRenderContributionKeepsFractionalProgress(t *testing.T) {
	cmds := RenderContribution("3", model.ContributeResult{NewBalance: 1, ProjectProgress: 37.5})
	vm := New()
	vm.Apply(cmds...)
	if got := vm.Text(ProjectBarTarget("3")); got != "37.5%" {
		t.Fatalf("label = %q, want 37.5%%", got)
	}
}

func TestActionValue(t *testing.T) {
	cases := []struct {
		rec  model.ActionRecord
		want string
	}{
		{model.ActionRecord{Kind: model.ActionTap, Reward: 0.011}, "+0.01"},
		{model.ActionRecord{Kind: model.ActionAFK, Reward: 2.5}, "+2.50"},
		{model.ActionRecord{Kind: model.ActionContribute, Amount: 50}, "50.00"},
		{model.ActionRecord{Kind: model.ActionUpgrade, ProjectID: "1"}, ""},
	}
	for _, tc := range cases {
		if got := ActionValue(tc.rec); got != tc.want {
			t.Errorf("%s: ActionValue = %q, want %q", tc.rec.Kind, got, tc.want)
		}
	}
}
