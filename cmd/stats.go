package cmd

import (
	"context"
	"fmt"

	"github.com/theirongolddev/cfarm/internal/cli"
	"github.com/theirongolddev/cfarm/internal/view"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show balance, level and achievements",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	e, err := setupCommand()
	if err != nil {
		return err
	}
	defer e.Close()

	res := e.disp.RefreshStats(contextOf(cmd))
	if res.Err != nil {
		return fmt.Errorf("fetching stats: %w", res.Err)
	}

	// Render through the same view model the dashboard uses so both
	// surfaces format identically.
	vm := view.New()
	vm.Apply(res.Commands...)

	fmt.Println()
	fmt.Println(cli.RenderTitle("CHARITY FARM  " + e.client.BaseURL()))
	fmt.Println()

	rows := [][]string{
		{"Balance", vm.Text(view.StatBalance)},
		{"Level", vm.Text(view.StatLevel)},
		{"Experience", fmt.Sprintf("%s  %s",
			cli.RenderProgressBar(view.Percent(vm.Width(view.StatExperienceBar))*100, 20),
			vm.Width(view.StatExperienceBar))},
		{"", vm.Text(view.StatExperience)},
		{"---"},
		{"Total help", vm.Text(view.StatTotalHelp)},
		{"Completed projects", vm.Text(view.StatProjects)},
		{"---"},
	}
	for _, rule := range view.Achievements {
		mark := "☆"
		if vm.HasClass(view.AchievementTarget(rule.ID), view.AchievedClass) {
			mark = "★"
		}
		rows = append(rows, []string{mark, rule.Label})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))
	return nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
