package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/cfarm/internal/cli"
		"github.com/theirongolddev/cfarm/internal/store"
	"github.com/theirongolddev/cfarm/internal/view"

	"github.com/spf13/cobra"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show actions made from this machine",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Number of actions to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := journalPath(cfg)
	j, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer func() { _ = j.Close() }()

	totals, err := j.Totals()
	if err != nil {
		return fmt.Errorf("reading journal: %w", err)
	}
	recs, err := j.Recent(flagHistoryLimit)
	if err != nil {
		return fmt.Errorf("reading journal: %w", err)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("HISTORY"))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Taps", "Earned", "Contributions", "Donated", "AFK", "Upgrades"},
		Rows: [][]string{{
			cli.FormatNumber(int64(totals.Taps)),
			view.FormatAmount(totals.Rewards),
			cli.FormatNumber(int64(totals.Contributions)),
			view.FormatAmount(totals.Contributed),
			view.FormatAmount(totals.AFKEarnings),
			cli.FormatNumber(int64(totals.Upgrades)),
		}},
	}))
	fmt.Println()

	if len(recs) == 0 {
		fmt.Println("  No actions recorded yet.")
		return nil
	}

	now := time.Now()
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		value := view.ActionValue(r)
		if value == "" {
			value = "—"
		}
		project := string(r.ProjectID)
		if project == "" {
			project = "—"
		}
		result := "ok"
		if !r.OK {
			result = cli.Truncate(r.Message, 40)
		}
		rows = append(rows, []string{
			cli.FormatAgo(r.CreatedAt, now),
			string(r.Kind),
			project,
			value,
			result,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"When", "Action", "Project", "Value", "Result"},
		Rows:    rows,
		Aligns:  []cli.Align{cli.AlignLeft, cli.AlignLeft, cli.AlignLeft, cli.AlignRight, cli.AlignLeft},
	}))
	return nil
}
