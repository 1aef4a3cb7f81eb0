package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/cfarm/internal/cli"
	"github.com/theirongolddev/cfarm/internal/view"

	"github.com/spf13/cobra"
)

var flagTapCount int

var tapCmd = &cobra.Command{
	Use:   "tap",
	Short: "Tap for a reward, honoring the tap cooldown",
	RunE:  runTap,
}

func init() {
	tapCmd.Flags().IntVarP(&flagTapCount, "count", "c", 1, "Number of taps")
	rootCmd.AddCommand(tapCmd)
}

func runTap(cmd *cobra.Command, _ []string) error {
	if flagTapCount < 1 {
		return fmt.Errorf("--count must be at least 1")
	}

	e, err := setupCommand()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := contextOf(cmd)
	gate := e.disp.Gate()

	var (
		earned  float64
		balance string
	)
	fmt.Println()
	for i := 0; i < flagTapCount; {
		res, ok := e.disp.TapOnce(ctx)
		if !ok {
			// Wait out the spacing instead of hammering the gate.
			wait := time.Until(gate.ReadyAt())
			if wait <= 0 {
				wait = 50 * time.Millisecond
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			continue
		}
		i++

		for _, n := range res.Notices {
			fmt.Println("  " + cli.RenderNotice(n))
		}
		if res.Err != nil {
			if len(res.Notices) == 0 {
				fmt.Println("  " + cli.RenderWarning("tap failed: "+res.Err.Error()))
			}
			continue
		}

		vm := view.New()
		vm.Apply(res.Commands...)
		balance = vm.Text(view.UserBalance)
		if res.Reward != nil {
			earned += *res.Reward
			fmt.Printf("  %d/%d  +%s  balance %s\n", i, flagTapCount, view.FormatAmount(*res.Reward), balance)
		}
	}

	if flagTapCount > 1 && balance != "" {
		fmt.Printf("\n  Earned %s, balance %s\n", view.FormatAmount(earned), balance)
	}
	return nil
}
