package cmd

import (
	"fmt"

	"github.com/theirongolddev/cfarm/internal/view"

	"github.com/spf13/cobra"
)

var afkCmd = &cobra.Command{
	Use:   "afk",
	Short: "Collect the earnings accrued while you were away",
	RunE:  runAFK,
}

func init() {
	rootCmd.AddCommand(afkCmd)
}

func runAFK(cmd *cobra.Command, _ []string) error {
	e, err := setupCommand()
	if err != nil {
		return err
	}
	defer e.Close()

	res := e.disp.CollectAFK(contextOf(cmd))
	printNotices(res)
	if res.Err != nil {
		return res.Err
	}

	vm := view.New()
	vm.Apply(res.Commands...)
	fmt.Printf("  Balance %s", vm.Text(view.UserBalance))
	if res.AFK != nil && res.AFK.TotalAFKEarnings > 0 {
		fmt.Printf(" · %s earned away in total", view.FormatAmount(res.AFK.TotalAFKEarnings))
	}
	fmt.Println()
	return nil
}
