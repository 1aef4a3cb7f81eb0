package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cfarm/internal/view"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var flagUpgradeYes bool

var upgradeCmd = &cobra.Command{
	Use:   "upgrade <upgrade-id>",
	Short: "Buy the next level of an upgrade",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpgrade,
}

func init() {
	upgradeCmd.Flags().BoolVarP(&flagUpgradeYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(upgradeCmd)
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	id := strings.TrimSpace(args[0])
	if id == "" {
		return fmt.Errorf("upgrade id is required")
	}

	if !flagUpgradeYes {
		ok := false
		err := huh.NewConfirm().
			Title("Buy the next level of upgrade " + id + "?").
			Affirmative("Buy").
			Negative("Cancel").
			Value(&ok).
			Run()
		if err != nil {
			return fmt.Errorf("confirm: %w", err)
		}
		if !ok {
			fmt.Println("  Cancelled.")
			return nil
		}
	}

	e, err := setupCommand()
	if err != nil {
		return err
	}
	defer e.Close()

	res := e.disp.PurchaseUpgrade(contextOf(cmd), id)
	printNotices(res)
	if res.Err != nil {
		return res.Err
	}
	if u := res.Upgrade; u != nil {
		fmt.Printf("  Level %d · next level %s · balance %s\n",
			u.UpgradeLevel, view.FormatAmount(u.NextCost), view.FormatAmount(u.NewBalance))
	}
	return nil
}
