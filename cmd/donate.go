package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/cfarm/internal/cli"
	"github.com/theirongolddev/cfarm/internal/dispatch"
	"github.com/theirongolddev/cfarm/internal/model"
	"github.com/theirongolddev/cfarm/internal/view"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	flagDonateYes  bool
	flagDonateJSON bool
)

// "help" is taken by cobra, so the contribution command is "donate".
var donateCmd = &cobra.Command{
	Use:     "donate <project-id> <amount>",
	Aliases: []string{"contribute"},
	Short:   "Help a charity project with part of your balance",
	Long: `Help a charity project with part of your balance.

By default the amount is confirmed first and sent as a form post, the same
way a preset amount is sent from the dashboard. --json sends it directly as
JSON without asking, like a custom amount.`,
	Args: cobra.ExactArgs(2),
	RunE: runDonate,
}

func init() {
	donateCmd.Flags().BoolVarP(&flagDonateYes, "yes", "y", false, "Skip the confirmation prompt")
	donateCmd.Flags().BoolVar(&flagDonateJSON, "json", false, "Send a JSON request without confirmation")
	rootCmd.AddCommand(donateCmd)
}

func runDonate(cmd *cobra.Command, args []string) error {
	id := model.ProjectID(strings.TrimSpace(args[0]))
	amount, err := strconv.ParseFloat(strings.TrimSpace(args[1]), 64)
	if err != nil {
		return errors.New("please enter a valid amount")
	}

	e, err := setupCommand()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := contextOf(cmd)

	if flagDonateJSON {
		res := e.disp.Contribute(ctx, id, amount)
		printNotices(res)
		if res.Err != nil {
			return res.Err
		}
		vm := view.New()
		vm.Apply(res.Commands...)
		bar := view.ProjectBarTarget(string(id))
		fmt.Printf("  Balance %s · project %s %s\n",
			vm.Text(view.UserBalance),
			cli.RenderProgressBar(view.Percent(vm.Width(bar))*100, 12),
			vm.Text(bar))
		return nil
	}

	if !flagDonateYes {
		ok := false
		err := huh.NewConfirm().
			Title(dispatch.ConfirmPrompt(amount)).
			Affirmative("Help").
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

	res := e.disp.ContributeConfirmed(ctx, id, amount)
	printNotices(res)
	if res.Err != nil {
		return res.Err
	}
	if res.Contribution != nil {
		fmt.Printf("  Balance %s\n", view.FormatAmount(res.Contribution.NewBalance))
	}
	return nil
}

func printNotices(res dispatch.Result) {
	fmt.Println()
	for _, n := range res.Notices {
		fmt.Println("  " + cli.RenderNotice(n))
	}
}
