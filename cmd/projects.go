package cmd

import (
	"fmt"

	"github.com/theirongolddev/cfarm/internal/cli"
	"github.com/theirongolddev/cfarm/internal/view"

	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List charity projects and their funding progress",
	RunE:  runProjects,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(cmd *cobra.Command, _ []string) error {
	e, err := setupCommand()
	if err != nil {
		return err
	}
	defer e.Close()

	res := e.disp.RefreshProjects(contextOf(cmd))
	if res.Err != nil {
		return fmt.Errorf("fetching projects: %w", res.Err)
	}
	if len(res.Projects) == 0 {
		fmt.Println("\n  No projects right now.")
		return nil
	}

	vm := view.New()
	vm.Apply(res.Commands...)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("PROJECTS  %d open", len(res.Projects))))
	fmt.Println()

	rows := make([][]string, 0, len(res.Projects))
	for _, p := range res.Projects {
		id := string(p.ID)
		bar := view.ProjectBarTarget(id)
		rows = append(rows, []string{
			id,
			cli.Truncate(p.Title, 28),
			cli.Truncate(p.Country, 14),
			cli.RenderProgressBar(view.Percent(vm.Width(bar))*100, 12) + " " + vm.Text(bar),
			vm.Text(view.ProjectAmountTarget(id)) + " / " + view.FormatAmount(p.TargetAmount),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Project", "Country", "Progress", "Raised"},
		Rows:    rows,
		Aligns:  []cli.Align{cli.AlignLeft, cli.AlignLeft, cli.AlignLeft, cli.AlignLeft, cli.AlignRight},
	}))
	fmt.Println()
	fmt.Println("  Help a project with `cfarm donate <id> <amount>`.")
	return nil
}
