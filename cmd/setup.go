package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/theirongolddev/cfarm/internal/cli"
	"github.com/theirongolddev/cfarm/internal/config"
	"github.com/theirongolddev/cfarm/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Load existing config or defaults
	cfg, _ := config.Load()

	baseURL := cfg.Server.BaseURL
	session := cfg.Server.Session
	themeName := cfg.Appearance.Theme
	amounts := config.FormatAmounts(cfg.Contribute.Amounts)

	sessionTitle := "Session cookie"
	if session != "" {
		sessionTitle += " (current " + cli.MaskSecret(session) + ")"
	}

	themes := huh.NewOptions(theme.Names()...)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Server URL").
				Description("Where the charity farm is running.").
				Value(&baseURL).
				Validate(validateBaseURL),
			huh.NewInput().
				Title(sessionTitle).
				Description("Value of the \"session\" cookie after logging in.").
				EchoMode(huh.EchoModePassword).
				Value(&session),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&themeName),
			huh.NewInput().
				Title("Preset amounts").
				Description("Comma separated, used by the 1-9 keys on the projects tab.").
				Value(&amounts).
				Validate(func(s string) error {
					_, err := config.ParseAmounts(s)
					return err
				}),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	cfg.Server.BaseURL = strings.TrimSpace(baseURL)
	cfg.Server.Session = strings.TrimSpace(session)
	cfg.Appearance.Theme = themeName
	cfg.Contribute.Amounts, _ = config.ParseAmounts(amounts)

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `cfarm setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

func validateBaseURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("enter an http(s) URL")
	}
	return nil
}
