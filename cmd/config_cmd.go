// Package cmd implements the cfarm CLI commands.
package cmd

import (
	"fmt"

	"github.com/theirongolddev/cfarm/internal/cli"
	"github.com/theirongolddev/cfarm/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Base URL: %s\n", cfg.Server.BaseURL)
	if cfg.Server.Session != "" {
		fmt.Printf("    Session:  %s\n", cli.MaskSecret(cfg.Server.Session))
	} else {
		fmt.Println("    Session:  not configured")
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Contribute]")
	fmt.Print("    Preset amounts:")
	for _, a := range cfg.Contribute.Amounts {
		fmt.Printf(" %s", cli.FormatAmount(a))
	}
	fmt.Println()
	fmt.Println()

	fmt.Println("  [Timing]")
	fmt.Printf("    Notification: %dms\n", cfg.Timing.NotificationMs)
	fmt.Printf("    Tap cooldown: %dms\n", cfg.Timing.TapCooldownMs)
	fmt.Printf("    Reward flash: %dms\n", cfg.Timing.RewardMs)
	fmt.Printf("    Reload delay: %dms\n", cfg.Timing.ReloadMs)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s\n", cfg.Log.Level)
	if cfg.Log.File != "" {
		fmt.Printf("    File:  %s\n", cfg.Log.File)
	}
	fmt.Println()

	fmt.Println("  [Journal]")
	fmt.Printf("    Enabled: %v\n", cfg.Journal.Enabled)
	fmt.Printf("    Path:    %s\n", journalPath(cfg))
	fmt.Println()

	fmt.Println("  Run `cfarm setup` to reconfigure.")
	return nil
}
