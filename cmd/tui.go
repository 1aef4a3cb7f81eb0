package cmd

import (
	"fmt"

	"github.com/theirongolddev/cfarm/internal/logging"
	"github.com/theirongolddev/cfarm/internal/tui"
	"github.com/theirongolddev/cfarm/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	// The dashboard owns the terminal, so logs go to a file.
	logPath := cfg.Log.File
	if logPath == "" {
		logPath = logging.DefaultFile()
	}
	log, closer, err := logging.NewFile(logPath, cfg.Log.Level)
	if err != nil {
		log = logging.Nop()
	} else {
		defer func() { _ = closer.Close() }()
	}

	e, err := newFarmEnv(cfg, log)
	if err != nil {
		return err
	}
	defer e.Close()

	opts := tui.Options{
		Dispatcher: e.disp,
		Config:     cfg,
		Logger:     log,
		Server:     e.client.BaseURL(),
	}
	if e.journal != nil {
		opts.History = e.journal
	}

	log.Info().Str("server", opts.Server).Msg("dashboard started")
	p := tea.NewProgram(tui.NewApp(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
