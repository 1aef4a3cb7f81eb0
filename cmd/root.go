package cmd

import (
	"os"

	"github.com/theirongolddev/cfarm/internal/config"
	"github.com/theirongolddev/cfarm/internal/dispatch"
	"github.com/theirongolddev/cfarm/internal/farm"
	"github.com/theirongolddev/cfarm/internal/logging"
	"github.com/theirongolddev/cfarm/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagBaseURL   string
	flagSession   string
	flagQuiet     bool
	flagNoJournal bool
)

var rootCmd = &cobra.Command{
	Use:          "cfarm",
	Short:        "Charity Farm client",
	Long:         "Tap for rewards, follow your progress and help charity projects from the terminal.",
	RunE:         runStats,
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagBaseURL, "base-url", "u", "", "Charity farm server URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagSession, "session", "", "Session cookie value (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().BoolVar(&flagNoJournal, "no-journal", false, "Do not record actions in the local journal")
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagBaseURL != "" {
		cfg.Server.BaseURL = flagBaseURL
	}
	if flagSession != "" {
		cfg.Server.Session = flagSession
	}
	return cfg, nil
}

// consoleLogger is the stderr logger used by the one-shot commands.
func consoleLogger(cfg config.Config) logging.Logger {
	level := cfg.Log.Level
	if flagQuiet {
		level = "error"
	}
	return logging.NewConsole(os.Stderr, level)
}

// farmEnv is everything a command needs to talk to the server.
type farmEnv struct {
	cfg     config.Config
	log     logging.Logger
	client  *farm.Client
	journal *store.Journal
	disp    *dispatch.Dispatcher
}

// newFarmEnv is the shared setup path used by all server commands. The
// journal is optional; failing to open it only costs the history.
func newFarmEnv(cfg config.Config, log logging.Logger) (*farmEnv, error) {
	client, err := farm.NewClient(cfg.Server.BaseURL, cfg.Server.Session)
	if err != nil {
		return nil, err
	}

	e := &farmEnv{cfg: cfg, log: log, client: client}
	opts := []dispatch.Option{dispatch.WithLogger(log)}

	if j := openJournal(cfg, log); j != nil {
		e.journal = j
		opts = append(opts, dispatch.WithJournal(j))
	}

	e.disp = dispatch.New(client, opts...)
	log.Debug().Str("server", client.BaseURL()).Bool("journal", e.journal != nil).Msg("client ready")
	return e, nil
}

// openJournal returns nil when journaling is off or the database can't be
// opened.
func openJournal(cfg config.Config, log logging.Logger) *store.Journal {
	if !cfg.Journal.Enabled || flagNoJournal {
		return nil
	}
	path := journalPath(cfg)
	j, err := store.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("journal unavailable, actions will not be recorded")
		return nil
	}
	return j
}

func journalPath(cfg config.Config) string {
	if cfg.Journal.Path != "" {
		return cfg.Journal.Path
	}
	return store.DefaultPath()
}

// setupCommand loads config and wires a console-logging farmEnv.
func setupCommand() (*farmEnv, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newFarmEnv(cfg, consoleLogger(cfg))
}

// Close releases the journal.
func (e *farmEnv) Close() {
	if e.journal == nil {
		return
	}
	if err := e.journal.Close(); err != nil {
		e.log.Warn().Err(err).Msg("closing journal")
	}
}
