// Package config loads cfarm settings from TOML, .env files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all cfarm configuration.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
	Contribute ContributeConfig `toml:"contribute"`
	Timing     TimingConfig     `toml:"timing"`
	Log        LogConfig        `toml:"log"`
	Journal    JournalConfig    `toml:"journal"`
}

// ServerConfig points the client at a charity farm server.
type ServerConfig struct {
	BaseURL string `toml:"base_url"`
	Session string `toml:"session,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ContributeConfig holds the preset amounts offered on project cards.
type ContributeConfig struct {
	Amounts []float64 `toml:"amounts"`
}

// TimingConfig holds the UX pacing constants, in milliseconds.
type TimingConfig struct {
	NotificationMs int `toml:"notification_ms"`
	TapCooldownMs  int `toml:"tap_cooldown_ms"`
	RewardMs       int `toml:"reward_ms"`
	ReloadMs       int `toml:"reload_ms"`
	RevealMs       int `toml:"reveal_ms"`
	CardStaggerMs  int `toml:"card_stagger_ms"`
}

// LogConfig controls the zerolog output.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file,omitempty"`
}

// JournalConfig controls the local action journal.
type JournalConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path,omitempty"`
}

// envOverrides are read from the process environment after .env is loaded.
type envOverrides struct {
	BaseURL  string `env:"CFARM_BASE_URL"`
	Session  string `env:"CFARM_SESSION"`
	Theme    string `env:"CFARM_THEME"`
	LogLevel string `env:"CFARM_LOG_LEVEL"`
	LogFile  string `env:"CFARM_LOG_FILE"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			BaseURL: "http://127.0.0.1:5000",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Contribute: ContributeConfig{
			Amounts: []float64{10, 50, 100},
		},
		Timing: TimingConfig{
			NotificationMs: 5000,
			TapCooldownMs:  1000,
			RewardMs:       1000,
			ReloadMs:       1500,
			RevealMs:       100,
			CardStaggerMs:  100,
		},
		Log: LogConfig{
			Level: "info",
		},
		Journal: JournalConfig{
			Enabled: true,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cfarm")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cfarm")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist, then
// applies .env and environment overrides.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom is Load with an explicit config path.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	// .env is optional
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("parsing .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	cfg.normalize()
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if ov.BaseURL != "" {
		cfg.Server.BaseURL = ov.BaseURL
	}
	if ov.Session != "" {
		cfg.Server.Session = ov.Session
	}
	if ov.Theme != "" {
		cfg.Appearance.Theme = ov.Theme
	}
	if ov.LogLevel != "" {
		cfg.Log.Level = ov.LogLevel
	}
	if ov.LogFile != "" {
		cfg.Log.File = ov.LogFile
	}
	return nil
}

// normalize replaces non-positive timings and empty presets with defaults.
func (c *Config) normalize() {
	def := DefaultConfig()
	fix := func(v *int, d int) {
		if *v <= 0 {
			*v = d
		}
	}
	fix(&c.Timing.NotificationMs, def.Timing.NotificationMs)
	fix(&c.Timing.TapCooldownMs, def.Timing.TapCooldownMs)
	fix(&c.Timing.RewardMs, def.Timing.RewardMs)
	fix(&c.Timing.ReloadMs, def.Timing.ReloadMs)
	fix(&c.Timing.RevealMs, def.Timing.RevealMs)
	fix(&c.Timing.CardStaggerMs, def.Timing.CardStaggerMs)

	presets := c.Contribute.Amounts[:0]
	for _, a := range c.Contribute.Amounts {
		if a > 0 {
			presets = append(presets, a)
		}
	}
	c.Contribute.Amounts = presets
	if len(c.Contribute.Amounts) == 0 {
		c.Contribute.Amounts = def.Contribute.Amounts
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// Duration converts one of the millisecond timing fields.
func Duration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// ParseAmounts reads a comma separated list of positive preset amounts.
func ParseAmounts(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || !(v > 0) {
			return nil, fmt.Errorf("%q is not a positive amount", part)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, errors.New("enter at least one amount")
	}
	return out, nil
}

// FormatAmounts is the inverse of ParseAmounts.
func FormatAmounts(amounts []float64) string {
	parts := make([]string, len(amounts))
	for i, v := range amounts {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ", ")
}
