package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("CFARM_BASE_URL", "")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	def := DefaultConfig()
	if cfg.Server.BaseURL != def.Server.BaseURL {
		t.Fatalf("base_url = %q", cfg.Server.BaseURL)
	}
	if cfg.Timing.NotificationMs != 5000 || cfg.Timing.TapCooldownMs != 1000 || cfg.Timing.ReloadMs != 1500 {
		t.Fatalf("timing = %+v", cfg.Timing)
	}
}

func TestLoadFromFileAndNormalize(t *testing.T) {
	t.Setenv("CFARM_BASE_URL", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[server]
base_url = "https://farm.example.org"

[contribute]
amounts = [5, -1, 0, 25]

[timing]
notification_ms = 0
reward_ms = 750
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Server.BaseURL != "https://farm.example.org" {
		t.Fatalf("base_url = %q", cfg.Server.BaseURL)
	}
	if len(cfg.Contribute.Amounts) != 2 || cfg.Contribute.Amounts[0] != 5 || cfg.Contribute.Amounts[1] != 25 {
		t.Fatalf("amounts = %v", cfg.Contribute.Amounts)
	}
	if cfg.Timing.NotificationMs != 5000 {
		t.Fatalf("notification_ms not defaulted: %d", cfg.Timing.NotificationMs)
	}
	if cfg.Timing.RewardMs != 750 {
		t.Fatalf("reward_ms = %d", cfg.Timing.RewardMs)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CFARM_BASE_URL", "http://override:8000")
	t.Setenv("CFARM_SESSION", "abc")
	t.Setenv("CFARM_LOG_LEVEL", "debug")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Server.BaseURL != "http://override:8000" || cfg.Server.Session != "abc" || cfg.Log.Level != "debug" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadFromBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server\nbase_url="), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDotEnvIsApplied(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CFARM_SESSION", "")
	_ = os.Unsetenv("CFARM_SESSION")
	if err := os.WriteFile(".env", []byte("CFARM_SESSION=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Server.Session != "from-dotenv" {
		t.Fatalf("session = %q, want from-dotenv", cfg.Server.Session)
	}
}

func TestLoadFromBadDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := os.WriteFile(".env", []byte("bad-key=1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "none.toml")); err == nil {
		t.Fatal("expected .env parse error")
	}
}

func TestParseAmounts(t *testing.T) {
	got, err := ParseAmounts("10, 2.5,100")
	if err != nil || len(got) != 3 || got[1] != 2.5 {
		t.Fatalf("ParseAmounts = %v, %v", got, err)
	}
	if s := FormatAmounts(got); s != "10, 2.5, 100" {
		t.Fatalf("FormatAmounts = %q", s)
	}
	for _, bad := range []string{"", "abc", "0", "5,,x", "-1"} {
		if _, err := ParseAmounts(bad); err == nil {
			t.Errorf("ParseAmounts(%q) accepted", bad)
		}
	}
}
