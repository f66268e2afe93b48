package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for explicit missing file")
	}

	// No explicit path: missing file falls back to defaults.
	wd, _ := os.Getwd()
	tmp := t.TempDir()
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err = Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Feed.Provider != "donki" {
		t.Errorf("expected provider donki, got %q", cfg.Feed.Provider)
	}
	if cfg.Feed.APIKey != "DEMO_KEY" {
		t.Errorf("expected DEMO_KEY default, got %q", cfg.Feed.APIKey)
	}
	if cfg.Monitor.WindowDays != 7 {
		t.Errorf("expected 7-day window, got %d", cfg.Monitor.WindowDays)
	}
	if cfg.Monitor.Interval != 30*time.Minute {
		t.Errorf("expected 30m interval, got %s", cfg.Monitor.Interval)
	}
	if cfg.Gemini.MaxOutputTokens != 2048 {
		t.Errorf("expected 2048 max tokens, got %d", cfg.Gemini.MaxOutputTokens)
	}
	if cfg.Mail.Enabled() {
		t.Error("mail should be disabled by default")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flarewatch.yaml")
	data := `
feed:
  api_key: real-key
mail:
  sender: alerts@example.com
  recipient: team@example.com
  smtp_host: smtp.example.com
monitor:
  window_days: 3
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Feed.APIKey != "real-key" {
		t.Errorf("expected api key from file, got %q", cfg.Feed.APIKey)
	}
	if !cfg.Mail.Enabled() {
		t.Error("mail should be enabled with sender+recipient+host")
	}
	if cfg.Mail.SMTPPort != 587 {
		t.Errorf("expected default port 587, got %d", cfg.Mail.SMTPPort)
	}
	if cfg.Monitor.WindowDays != 3 {
		t.Errorf("expected window_days 3, got %d", cfg.Monitor.WindowDays)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.Log.Level)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("FLAREWATCH_FEED_API_KEY", "env-key")

	wd, _ := os.Getwd()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Feed.APIKey != "env-key" {
		t.Errorf("expected env override, got %q", cfg.Feed.APIKey)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Monitor.WindowDays = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero window")
	}

	cfg = Default()
	cfg.Reports.Dir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty reports dir")
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}
