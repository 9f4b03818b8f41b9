package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.CloudServerURL != DefaultCloudServerURL {
		t.Errorf("CloudServerURL = %q, want %q", cfg.CloudServerURL, DefaultCloudServerURL)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", cfg.PollInterval)
	}
	if cfg.WorkDir != DefaultWorkDir {
		t.Errorf("WorkDir = %q, want %q", cfg.WorkDir, DefaultWorkDir)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CLOUD_SERVER_URL", "http://queue.example.test/")
	t.Setenv("DEFAULT_PRINTER", "HP_OfficeJet")
	t.Setenv("POLL_INTERVAL", "2500")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Trailing slash is stripped so URL joining stays predictable.
	if cfg.CloudServerURL != "http://queue.example.test" {
		t.Errorf("CloudServerURL = %q", cfg.CloudServerURL)
	}
	if cfg.DefaultPrinter != "HP_OfficeJet" {
		t.Errorf("DefaultPrinter = %q", cfg.DefaultPrinter)
	}
	if cfg.PollInterval != 2500*time.Millisecond {
		t.Errorf("PollInterval = %v, want 2.5s", cfg.PollInterval)
	}
}

func TestLoadInvalidPollIntervalFallsBack(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "-100")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Errorf("PollInterval = %v, want default 5s", cfg.PollInterval)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "cloud_server_url: http://file.example.test\ndefault_printer: Kiosk-1\nmetrics_port: 9200\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%s) error: %v", path, err)
	}
	if cfg.CloudServerURL != "http://file.example.test" {
		t.Errorf("CloudServerURL = %q", cfg.CloudServerURL)
	}
	if cfg.DefaultPrinter != "Kiosk-1" {
		t.Errorf("DefaultPrinter = %q", cfg.DefaultPrinter)
	}
	if cfg.MetricsPort != 9200 {
		t.Errorf("MetricsPort = %d", cfg.MetricsPort)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
