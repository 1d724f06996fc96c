package daemon

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 8420 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 8420)
	}
	if cfg.Notifications.MaxPerDay != 3 {
		t.Errorf("Notifications.MaxPerDay = %d, want 3", cfg.Notifications.MaxPerDay)
	}
	if cfg.Analyzer.Model != "gpt-4o-mini" {
		t.Errorf("Analyzer.Model = %q, want gpt-4o-mini", cfg.Analyzer.Model)
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	t.Setenv("BITEWISE_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.Port != DefaultConfig().API.Port {
		t.Errorf("missing file should load defaults, port = %d", cfg.API.Port)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	t.Setenv("BITEWISE_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.API.Port = 9000
	cfg.Notifications.MaxPerDay = 5

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if loaded.API.Port != 9000 {
		t.Errorf("API.Port = %d, want 9000", loaded.API.Port)
	}
	if loaded.Notifications.MaxPerDay != 5 {
		t.Errorf("Notifications.MaxPerDay = %d, want 5", loaded.Notifications.MaxPerDay)
	}
}

func TestBitewiseHome_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BITEWISE_HOME", dir)

	if got := BitewiseHome(); got != dir {
		t.Errorf("BitewiseHome() = %q, want %q", got, dir)
	}
	want := filepath.Join(dir, "config.toml")
	if got := filepath.Join(BitewiseHome(), "config.toml"); got != want {
		t.Errorf("config path = %q, want %q", got, want)
	}
}

func TestAnalyzerTimeout(t *testing.T) {
	tests := []struct {
		seconds int
		want    time.Duration
	}{
		{10, 10 * time.Second},
		{0, 30 * time.Second},
		{-1, 30 * time.Second},
	}

	for _, tt := range tests {
		got := AnalyzerConfig{TimeoutSeconds: tt.seconds}.AnalyzerTimeout()
		if got != tt.want {
			t.Errorf("AnalyzerTimeout(%d) = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}
