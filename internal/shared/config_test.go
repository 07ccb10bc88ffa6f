package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "https://api.tvmaze.com" {
			t.Errorf("expected base URL https://api.tvmaze.com, got %s", config.API.BaseURL)
		}
		if config.Database.Path != "./tvx.db" {
			t.Errorf("expected database path ./tvx.db, got %s", config.Database.Path)
		}
		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}
		if config.Search.Debounce() != 300*time.Millisecond {
			t.Errorf("expected debounce 300ms, got %s", config.Search.Debounce())
		}
		if config.Cache.DetailsTTL() != 10*time.Minute {
			t.Errorf("expected details TTL 10m, got %s", config.Cache.DetailsTTL())
		}
		if config.Server.Addr() != "127.0.0.1:3000" {
			t.Errorf("expected addr 127.0.0.1:3000, got %s", config.Server.Addr())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[api]
base_url = "http://localhost:9090"
timeout_seconds = 3

[search]
debounce_ms = 500

[database]
path = "/custom/path.db"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "http://localhost:9090" {
			t.Errorf("expected base URL http://localhost:9090, got %s", config.API.BaseURL)
		}
		if config.API.Timeout() != 3*time.Second {
			t.Errorf("expected timeout 3s, got %s", config.API.Timeout())
		}
		if config.Search.DebounceMS != 500 {
			t.Errorf("expected debounce 500, got %d", config.Search.DebounceMS)
		}
		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Server.Port != 3000 {
			t.Errorf("expected unset keys to keep defaults, got port %d", config.Server.Port)
		}
	})

	t.Run("LoadConfig Rejects Invalid Values", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[search]\ndebounce_ms = -1\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
