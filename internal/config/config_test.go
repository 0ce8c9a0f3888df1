package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigWithoutFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvConfigFile, "")
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvDBPath, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() without config file failed: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %s, want :8080 (default)", cfg.Server.Addr)
	}
	if cfg.Pagination.DefaultSize != 10 || cfg.Pagination.MaxSize != 100 {
		t.Errorf("Pagination = %+v, want default 10 / max 100", cfg.Pagination)
	}
	if cfg.Database.BusyTimeout() != 5*time.Second {
		t.Errorf("BusyTimeout = %v, want 5s", cfg.Database.BusyTimeout())
	}
}

func TestLoadConfigWithFile(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)
	t.Setenv(EnvConfigFile, "")
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvDBPath, "")
	t.Setenv(EnvLogLevel, "")

	configDir := filepath.Join(tempDir, "tracker")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}

	configContent := `server:
  addr: "127.0.0.1:9000"
  read_timeout: 5s
database:
  path: /tmp/custom.db
log:
  level: debug
  format: json
pagination:
  default_size: 20
`
	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() with config file failed: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %s, want 127.0.0.1:9000", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 30*time.Second {
		t.Errorf("WriteTimeout = %v, want default 30s", cfg.Server.WriteTimeout)
	}
	if cfg.Database.Path != "/tmp/custom.db" {
		t.Errorf("Database.Path = %s, want /tmp/custom.db", cfg.Database.Path)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v, want debug/json", cfg.Log)
	}
	if cfg.Pagination.DefaultSize != 20 || cfg.Pagination.MaxSize != 100 {
		t.Errorf("Pagination = %+v, want 20/100", cfg.Pagination)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.yaml")
	if err := os.WriteFile(path, []byte("server:\n  addr: \":7000\"\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv(EnvConfigFile, path)
	t.Setenv(EnvAddr, ":9999")
	t.Setenv(EnvDBPath, "/data/t.db")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Server.Addr = %s, want :9999 from env", cfg.Server.Addr)
	}
	if cfg.Database.Path != "/data/t.db" {
		t.Errorf("Database.Path = %s, want /data/t.db", cfg.Database.Path)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %s, want warn", cfg.Log.Level)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() with invalid YAML should fail")
	}
}

func TestLoadConfigPartialTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvDBPath, "")
	t.Setenv(EnvLogLevel, "")
	if err := os.WriteFile(path, []byte("theme:\n  accent: \"#FF8700\"\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Theme.Accent != "#FF8700" {
		t.Errorf("Theme.Accent = %s, want #FF8700", cfg.Theme.Accent)
	}
	if cfg.Theme.Title != DefaultColorScheme().Title {
		t.Errorf("Theme.Title = %s, want default %s", cfg.Theme.Title, DefaultColorScheme().Title)
	}
}
