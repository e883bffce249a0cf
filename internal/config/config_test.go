// ABOUTME: Tests for bmi configuration management.
// ABOUTME: Covers load, save, env overrides, backend selection, and path expansion.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func setupConfigHome(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("BMI_BACKEND", "")
	t.Setenv("BMI_DATA_DIR", "")
	t.Setenv("BMI_LOG_LEVEL", "")
	return tmpDir
}

func TestGetBackendDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetBackend(); got != "sqlite" {
		t.Errorf("GetBackend() = %q, want %q", got, "sqlite")
	}
}

func TestGetBackendExplicit(t *testing.T) {
	cfg := &Config{Backend: "Badger"}
	if got := cfg.GetBackend(); got != "badger" {
		t.Errorf("GetBackend() = %q, want %q", got, "badger")
	}
}

func TestGetDataDirDefault(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	cfg := &Config{}
	if got := cfg.GetDataDir(); got != "/tmp/xdg-data/bmi" {
		t.Errorf("GetDataDir() = %q, want %q", got, "/tmp/xdg-data/bmi")
	}
}

func TestGetDataDirExplicit(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/bmi-test"}
	if got := cfg.GetDataDir(); got != "/tmp/bmi-test" {
		t.Errorf("GetDataDir() = %q, want %q", got, "/tmp/bmi-test")
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/bmi-data"}
	want := filepath.Join(home, "bmi-data")
	if got := cfg.GetDataDir(); got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/bmi", filepath.Join(home, "data/bmi")},
		{"data/bmi", "data/bmi"},
	}

	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    log.Level
		wantErr bool
	}{
		{"", log.WarnLevel, false},
		{"debug", log.DebugLevel, false},
		{"error", log.ErrorLevel, false},
		{"loud", log.WarnLevel, true},
	}

	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.in}
		got, err := cfg.GetLogLevel()
		if (err != nil) != tt.wantErr {
			t.Errorf("GetLogLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("GetLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	setupConfigHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg.Backend != "" || cfg.DataDir != "" || cfg.LogLevel != "" {
		t.Errorf("Expected empty config, got %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	setupConfigHome(t)

	cfg := &Config{Backend: "badger", DataDir: "/tmp/bmi-data", LogLevel: "info"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded %+v, want %+v", loaded, cfg)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	setupConfigHome(t)

	if err := (&Config{Backend: "sqlite", DataDir: "/from/file"}).Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	t.Setenv("BMI_BACKEND", "badger")
	t.Setenv("BMI_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Backend != "badger" {
		t.Errorf("Backend = %q, want badger", cfg.Backend)
	}
	if cfg.DataDir != "/from/file" {
		t.Errorf("DataDir = %q, want /from/file", cfg.DataDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))

	cfg := &Config{Backend: "sqlite"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}

	configDir := filepath.Join(tmpDir, "nonexistent", "bmi")
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := setupConfigHome(t)

	configDir := filepath.Join(tmpDir, "bmi")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := setupConfigHome(t)

	want := filepath.Join(tmpDir, "bmi", "config.json")
	if got := GetConfigPath(); got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestOpenStorageSQLite(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &Config{Backend: "sqlite", DataDir: tmpDir}

	table, err := cfg.OpenStorage(nil)
	if err != nil {
		t.Fatalf("OpenStorage() for sqlite failed: %v", err)
	}
	defer table.Close()

	if _, err := os.Stat(filepath.Join(tmpDir, "bmi.db")); os.IsNotExist(err) {
		t.Error("Expected bmi.db to be created")
	}
	if cfg.StoragePath() != filepath.Join(tmpDir, "bmi.db") {
		t.Errorf("StoragePath() = %q", cfg.StoragePath())
	}
}

func TestOpenStorageBadger(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &Config{Backend: "badger", DataDir: tmpDir}

	table, err := cfg.OpenStorage(nil)
	if err != nil {
		t.Fatalf("OpenStorage() for badger failed: %v", err)
	}
	defer table.Close()

	if _, err := os.Stat(filepath.Join(tmpDir, "badger")); os.IsNotExist(err) {
		t.Error("Expected badger directory to be created")
	}
}

func TestOpenStorageDefaultBackend(t *testing.T) {
	cfg := &Config{DataDir: t.TempDir()}

	table, err := cfg.OpenStorage(nil)
	if err != nil {
		t.Fatalf("OpenStorage() with default backend failed: %v", err)
	}
	defer table.Close()
}

func TestOpenStorageInvalidBackend(t *testing.T) {
	cfg := &Config{Backend: "invalid", DataDir: t.TempDir()}

	if _, err := cfg.OpenStorage(nil); err == nil {
		t.Error("Expected error for invalid backend")
	}
}

func TestConfigJSONOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(&Config{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Expected empty JSON object, got %s", string(data))
	}
}
