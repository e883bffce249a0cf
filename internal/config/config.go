// ABOUTME: BMI configuration management with backend selection.
// ABOUTME: Loads settings from the config file and BMI_* environment, and opens storage.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harperreed/bmi/internal/storage"
	"github.com/spf13/viper"
)

// Supported storage backends.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// Config stores bmi tool configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "badger".
	Backend string `json:"backend,omitempty" mapstructure:"backend"`

	// DataDir is the root directory for data storage.
	// SQLite puts bmi.db here. Badger puts its files in badger/.
	// Supports ~ expansion. Defaults to ~/.local/share/bmi.
	DataDir string `json:"data_dir,omitempty" mapstructure:"data_dir"`

	// LogLevel is one of debug, info, warn or error. Defaults to warn.
	LogLevel string `json:"log_level,omitempty" mapstructure:"log_level"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return strings.ToLower(c.Backend)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLogLevel parses the configured log level, defaulting to warn.
func (c *Config) GetLogLevel() (log.Level, error) {
	if c.LogLevel == "" {
		return log.WarnLevel, nil
	}
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.WarnLevel, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// StoragePath returns where the configured backend keeps its data.
func (c *Config) StoragePath() string {
	if c.GetBackend() == BackendBadger {
		return filepath.Join(c.GetDataDir(), "badger")
	}
	return filepath.Join(c.GetDataDir(), "bmi.db")
}

// OpenStorage creates a Table implementation based on the configured backend.
func (c *Config) OpenStorage(logger *log.Logger) (storage.Table, error) {
	return OpenBackend(c.GetBackend(), c.GetDataDir(), logger)
}

// OpenBackend opens the named backend rooted at dataDir.
func OpenBackend(backend, dataDir string, logger *log.Logger) (storage.Table, error) {
	opts := []storage.Option{storage.WithLogger(logger)}

	switch strings.ToLower(backend) {
	case BackendSQLite:
		return storage.Open(filepath.Join(dataDir, "bmi.db"), opts...)
	case BackendBadger:
		return storage.OpenBadger(filepath.Join(dataDir, "badger"), opts...)
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "bmi", "config.json")
}

// Load reads config from disk. BMI_BACKEND, BMI_DATA_DIR and BMI_LOG_LEVEL
// override values from the file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(GetConfigPath())
	v.SetConfigType("json")
	v.SetEnvPrefix("BMI")
	v.AutomaticEnv()

	// Registering every key lets Unmarshal see environment overrides.
	for _, key := range []string{"backend", "data_dir", "log_level"} {
		v.SetDefault(key, "")
	}

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
