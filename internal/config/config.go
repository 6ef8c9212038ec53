// Package config loads the optional YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Will-L07/scheduler/internal/constants"
	"github.com/Will-L07/scheduler/internal/utils"
)

type SyncConfig struct {
	UserID string `yaml:"user_id"`
	// Remote is the document-store DSN. Leave empty to read it from the OS keyring.
	Remote   string        `yaml:"remote"`
	Debounce time.Duration `yaml:"debounce"`
}

type NotifyConfig struct {
	// Enabled sends reminders on this device even when the synced
	// notificationsEnabled setting is off.
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

type Config struct {
	Storage  string       `yaml:"storage"`
	Timezone string       `yaml:"timezone"`
	Debug    bool         `yaml:"debug"`
	LogLevel string       `yaml:"log_level"`
	Sync     SyncConfig   `yaml:"sync"`
	Notify   NotifyConfig `yaml:"notify"`
}

const DefaultReminderInterval = time.Minute

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Storage:  constants.DefaultConfigPath,
		Timezone: constants.DefaultTimezone,
		Sync:     SyncConfig{Debounce: constants.DefaultSyncDebounce},
		Notify:   NotifyConfig{Interval: DefaultReminderInterval},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	path, err := ExpandHome(path)
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Storage == "" {
		c.Storage = def.Storage
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.Sync.Debounce == 0 {
		c.Sync.Debounce = def.Sync.Debounce
	}
	if c.Notify.Interval == 0 {
		c.Notify.Interval = def.Notify.Interval
	}
}

func (c Config) Validate() error {
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("timezone %q is not a valid IANA name", c.Timezone)
	}
	if c.Sync.Debounce < 0 {
		return fmt.Errorf("sync.debounce must not be negative")
	}
	if c.Notify.Interval < 0 {
		return fmt.Errorf("notify.interval must not be negative")
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q must be one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}

// LoadEnv reads .env files into the process environment. Variables that
// are already set win. Missing files are ignored.
func LoadEnv(files ...string) {
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return
	}
	_ = godotenv.Load(present...)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Dir returns the directory holding the config file, logs and backups.
func Dir() (string, error) {
	return ExpandHome(constants.DefaultConfigDir)
}
