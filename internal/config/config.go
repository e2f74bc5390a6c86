// Package config resolves application settings: endpoints, models, the
// relay, timeouts, the store location and logging. The user-editable
// Configuration record lives in the store package instead.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/valpere/reword/internal/provider"
	"github.com/valpere/reword/internal/store"
)

// EnvPrefix is prepended to every environment override, e.g. REWORD_TIMEOUT.
const EnvPrefix = "REWORD"

// Settings holds the resolved application settings.
type Settings struct {
	Relay struct {
		Prefix string `mapstructure:"prefix"`
	} `mapstructure:"relay"`

	Claude struct {
		Endpoint   string `mapstructure:"endpoint"`
		Model      string `mapstructure:"model"`
		APIVersion string `mapstructure:"api_version"`
	} `mapstructure:"claude"`

	OpenAI struct {
		Endpoint string `mapstructure:"endpoint"`
		Model    string `mapstructure:"model"`
	} `mapstructure:"openai"`

	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`

	Store struct {
		Driver string `mapstructure:"driver"`
		Path   string `mapstructure:"path"`
	} `mapstructure:"store"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// New returns a viper instance with defaults and environment overrides.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("relay.prefix", "")
	v.SetDefault("claude.endpoint", provider.DefaultClaudeEndpoint)
	v.SetDefault("claude.model", provider.DefaultClaudeModel)
	v.SetDefault("claude.api_version", provider.DefaultClaudeAPIVersion)
	v.SetDefault("openai.endpoint", provider.DefaultOpenAIEndpoint)
	v.SetDefault("openai.model", provider.DefaultOpenAIModel)
	v.SetDefault("max_tokens", provider.DefaultMaxTokens)
	v.SetDefault("timeout", 2*time.Minute)
	v.SetDefault("store.driver", store.DriverSQLite)
	v.SetDefault("store.path", "~/.config/reword/settings.db")
	v.SetDefault("log.level", "warn")
}

// DefaultPath returns the per-user settings file location.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "reword", "config.yaml"), nil
}

// Load reads the settings file at path into v. An empty path searches the
// per-user location and then the working directory; a missing file is not
// an error, an explicitly named one that cannot be read is.
func Load(v *viper.Viper, path string) (*Settings, error) {
	if path != "" {
		v.SetConfigFile(expandPath(path))
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return decode(v)
	}

	for _, candidate := range searchPaths() {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		v.SetConfigFile(candidate)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", candidate, err)
		}
		break
	}
	return decode(v)
}

// searchPaths lists the settings files tried when no path is given.
func searchPaths() []string {
	var paths []string
	if p, err := DefaultPath(); err == nil {
		paths = append(paths, p)
	}
	return append(paths, "reword.yaml")
}

func decode(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	s.Store.Path = expandPath(s.Store.Path)
	return &s, nil
}

// Validate checks the resolved settings.
func (s *Settings) Validate() error {
	if s == nil {
		return fmt.Errorf("settings cannot be nil")
	}

	validDrivers := map[string]bool{
		store.DriverSQLite: true,
		store.DriverFile:   true,
		store.DriverMemory: true,
	}
	if !validDrivers[s.Store.Driver] {
		return fmt.Errorf("invalid store.driver: %s (must be 'sqlite', 'file' or 'memory')", s.Store.Driver)
	}
	if s.Store.Driver != store.DriverMemory && s.Store.Path == "" {
		return fmt.Errorf("store.path is required for driver %s", s.Store.Driver)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[s.Log.Level] {
		return fmt.Errorf("invalid log.level: %s (must be 'debug', 'info', 'warn' or 'error')", s.Log.Level)
	}

	if s.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", s.MaxTokens)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", s.Timeout)
	}
	if s.Claude.Endpoint == "" || s.OpenAI.Endpoint == "" {
		return fmt.Errorf("provider endpoints must not be empty")
	}

	return nil
}

// expandPath expands ~ to the user home directory.
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(homeDir, path[2:])
}
