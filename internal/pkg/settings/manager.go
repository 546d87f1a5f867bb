// Package settings manages the tool settings file (~/.relayq/settings.yaml).
//
// Settings tune the CLI itself: API endpoint, request timeout, retry
// behavior. Credentials live separately in the config document.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	apperrors "github.com/relayq/relayq/internal/pkg/errors"
)

const (
	// DefaultSettingsFileName is the settings file name.
	DefaultSettingsFileName = "settings.yaml"
)

// Settings is the unmarshaled settings tree.
type Settings struct {
	Endpoint       string        `mapstructure:"endpoint"`
	TimeoutSeconds int           `mapstructure:"timeout_seconds"`
	Retry          RetrySettings `mapstructure:"retry"`
}

// RetrySettings tune the remote-operation retry policy.
type RetrySettings struct {
	Enabled        bool    `mapstructure:"enabled"`
	MaxRetries     int     `mapstructure:"max_retries"`
	InitialDelayMS int     `mapstructure:"initial_delay_ms"`
	MaxDelayMS     int     `mapstructure:"max_delay_ms"`
	Multiplier     float64 `mapstructure:"multiplier"`
}

// Timeout returns the request timeout as a duration.
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// RetryPolicy converts the retry settings into a policy.
func (s *Settings) RetryPolicy() apperrors.RetryPolicy {
	return apperrors.RetryPolicy{
		Enabled:      s.Retry.Enabled,
		MaxRetries:   s.Retry.MaxRetries,
		InitialDelay: time.Duration(s.Retry.InitialDelayMS) * time.Millisecond,
		MaxDelay:     time.Duration(s.Retry.MaxDelayMS) * time.Millisecond,
		Multiplier:   s.Retry.Multiplier,
	}
}

// Manager reads and writes the settings file using Viper.
// Priority: env > file > defaults.
type Manager struct {
	v    *viper.Viper
	path string
}

// NewManager creates a settings manager. An empty path selects
// ~/.relayq/settings.yaml.
func NewManager(path string) (*Manager, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".relayq", DefaultSettingsFileName)
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix("RELAYQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvVars(v)

	return &Manager{v: v, path: path}, nil
}

// bindEnvVars explicitly binds environment variables for nested keys,
// which AutomaticEnv alone does not cover.
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("endpoint", "RELAYQ_ENDPOINT")
	_ = v.BindEnv("timeout_seconds", "RELAYQ_TIMEOUT_SECONDS")

	_ = v.BindEnv("retry.enabled", "RELAYQ_RETRY_ENABLED")
	_ = v.BindEnv("retry.max_retries", "RELAYQ_RETRY_MAX_RETRIES")
	_ = v.BindEnv("retry.initial_delay_ms", "RELAYQ_RETRY_INITIAL_DELAY_MS")
	_ = v.BindEnv("retry.max_delay_ms", "RELAYQ_RETRY_MAX_DELAY_MS")
	_ = v.BindEnv("retry.multiplier", "RELAYQ_RETRY_MULTIPLIER")
}

// setDefaults sets the default settings values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("endpoint", "https://api.relayq.io")
	v.SetDefault("timeout_seconds", 30)

	v.SetDefault("retry.enabled", true)
	v.SetDefault("retry.max_retries", 3)
	v.SetDefault("retry.initial_delay_ms", 1000)
	v.SetDefault("retry.max_delay_ms", 10000)
	v.SetDefault("retry.multiplier", 2.0)
}

// Path returns the settings file path.
func (m *Manager) Path() string {
	return m.path
}

// Exists checks whether the settings file is present.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.path)
	return err == nil
}

// Load reads the settings from file, environment and defaults.
func (m *Manager) Load() (*Settings, error) {
	if err := m.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read settings file: %w", err)
			}
		}
	}

	var s Settings
	if err := m.v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return &s, nil
}

// Init writes a settings file populated with defaults.
func (m *Manager) Init() error {
	if m.Exists() {
		return fmt.Errorf("settings file already exists at %s", m.path)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := m.v.WriteConfigAs(m.path); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// Set sets a settings value by dot-notation key and persists it.
func (m *Manager) Set(key, value string) error {
	if err := m.v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return fmt.Errorf("failed to read settings file: %w", err)
			}
		}
	}

	existing := m.v.Get(key)
	if existing == nil {
		return fmt.Errorf("unknown settings key: %s", key)
	}
	converted, err := convertValue(value, existing)
	if err != nil {
		return fmt.Errorf("failed to convert value for key %s: %w", key, err)
	}
	m.v.Set(key, converted)

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := m.v.WriteConfigAs(m.path); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// convertValue converts a string value to the type of the existing
// value so typed keys stay typed across Set calls.
func convertValue(value string, existing interface{}) (interface{}, error) {
	switch existing.(type) {
	case bool:
		return strconv.ParseBool(value)
	case int, int64:
		return strconv.ParseInt(value, 10, 64)
	case float32, float64:
		return strconv.ParseFloat(value, 64)
	default:
		return value, nil
	}
}

// Get retrieves a settings value by dot-notation key.
func (m *Manager) Get(key string) (string, error) {
	_ = m.v.ReadInConfig()

	value := m.v.Get(key)
	if value == nil {
		return "", fmt.Errorf("key not found: %s", key)
	}
	return fmt.Sprintf("%v", value), nil
}

// List returns all settings as a map.
func (m *Manager) List() map[string]interface{} {
	_ = m.v.ReadInConfig()
	return m.v.AllSettings()
}

// SetOverride sets a temporary non-persisted override, used for
// command-line flags.
func (m *Manager) SetOverride(key string, value interface{}) {
	m.v.Set(key, value)
}
