package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration
type Config struct {
	API      APIConfig      `mapstructure:"api" yaml:"api"`
	Search   SearchConfig   `mapstructure:"search" yaml:"search"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Advanced AdvancedConfig `mapstructure:"advanced" yaml:"advanced"`
}

// APIConfig configures the content-lookup backend
type APIConfig struct {
	BaseURL    string        `mapstructure:"base_url" yaml:"base_url"`
	SiteURL    string        `mapstructure:"site_url" yaml:"site_url"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
	UserAgent  string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// SearchConfig configures the debounced query pipeline
type SearchConfig struct {
	MinLength int           `mapstructure:"min_length" yaml:"min_length"`
	Debounce  time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// LoggingConfig configures the slog logger and its rotated log file
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
	Color      bool   `mapstructure:"color" yaml:"color"`
}

// AdvancedConfig holds debug and integration knobs
type AdvancedConfig struct {
	Debug     bool            `mapstructure:"debug" yaml:"debug"`
	Clipboard ClipboardConfig `mapstructure:"clipboard" yaml:"clipboard"`
}

// ClipboardConfig overrides the clipboard command used when the native clipboard fails
type ClipboardConfig struct {
	Command string `mapstructure:"command" yaml:"command"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:    "http://localhost:8080",
			SiteURL:    "https://www1.gogoanime.ai",
			Timeout:    30 * time.Second,
			MaxRetries: 0,
			UserAgent:  "enjoi/1.0",
		},
		Search: SearchConfig{
			MinLength: 3,
			Debounce:  300 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
			Color:      true,
		},
	}
}

// Load reads the configuration from cfgFile, or from the default location when empty.
// A missing config file is not an error; defaults and ENJOI_* environment variables apply.
func Load(cfgFile string) (*Config, *viper.Viper, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(getConfigDir(), "enjoi"))
	}

	v.SetEnvPrefix("ENJOI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return cfg, v, nil
}

// Validate rejects settings the query pipeline and backend client cannot work with
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if c.Search.MinLength < 1 {
		return fmt.Errorf("search.min_length must be at least 1, got %d", c.Search.MinLength)
	}
	if c.Search.Debounce < 0 {
		return fmt.Errorf("search.debounce must not be negative, got %s", c.Search.Debounce)
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries must not be negative, got %d", c.API.MaxRetries)
	}
	return nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.site_url", d.API.SiteURL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.max_retries", d.API.MaxRetries)
	v.SetDefault("api.user_agent", d.API.UserAgent)

	v.SetDefault("search.min_length", d.Search.MinLength)
	v.SetDefault("search.debounce", d.Search.Debounce)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.max_size", d.Logging.MaxSize)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age", d.Logging.MaxAge)
	v.SetDefault("logging.compress", d.Logging.Compress)
	v.SetDefault("logging.color", d.Logging.Color)

	v.SetDefault("advanced.debug", d.Advanced.Debug)
	v.SetDefault("advanced.clipboard.command", d.Advanced.Clipboard.Command)
}

// InitializeDirs creates the config and state directories
func InitializeDirs() error {
	for _, dir := range []string{
		filepath.Join(getConfigDir(), "enjoi"),
		filepath.Join(getStateDir(), "enjoi"),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// DefaultConfigPath returns where Load looks when no --config flag is given
func DefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "enjoi", "config.yaml")
}

// WriteDefault writes the default configuration as YAML to path.
// It refuses to overwrite an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to encode default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

func getConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	return filepath.Join(os.TempDir(), ".config")
}

func getStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state")
	}
	return filepath.Join(os.TempDir(), ".local", "state")
}
