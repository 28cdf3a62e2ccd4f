// Package config loads the application configuration from a YAML file,
// environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".github-year-review"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for application settings.
const envPrefix = "YEAR_REVIEW"

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Defaults.
const (
	DefaultTimeout = 30 * time.Second
	DefaultFormat  = FormatTable
)

// ErrMissingToken is returned when no GitHub token is configured.
var ErrMissingToken = errors.New("GitHub token is not set (use GITHUB_TOKEN or YEAR_REVIEW_TOKEN)")

// GitHubConfig holds GitHub connection settings.
type GitHubConfig struct {
	EnterpriseURL string `mapstructure:"enterprise_url"`
}

// DashboardConfig points at an optional dashboard backend serving /api/repos and /api/issues.
// When BaseURL is empty the summaries are read from GitHub directly.
type DashboardConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// Config is the application configuration.
type Config struct {
	Token     string          `mapstructure:"token"`
	Timeout   time.Duration   `mapstructure:"timeout"`
	Format    string          `mapstructure:"format"`
	GitHub    GitHubConfig    `mapstructure:"github"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	switch c.Format {
	case FormatTable, FormatJSON:
	default:
		return fmt.Errorf("unsupported format %q (want %s or %s)", c.Format, FormatTable, FormatJSON)
	}
	return nil
}

// Load loads configuration from file, env vars, and defaults.
// A .env file in the working directory is loaded into the environment first;
// a missing .env is fine, an unreadable or malformed one is an error.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("token", envPrefix+"_TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("bind token env: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("token", "")
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("format", DefaultFormat)
	v.SetDefault("github.enterprise_url", "")
	v.SetDefault("dashboard.base_url", "")
}
