// Package config handles configuration loading for finlens.
// It supports YAML config files, an optional .env file and environment
// variable overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FINLENS_API_PORT.
const EnvPrefix = "FINLENS"

// Config represents the complete application configuration.
type Config struct {
	Normalize NormalizeConfig `mapstructure:"normalize" yaml:"normalize"`
	Format    FormatConfig    `mapstructure:"format"    yaml:"format"`
	API       APIConfig       `mapstructure:"api"       yaml:"api"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// NormalizeConfig holds report normalization defaults.
type NormalizeConfig struct {
	DefaultPeriod  string `mapstructure:"default_period"  yaml:"default_period"`  // e.g. "31st March 2024"
	DefaultCompany string `mapstructure:"default_company" yaml:"default_company"`
	FiscalYearEnd  string `mapstructure:"fiscal_year_end" yaml:"fiscal_year_end"` // "DD-MM"
	Concurrency    int    `mapstructure:"concurrency"     yaml:"concurrency"`
}

// FormatConfig holds display settings.
type FormatConfig struct {
	PercentDecimals int  `mapstructure:"percent_decimals" yaml:"percent_decimals"`
	CompactAmounts  bool `mapstructure:"compact_amounts"  yaml:"compact_amounts"` // ₹19.27 L instead of ₹19,27,345
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
	AuthToken   string   `mapstructure:"auth_token"   yaml:"auth_token"` // bearer token; empty disables auth
	RateLimit   int      `mapstructure:"rate_limit"   yaml:"rate_limit"` // POST requests per minute; 0 disables
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"` // "debug", "info", "warn", "error"
	Pretty bool   `mapstructure:"pretty" yaml:"pretty"`
}

// Addr returns the listen address.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.finlens/config.yaml (home directory)
//  3. /etc/finlens/config.yaml (system)
//
// A .env file in the working directory is loaded first when present.
// Environment variables override config file values.
// Format: FINLENS_<SECTION>_<KEY>, e.g., FINLENS_NORMALIZE_DEFAULT_PERIOD
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".finlens"))
	v.AddConfigPath("/etc/finlens")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return unmarshal(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return unmarshal(v)
}

func newViperNoEnv() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func newViper() *viper.Viper {
	v := newViperNoEnv()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	overrideFromEnv(&cfg)
	return &cfg, nil
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return cfg, nil
}

// loadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	return nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Normalization defaults (Indian fiscal year)
	v.SetDefault("normalize.default_period", "31st March 2024")
	v.SetDefault("normalize.default_company", "XYZ")
	v.SetDefault("normalize.fiscal_year_end", "31-03")
	v.SetDefault("normalize.concurrency", 4)

	// Format defaults
	v.SetDefault("format.percent_decimals", 2)
	v.SetDefault("format.compact_amounts", false)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("api.auth_token", "")
	v.SetDefault("api.rate_limit", 0)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.pretty", false)
}

// overrideFromEnv explicitly reads list and secret keys that AutomaticEnv
// does not map cleanly.
func overrideFromEnv(cfg *Config) {
	if token := os.Getenv(EnvPrefix + "_API_AUTH_TOKEN"); token != "" {
		cfg.API.AuthToken = token
	}
	if origins := os.Getenv(EnvPrefix + "_API_CORS_ORIGINS"); origins != "" {
		cfg.API.CORSOrigins = splitList(origins)
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
