package config

import "os"

// SettingSource represents where a setting's value comes from.
type SettingSource string

const (
	SourceEnv     SettingSource = "env"
	SourceConfig  SettingSource = "config"
	SourceDefault SettingSource = "default"
)

// SettingStatus describes one effective setting for `finlens status`.
type SettingStatus struct {
	Name   string        `json:"name"`
	Value  string        `json:"value"`
	Source SettingSource `json:"source"`
	Secret bool          `json:"secret,omitempty"`
}

// Describe returns the effective value and origin of the user-facing
// settings. Secrets are masked.
func Describe(cfg *Config) ([]SettingStatus, error) {
	def, err := defaults()
	if err != nil {
		return nil, err
	}
	return []SettingStatus{
		checkSetting("Default Period", cfg.Normalize.DefaultPeriod, def.Normalize.DefaultPeriod, "NORMALIZE_DEFAULT_PERIOD", false),
		checkSetting("Default Company", cfg.Normalize.DefaultCompany, def.Normalize.DefaultCompany, "NORMALIZE_DEFAULT_COMPANY", false),
		checkSetting("Fiscal Year End", cfg.Normalize.FiscalYearEnd, def.Normalize.FiscalYearEnd, "NORMALIZE_FISCAL_YEAR_END", false),
		checkSetting("API Address", cfg.API.Addr(), def.API.Addr(), "API_PORT", false),
		checkSetting("API Auth Token", cfg.API.AuthToken, def.API.AuthToken, "API_AUTH_TOKEN", true),
		checkSetting("Log Level", cfg.Logging.Level, def.Logging.Level, "LOGGING_LEVEL", false),
	}, nil
}

// defaults returns the configuration with nothing but defaults applied.
func defaults() (Config, error) {
	return decode(newViperNoEnv())
}

// checkSetting decides where value came from.
func checkSetting(name, value, def, envKey string, secret bool) SettingStatus {
	status := SettingStatus{Name: name, Value: value, Secret: secret}

	switch {
	case os.Getenv(EnvPrefix+"_"+envKey) != "":
		status.Source = SourceEnv
	case value != def:
		status.Source = SourceConfig
	default:
		status.Source = SourceDefault
	}

	if secret && value != "" {
		status.Value = maskKey(value)
	}
	return status
}

// maskKey masks a secret for display, showing only first 3 and last 3 chars.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:3] + "..." + key[len(key)-3:]
}
