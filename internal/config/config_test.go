package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	for _, e := range []string{
		"FINLENS_API_AUTH_TOKEN", "FINLENS_API_CORS_ORIGINS", "FINLENS_API_PORT",
		"FINLENS_NORMALIZE_DEFAULT_PERIOD", "FINLENS_LOGGING_LEVEL",
	} {
		os.Unsetenv(e)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Normalize.DefaultPeriod != "31st March 2024" {
		t.Errorf("Normalize.DefaultPeriod: got %q", cfg.Normalize.DefaultPeriod)
	}
	if cfg.Normalize.DefaultCompany != "XYZ" {
		t.Errorf("Normalize.DefaultCompany: got %q, want %q", cfg.Normalize.DefaultCompany, "XYZ")
	}
	if cfg.Normalize.FiscalYearEnd != "31-03" {
		t.Errorf("Normalize.FiscalYearEnd: got %q, want %q", cfg.Normalize.FiscalYearEnd, "31-03")
	}
	if cfg.Normalize.Concurrency != 4 {
		t.Errorf("Normalize.Concurrency: got %d, want 4", cfg.Normalize.Concurrency)
	}
	if cfg.Format.PercentDecimals != 2 {
		t.Errorf("Format.PercentDecimals: got %d, want 2", cfg.Format.PercentDecimals)
	}
	if cfg.API.Addr() != "0.0.0.0:8080" {
		t.Errorf("API.Addr(): got %q", cfg.API.Addr())
	}
	if len(cfg.API.CORSOrigins) != 1 || cfg.API.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("API.CORSOrigins: got %v", cfg.API.CORSOrigins)
	}
	if cfg.API.AuthToken != "" {
		t.Errorf("API.AuthToken should be empty by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Pretty {
		t.Error("Logging.Pretty should be false by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	content := []byte(`
normalize:
  default_period: "31st December 2023"
  default_company: "Acme Pvt Ltd"
  fiscal_year_end: "31-12"
  concurrency: 8
format:
  percent_decimals: 1
api:
  port: 9090
logging:
  level: debug
  pretty: true
`)
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}

	if cfg.Normalize.DefaultPeriod != "31st December 2023" {
		t.Errorf("Normalize.DefaultPeriod: got %q", cfg.Normalize.DefaultPeriod)
	}
	if cfg.Normalize.DefaultCompany != "Acme Pvt Ltd" {
		t.Errorf("Normalize.DefaultCompany: got %q", cfg.Normalize.DefaultCompany)
	}
	if cfg.Normalize.FiscalYearEnd != "31-12" {
		t.Errorf("Normalize.FiscalYearEnd: got %q", cfg.Normalize.FiscalYearEnd)
	}
	if cfg.Normalize.Concurrency != 8 {
		t.Errorf("Normalize.Concurrency: got %d, want 8", cfg.Normalize.Concurrency)
	}
	if cfg.Format.PercentDecimals != 1 {
		t.Errorf("Format.PercentDecimals: got %d, want 1", cfg.Format.PercentDecimals)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port: got %d, want 9090", cfg.API.Port)
	}
	// Unset values keep their defaults.
	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("API.Host: got %q, want default", cfg.API.Host)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.Pretty {
		t.Errorf("Logging: got %+v", cfg.Logging)
	}
}

func TestLoadFromFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent config file")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("FINLENS_NORMALIZE_DEFAULT_COMPANY", "Env Co")
	t.Setenv("FINLENS_API_CORS_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("FINLENS_API_AUTH_TOKEN", "secret-token-123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Normalize.DefaultCompany != "Env Co" {
		t.Errorf("Normalize.DefaultCompany: got %q, want %q", cfg.Normalize.DefaultCompany, "Env Co")
	}
	want := []string{"http://a.example", "http://b.example"}
	if !reflect.DeepEqual(cfg.API.CORSOrigins, want) {
		t.Errorf("API.CORSOrigins: got %v, want %v", cfg.API.CORSOrigins, want)
	}
	if cfg.API.AuthToken != "secret-token-123" {
		t.Errorf("API.AuthToken: got %q", cfg.API.AuthToken)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("FINLENS_TEST_DOTENV=loaded\n"), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("FINLENS_TEST_DOTENV") })

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv() error: %v", err)
	}
	if got := os.Getenv("FINLENS_TEST_DOTENV"); got != "loaded" {
		t.Errorf("FINLENS_TEST_DOTENV: got %q, want %q", got, "loaded")
	}
	if err := loadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a,b", []string{"a", "b"}},
		{" a , , b ", []string{"a", "b"}},
		{"", nil},
	}
	for _, tt := range tests {
		if got := splitList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitList(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

// ── Settings status ──

func TestMaskKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"short", "***"},
		{"12345678", "***"},
		{"sk-abcdefghijk", "sk-...ijk"},
	}
	for _, tt := range tests {
		if got := maskKey(tt.in); got != tt.want {
			t.Errorf("maskKey(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDescribeSources(t *testing.T) {
	os.Unsetenv("FINLENS_NORMALIZE_DEFAULT_PERIOD")
	t.Setenv("FINLENS_LOGGING_LEVEL", "debug")

	cfg, err := defaults()
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	cfg.Normalize.DefaultCompany = "Acme"
	cfg.Logging.Level = "debug"
	cfg.API.AuthToken = "tok-1234567890"

	byName := make(map[string]SettingStatus)
	settings, err := Describe(&cfg)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	for _, s := range settings {
		byName[s.Name] = s
	}

	if got := byName["Default Period"].Source; got != SourceDefault {
		t.Errorf("Default Period source: got %q, want %q", got, SourceDefault)
	}
	if got := byName["Default Company"].Source; got != SourceConfig {
		t.Errorf("Default Company source: got %q, want %q", got, SourceConfig)
	}
	if got := byName["Log Level"].Source; got != SourceEnv {
		t.Errorf("Log Level source: got %q, want %q", got, SourceEnv)
	}
	token := byName["API Auth Token"]
	if !token.Secret || token.Value != "tok...890" {
		t.Errorf("API Auth Token: got %+v", token)
	}
}

func TestHomeDirReturnsNonEmpty(t *testing.T) {
	if homeDir() == "" {
		t.Error("homeDir() returned empty string")
	}
}

func TestDecodeReportsBadValues(t *testing.T) {
	v := newViperNoEnv()
	v.Set("api.port", "not-a-port")
	if _, err := decode(v); err == nil {
		t.Error("expected an error for a non-numeric port")
	}

	cfg, err := defaults()
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port: got %d, want 8080", cfg.API.Port)
	}
}
