package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"APP_PORT", "LOG_LEVEL", "LOG_FORMAT", "RECORD_SOURCE", "API_BASE_URL", "API_TOKEN",
	"API_TIMEOUT", "GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID",
	"SHEETS_PRODUCTS_RANGE", "SHEETS_MAINTENANCE_RANGE", "MONGODB_URI", "MONGODB_DB_NAME",
	"EXPIRY_DEFAULT_YEARS", "EXPIRY_CRON_SCHEDULE", "TIMEZONE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		// Setenv registers the restore; godotenv only fills variables that are unset.
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeEnvFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "https://registry.example.test")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, SourceAPI, cfg.Source.Kind)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, 10, cfg.Expiry.DefaultYears)
	assert.Equal(t, "0 7 * * *", cfg.Expiry.CronSchedule)
	assert.Equal(t, "Europe/Rome", cfg.Expiry.Timezone)
	assert.Equal(t, "Prodotti!A2:F", cfg.Sheets.ProductsRange)
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "RECORD_SOURCE=mongodb\nMONGODB_URI=mongodb://localhost:27017\nEXPIRY_DEFAULT_YEARS=12\nAPI_TIMEOUT=3s\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SourceMongoDB, cfg.Source.Kind)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, 12, cfg.Expiry.DefaultYears)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "https://registry.example.test")
	t.Setenv("EXPIRY_DEFAULT_YEARS", "ten")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EXPIRY_DEFAULT_YEARS")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: "8080"},
			Source: SourceConfig{Kind: SourceAPI},
			API:    APIConfig{BaseURL: "https://registry.example.test"},
			Expiry: ExpiryConfig{DefaultYears: 10, CronSchedule: "0 7 * * *", Timezone: "UTC"},
		}
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing port", func(c *Config) { c.Server.Port = "" }, "APP_PORT"},
		{"unknown source", func(c *Config) { c.Source.Kind = "csv" }, "RECORD_SOURCE"},
		{"api without url", func(c *Config) { c.API.BaseURL = "" }, "API_BASE_URL"},
		{"sheets without credentials", func(c *Config) { c.Source.Kind = SourceSheets }, "GOOGLE_SHEETS_CREDENTIALS_PATH"},
		{"sheets without id", func(c *Config) {
			c.Source.Kind = SourceSheets
			c.Sheets.CredentialsPath = "/tmp/creds.json"
		}, "GOOGLE_SHEET_DATABASE_ID"},
		{"mongodb without uri", func(c *Config) { c.Source.Kind = SourceMongoDB }, "MONGODB_URI"},
		{"non-positive default years", func(c *Config) { c.Expiry.DefaultYears = 0 }, "EXPIRY_DEFAULT_YEARS"},
		{"bad timezone", func(c *Config) { c.Expiry.Timezone = "Mars/Olympus" }, "TIMEZONE"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}
