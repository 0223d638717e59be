package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Record source names accepted by RECORD_SOURCE.
const (
	SourceAPI     = "api"
	SourceSheets  = "sheets"
	SourceMongoDB = "mongodb"
)

// Config represents the full application configuration surface.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Source  SourceConfig
	API     APIConfig
	Sheets  SheetsConfig
	MongoDB MongoDBConfig
	Expiry  ExpiryConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level  string
	Format string
}

// SourceConfig selects where product and maintenance records are read from.
type SourceConfig struct {
	Kind string
}

// APIConfig contains the upstream product/maintenance REST API settings.
type APIConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// SheetsConfig contains configuration required to read the Google Sheets registry.
type SheetsConfig struct {
	CredentialsPath  string
	SpreadsheetID    string
	ProductsRange    string
	MaintenanceRange string
}

// MongoDBConfig holds settings for the MongoDB catalog mirror.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// ExpiryConfig holds engine and scheduler settings.
type ExpiryConfig struct {
	DefaultYears int
	CronSchedule string
	Timezone     string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	timeout, err := getenvDuration("API_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	defaultYears, err := getenvInt("EXPIRY_DEFAULT_YEARS", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level:  getenvWithDefault("LOG_LEVEL", "info"),
			Format: getenvWithDefault("LOG_FORMAT", "json"),
		},
		Source: SourceConfig{
			Kind: getenvWithDefault("RECORD_SOURCE", SourceAPI),
		},
		API: APIConfig{
			BaseURL: os.Getenv("API_BASE_URL"),
			Token:   os.Getenv("API_TOKEN"),
			Timeout: timeout,
		},
		Sheets: SheetsConfig{
			CredentialsPath:  os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:    os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			ProductsRange:    getenvWithDefault("SHEETS_PRODUCTS_RANGE", "Prodotti!A2:F"),
			MaintenanceRange: getenvWithDefault("SHEETS_MAINTENANCE_RANGE", "Interventi!A2:P"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "signcare"),
		},
		Expiry: ExpiryConfig{
			DefaultYears: defaultYears,
			CronSchedule: getenvWithDefault("EXPIRY_CRON_SCHEDULE", "0 7 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "Europe/Rome"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Source.Kind {
	case SourceAPI:
		if c.API.BaseURL == "" {
			return errors.New("API_BASE_URL must be provided when RECORD_SOURCE=api")
		}
	case SourceSheets:
		switch {
		case c.Sheets.CredentialsPath == "":
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when RECORD_SOURCE=sheets")
		case c.Sheets.SpreadsheetID == "":
			return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided when RECORD_SOURCE=sheets")
		}
	case SourceMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided when RECORD_SOURCE=mongodb")
		}
	default:
		return fmt.Errorf("RECORD_SOURCE %q is not one of api, sheets, mongodb", c.Source.Kind)
	}

	if c.Expiry.DefaultYears <= 0 {
		return errors.New("EXPIRY_DEFAULT_YEARS must be positive")
	}

	if c.Expiry.CronSchedule == "" {
		return errors.New("EXPIRY_CRON_SCHEDULE must be provided")
	}

	if _, err := time.LoadLocation(c.Expiry.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Expiry.Timezone, err)
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
