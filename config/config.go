package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"

	"github.com/guttosm/ofxpulse/internal/ofx"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	SERVER_RATE_LIMIT=60
//	SERVER_REQUEST_TIMEOUT=10s
//	POSTGRES_HOST=localhost
//	POSTGRES_PORT=5432
//	POSTGRES_USER=admin
//	POSTGRES_PASSWORD=secret
//	POSTGRES_DB=ofxpulse
//	POSTGRES_SSLMODE=disable
//	OFX_LOCATION=America/New_York
//	OFX_APPLY_TZ_OFFSET=false
//	OFX_FRACTIONAL_SECONDS=false
//	OFX_IGNORE_DATE_ERRORS=false
//	INGEST_BATCH_SIZE=5000
type Config struct {
	Server   ServerConfig   // HTTP server configuration
	Postgres PostgresConfig // PostgreSQL connection settings
	OFX      OFXConfig      // Date token interpretation
	Ingest   IngestConfig   // Statement ingestion tuning
}

// ServerConfig holds HTTP server settings.
//
// Fields:
//   - Port: listen port.
//   - RateLimit: requests per minute per client IP.
//   - RequestTimeout: deadline attached to every request context.
type ServerConfig struct {
	Port           string
	RateLimit      int
	RequestTimeout time.Duration
}

// PostgresConfig defines connection details for PostgreSQL.
// URL is the computed DSN used by database/sql.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// OFXConfig controls how the default date parser builds timestamps.
//
// Fields:
//   - Location: IANA name naive timestamps are interpreted in ("UTC", "Local", "Europe/Lisbon").
//   - ApplyZoneOffset: honour the "[-5:EST]" suffix instead of treating it as metadata.
//   - FractionalSeconds: keep the ".XXX" milliseconds.
//   - IgnoreDateErrors: skip rows whose dates do not form a valid calendar date.
type OFXConfig struct {
	Location          string
	ApplyZoneOffset   bool
	FractionalSeconds bool
	IgnoreDateErrors  bool
}

// IngestConfig holds the knobs of the statement ingestion pipeline.
type IngestConfig struct {
	BatchSize int
}

// AppConfig is the globally accessible configuration instance, populated
// once via LoadConfig().
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or invalid, validateConfig() terminates the app.
func LoadConfig() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_RATE_LIMIT", 60)
	viper.SetDefault("SERVER_REQUEST_TIMEOUT", "10s")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "ofxpulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("OFX_LOCATION", "UTC")
	viper.SetDefault("OFX_APPLY_TZ_OFFSET", false)
	viper.SetDefault("OFX_FRACTIONAL_SECONDS", false)
	viper.SetDefault("OFX_IGNORE_DATE_ERRORS", false)

	viper.SetDefault("INGEST_BATCH_SIZE", 5000)

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			RateLimit:      viper.GetInt("SERVER_RATE_LIMIT"),
			RequestTimeout: viper.GetDuration("SERVER_REQUEST_TIMEOUT"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		OFX: OFXConfig{
			Location:          viper.GetString("OFX_LOCATION"),
			ApplyZoneOffset:   viper.GetBool("OFX_APPLY_TZ_OFFSET"),
			FractionalSeconds: viper.GetBool("OFX_FRACTIONAL_SECONDS"),
			IgnoreDateErrors:  viper.GetBool("OFX_IGNORE_DATE_ERRORS"),
		},
		Ingest: IngestConfig{
			BatchSize: viper.GetInt("INGEST_BATCH_SIZE"),
		},
	}

	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	validateConfig()
}

// ParserOptions translates the OFX section into date parser options.
// An empty location means UTC.
func (c OFXConfig) ParserOptions() ([]ofx.Option, error) {
	opts := []ofx.Option{
		ofx.WithZoneOffset(c.ApplyZoneOffset),
		ofx.WithFractionalSeconds(c.FractionalSeconds),
	}
	if c.Location != "" {
		loc, err := time.LoadLocation(c.Location)
		if err != nil {
			return nil, fmt.Errorf("invalid OFX_LOCATION %q: %w", c.Location, err)
		}
		opts = append(opts, ofx.WithLocation(loc))
	}
	return opts, nil
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Server.RateLimit <= 0 {
		missing = append(missing, "SERVER_RATE_LIMIT")
	}
	if AppConfig.Server.RequestTimeout <= 0 {
		missing = append(missing, "SERVER_REQUEST_TIMEOUT")
	}
	if AppConfig.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if AppConfig.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if AppConfig.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if AppConfig.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if AppConfig.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if AppConfig.Ingest.BatchSize <= 0 {
		missing = append(missing, "INGEST_BATCH_SIZE")
	}

	if len(missing) > 0 {
		log.Fatalf("missing required environment variables: %v\n", missing)
	}

	if _, err := AppConfig.OFX.ParserOptions(); err != nil {
		log.Fatalf("invalid configuration: %v\n", err)
	}
}
