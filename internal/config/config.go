// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gareport/internal/domain"
)

// DefaultAPIBaseURL is the reporting API root used when GA_API_BASE_URL is unset.
const DefaultAPIBaseURL = "https://www.googleapis.com/analytics/v3"

// StorageConfig holds optional object storage credentials for exports.
type StorageConfig struct {
	// S3 fields are nil when not configured.
	S3KeyID    *string
	S3Secret   *string
	S3Endpoint *string
	S3Region   *string

	GCSCredentialsFile string // service-account key for gs:// exports (defaults to the GA key file)

	AzureAccountName string
	AzureAccountKey  string
}

// HasS3Config returns true if all required S3 fields are set.
func (s *StorageConfig) HasS3Config() bool {
	return s.S3KeyID != nil && s.S3Secret != nil && s.S3Region != nil
}

// HasAzureConfig returns true if shared-key Azure credentials are set.
func (s *StorageConfig) HasAzureConfig() bool {
	return s.AzureAccountName != "" && s.AzureAccountKey != ""
}

// Config holds the configuration for the reporting client.
type Config struct {
	KeyFile    string // service-account JSON key file
	ViewID     string // default view id
	APIBaseURL string // reporting API root (default DefaultAPIBaseURL)

	// Request pacing
	RateLimitRPS   float64       // sustained requests per second (default 10)
	RateLimitBurst int           // burst capacity (default 1)
	RequestTimeout time.Duration // per-request timeout (default 60s)
	MaxRetries     int           // retries on 429 and 5xx (default 3)
	PageSize       int           // max-results sent when a query sets none (default 1000)

	LogLevel string // log level: debug, info, warn, error (default "info")
	Env      string // environment: "development" (default) or "production"

	Storage StorageConfig

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.ViewID != "" {
		if err := domain.ValidateViewID(c.ViewID); err != nil {
			return fmt.Errorf("GA_VIEW_ID: %w", err)
		}
	}
	if c.PageSize < 1 || c.PageSize > domain.MaxMaxResults {
		return fmt.Errorf("GA_PAGE_SIZE must be between 1 and %d, got %d", domain.MaxMaxResults, c.PageSize)
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("GA_RATE_LIMIT_RPS must be positive, got %v", c.RateLimitRPS)
	}
	if c.RateLimitBurst < 1 {
		return fmt.Errorf("GA_RATE_LIMIT_BURST must be at least 1, got %d", c.RateLimitBurst)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("GA_MAX_RETRIES must not be negative, got %d", c.MaxRetries)
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		KeyFile:    os.Getenv("GA_KEY_FILE"),
		ViewID:     strings.TrimSpace(os.Getenv("GA_VIEW_ID")),
		APIBaseURL: os.Getenv("GA_API_BASE_URL"),
		LogLevel:   os.Getenv("LOG_LEVEL"),
		Env:        os.Getenv("ENV"),
		MaxRetries: 3,
	}

	if v := os.Getenv("GA_RATE_LIMIT_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parse GA_RATE_LIMIT_RPS: %w", err)
		}
		cfg.RateLimitRPS = f
	}
	if v := os.Getenv("GA_RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse GA_RATE_LIMIT_BURST: %w", err)
		}
		cfg.RateLimitBurst = n
	}
	if v := os.Getenv("GA_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse GA_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if v := os.Getenv("GA_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse GA_MAX_RETRIES: %w", err)
		}
		cfg.MaxRetries = n
	}
	if v := os.Getenv("GA_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse GA_PAGE_SIZE: %w", err)
		}
		cfg.PageSize = n
	}

	// Storage fields are only set if present
	if v := os.Getenv("S3_KEY_ID"); v != "" {
		cfg.Storage.S3KeyID = &v
	}
	if v := os.Getenv("S3_SECRET"); v != "" {
		cfg.Storage.S3Secret = &v
	}
	if v := os.Getenv("S3_ENDPOINT"); v != "" {
		cfg.Storage.S3Endpoint = &v
	}
	if v := os.Getenv("S3_REGION"); v != "" {
		cfg.Storage.S3Region = &v
	}
	cfg.Storage.GCSCredentialsFile = os.Getenv("GCS_CREDENTIALS_FILE")
	cfg.Storage.AzureAccountName = os.Getenv("AZURE_ACCOUNT_NAME")
	cfg.Storage.AzureAccountKey = os.Getenv("AZURE_ACCOUNT_KEY")

	// Defaults
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if cfg.RateLimitRPS == 0 {
		cfg.RateLimitRPS = 10
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 1
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = domain.DefaultMaxResults
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Storage.GCSCredentialsFile == "" {
		cfg.Storage.GCSCredentialsFile = cfg.KeyFile
	}

	if cfg.KeyFile == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("GA_KEY_FILE must be set in production (ENV=production)")
		}
		cfg.Warnings = append(cfg.Warnings, "GA_KEY_FILE not set; queries will fail until a key file is configured")
	}
	if cfg.ViewID == "" {
		cfg.Warnings = append(cfg.Warnings, "GA_VIEW_ID not set; pass --view-id on every query")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv reads a .env file and sets any variables not already in the environment.
// Lines must be in KEY=VALUE format. Comments (#) and blank lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = stripQuotes(strings.TrimSpace(value))
		// Only set if not already in the environment (env vars take precedence)
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
