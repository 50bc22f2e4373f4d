package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable LoadFromEnv reads.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GA_KEY_FILE", "GA_VIEW_ID", "GA_API_BASE_URL",
		"GA_RATE_LIMIT_RPS", "GA_RATE_LIMIT_BURST", "GA_REQUEST_TIMEOUT",
		"GA_MAX_RETRIES", "GA_PAGE_SIZE", "LOG_LEVEL", "ENV",
		"S3_KEY_ID", "S3_SECRET", "S3_ENDPOINT", "S3_REGION",
		"GCS_CREDENTIALS_FILE", "AZURE_ACCOUNT_NAME", "AZURE_ACCOUNT_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadFromEnv_AllVarsSet(t *testing.T) {
	clearEnv(t)
	t.Setenv("GA_KEY_FILE", "/secrets/key.json")
	t.Setenv("GA_VIEW_ID", "123456")
	t.Setenv("GA_API_BASE_URL", "http://localhost:9000/v3/")
	t.Setenv("GA_RATE_LIMIT_RPS", "2.5")
	t.Setenv("GA_RATE_LIMIT_BURST", "4")
	t.Setenv("GA_REQUEST_TIMEOUT", "5s")
	t.Setenv("GA_MAX_RETRIES", "0")
	t.Setenv("GA_PAGE_SIZE", "10000")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/secrets/key.json", cfg.KeyFile)
	assert.Equal(t, "123456", cfg.ViewID)
	assert.Equal(t, "http://localhost:9000/v3", cfg.APIBaseURL)
	assert.InDelta(t, 2.5, cfg.RateLimitRPS, 0.0001)
	assert.Equal(t, 4, cfg.RateLimitBurst)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, 10000, cfg.PageSize)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Empty(t, cfg.Warnings)
	assert.Equal(t, "/secrets/key.json", cfg.Storage.GCSCredentialsFile, "GCS falls back to the GA key")
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.InDelta(t, 10.0, cfg.RateLimitRPS, 0.0001)
	assert.Equal(t, 1, cfg.RateLimitBurst)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 1000, cfg.PageSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.IsProduction())
	assert.Len(t, cfg.Warnings, 2)
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "non numeric view id", key: "GA_VIEW_ID", value: "ga:123"},
		{name: "page size too large", key: "GA_PAGE_SIZE", value: "20000"},
		{name: "page size not a number", key: "GA_PAGE_SIZE", value: "lots"},
		{name: "bad timeout", key: "GA_REQUEST_TIMEOUT", value: "soon"},
		{name: "negative rate", key: "GA_RATE_LIMIT_RPS", value: "-1"},
		{name: "negative retries", key: "GA_MAX_RETRIES", value: "-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := LoadFromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoadFromEnv_ProductionRequiresKeyFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GA_KEY_FILE")

	t.Setenv("GA_KEY_FILE", "/secrets/key.json")
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestLoadFromEnv_Storage(t *testing.T) {
	clearEnv(t)
	t.Setenv("S3_KEY_ID", "testkey")
	t.Setenv("S3_SECRET", "testsecret")
	t.Setenv("S3_REGION", "us-east-1")
	t.Setenv("AZURE_ACCOUNT_NAME", "acct")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.Storage.HasS3Config())
	require.NotNil(t, cfg.Storage.S3KeyID)
	assert.Equal(t, "testkey", *cfg.Storage.S3KeyID)
	assert.Nil(t, cfg.Storage.S3Endpoint)
	assert.False(t, cfg.Storage.HasAzureConfig(), "partial Azure config should return false")
}

func TestHasS3Config_PartialConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("S3_KEY_ID", "testkey")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.False(t, cfg.Storage.HasS3Config(), "partial S3 config should return false")
}

func TestSlogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.in}
		assert.Equal(t, tt.want, cfg.SlogLevel(), tt.in)
	}
}

func TestLoadDotEnv_FileNotFound(t *testing.T) {
	err := LoadDotEnv("/nonexistent/.env")
	if err != nil {
		t.Errorf("expected no error for missing .env, got: %v", err)
	}
}

func TestLoadDotEnv_ParsesKeyValue(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	err := os.WriteFile(envFile, []byte("TEST_KEY=test_value\nexport TEST_QUOTED='quoted value'\n"), 0644)
	if err != nil {
		t.Fatalf("write .env: %v", err)
	}

	if err := LoadDotEnv(envFile); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}

	if val := os.Getenv("TEST_KEY"); val != "test_value" {
		t.Errorf("TEST_KEY = %q, want %q", val, "test_value")
	}
	if val := os.Getenv("TEST_QUOTED"); val != "quoted value" {
		t.Errorf("TEST_QUOTED = %q, want %q", val, "quoted value")
	}
	_ = os.Unsetenv("TEST_KEY")
	_ = os.Unsetenv("TEST_QUOTED")
}

func TestLoadDotEnv_SkipsComments(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	err := os.WriteFile(envFile, []byte("# comment\nTEST_COMMENT_KEY=value\n"), 0644)
	if err != nil {
		t.Fatalf("write .env: %v", err)
	}

	if err := LoadDotEnv(envFile); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}

	if val := os.Getenv("TEST_COMMENT_KEY"); val != "value" {
		t.Errorf("TEST_COMMENT_KEY = %q, want %q", val, "value")
	}
	_ = os.Unsetenv("TEST_COMMENT_KEY")
}

func TestLoadDotEnv_EnvVarPrecedence(t *testing.T) {
	t.Setenv("TEST_PRECEDENCE_KEY", "from_env")

	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	err := os.WriteFile(envFile, []byte("TEST_PRECEDENCE_KEY=from_file\n"), 0644)
	if err != nil {
		t.Fatalf("write .env: %v", err)
	}

	if err := LoadDotEnv(envFile); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}

	if val := os.Getenv("TEST_PRECEDENCE_KEY"); val != "from_env" {
		t.Errorf("TEST_PRECEDENCE_KEY = %q, want %q (env precedence)", val, "from_env")
	}
}

func TestStripQuotes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", stripQuotes(`"abc"`))
	assert.Equal(t, "abc", stripQuotes(`'abc'`))
	assert.Equal(t, `"abc'`, stripQuotes(`"abc'`))
	assert.Equal(t, `"`, stripQuotes(`"`))
}
