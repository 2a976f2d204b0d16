package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("JWT_SECRET", testSecret)
}

func TestLoad_RequiredDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", testSecret)

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required")
}

func TestLoad_RequiredJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}

func TestLoad_DefaultValues(t *testing.T) {
	setRequired(t)
	for _, key := range []string{"API_PORT", "LOG_LEVEL", "LOG_FILE", "APP_ENV", "JWT_ISSUER",
		"TOKEN_TTL", "RATE_LIMIT_REQUESTS", "RATE_LIMIT_BURST", "DEFAULT_PER_PAGE", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.APIPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.LogFile)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "posts-api", cfg.JWTIssuer)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 10.0, cfg.RateLimitRequests)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, 15, cfg.DefaultPerPage)
}

func TestLoad_CustomValues(t *testing.T) {
	setRequired(t)
	t.Setenv("API_PORT", "9090")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("DEFAULT_PER_PAGE", "30")
	t.Setenv("RATE_LIMIT_REQUESTS", "2.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.APIPort)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 30, cfg.DefaultPerPage)
	assert.Equal(t, 2.5, cfg.RateLimitRequests)
}

func TestLoad_InvalidPort(t *testing.T) {
	setRequired(t)
	t.Setenv("API_PORT", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "API_PORT must be a valid integer")
}

func TestLoad_InvalidTokenTTL(t *testing.T) {
	setRequired(t)
	t.Setenv("TOKEN_TTL", "forever")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_TTL must be a valid duration")
}

func TestValidate(t *testing.T) {
	valid := Config{
		DatabaseURL:    "sqlite://posts.db",
		JWTSecret:      "secret",
		APIPort:        8080,
		TokenTTL:       time.Hour,
		DefaultPerPage: 15,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"port", func(c *Config) { c.APIPort = 70000 }, "APIPort"},
		{"ttl", func(c *Config) { c.TokenTTL = 0 }, "TokenTTL"},
		{"per page", func(c *Config) { c.DefaultPerPage = 500 }, "DefaultPerPage"},
		{"secret", func(c *Config) { c.JWTSecret = "" }, "JWTSecret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateProduction_ShortSecret(t *testing.T) {
	cfg := &Config{
		DatabaseURL:    "postgres://localhost/test?sslmode=require",
		AppEnv:         "production",
		JWTSecret:      "short",
		AllowedOrigins: "http://example.com",
	}

	err := cfg.ValidateProduction()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET must be at least")
}

func TestValidateProduction_RequiresAllowedOrigins(t *testing.T) {
	cfg := &Config{
		DatabaseURL: "postgres://localhost/test",
		AppEnv:      "production",
		JWTSecret:   testSecret,
	}

	err := cfg.ValidateProduction()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ALLOWED_ORIGINS is required")
}

func TestValidateProduction_NoWildcardOrigins(t *testing.T) {
	cfg := &Config{
		DatabaseURL:    "postgres://localhost/test",
		AppEnv:         "production",
		JWTSecret:      testSecret,
		AllowedOrigins: "*",
	}

	err := cfg.ValidateProduction()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "wildcard")
}

func TestValidateProduction_NoSSLDisable(t *testing.T) {
	cfg := &Config{
		DatabaseURL:    "postgres://localhost/test?sslmode=disable",
		AppEnv:         "production",
		JWTSecret:      testSecret,
		AllowedOrigins: "http://example.com",
	}

	err := cfg.ValidateProduction()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sslmode=disable")
}

func TestValidateProduction_ValidConfig(t *testing.T) {
	cfg := &Config{
		DatabaseURL:    "postgres://localhost/test?sslmode=require",
		AppEnv:         "production",
		JWTSecret:      testSecret,
		AllowedOrigins: "http://example.com",
	}

	assert.NoError(t, cfg.ValidateProduction())
}

func TestLoadWithValidation_ProductionChecks(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("ALLOWED_ORIGINS", "")

	_, err := LoadWithValidation()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ALLOWED_ORIGINS is required")
}

func TestOrigins(t *testing.T) {
	cfg := &Config{AllowedOrigins: " http://a.example , ,http://b.example"}
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Origins())

	empty := &Config{}
	assert.Nil(t, empty.Origins())
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := strings.Join([]string{
		"POSTS_TEST_FROM_FILE=file-value",
		"POSTS_TEST_ALREADY_SET=file-value",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("POSTS_TEST_ALREADY_SET", "env-value")
	t.Setenv("POSTS_TEST_FROM_FILE", "")
	os.Unsetenv("POSTS_TEST_FROM_FILE")

	require.NoError(t, LoadEnvFiles(path, filepath.Join(dir, "missing.env")))

	assert.Equal(t, "file-value", os.Getenv("POSTS_TEST_FROM_FILE"))
	assert.Equal(t, "env-value", os.Getenv("POSTS_TEST_ALREADY_SET"))
}
