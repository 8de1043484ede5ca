package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENVIRONMENT", "STORAGE_BACKEND", "SQLITE_PATH", "DATABASE_URL",
		"REDIS_URL", "MONGO_URI", "MONGO_DB", "JWT_SECRET", "TOKEN_TTL",
		"ALLOWED_ORIGINS", "RATE_LIMIT_RPM", "GEMINI_API_KEY", "API_KEY",
		"GEMINI_MODEL", "AI_TIMEOUT", "WARDS_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "sqlite", cfg.StorageBackend)
	assert.Equal(t, "fixmyward.db", cfg.SQLitePath)
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "gemini-3-flash-preview", cfg.GeminiModel)
	assert.Zero(t, cfg.AITimeout)
	assert.Empty(t, cfg.GeminiAPIKey)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("AI_TIMEOUT", "20s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("API_KEY", "legacy-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "redis", cfg.StorageBackend)
	assert.Equal(t, 20*time.Second, cfg.AITimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "legacy-key", cfg.GeminiAPIKey)

	t.Setenv("GEMINI_API_KEY", "primary-key")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "primary-key", cfg.GeminiAPIKey)
}

func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "eighty")
	t.Setenv("TOKEN_TTL", "3 days")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"memory in development", Config{StorageBackend: "memory", JWTSecret: devJWTSecret}, ""},
		{"unknown backend", Config{StorageBackend: "etcd"}, "unknown STORAGE_BACKEND"},
		{"postgres without url", Config{StorageBackend: "postgres"}, "DATABASE_URL"},
		{"postgres with url", Config{StorageBackend: "postgres", DatabaseURL: "postgres://x"}, ""},
		{"production dev secret", Config{Environment: "production", StorageBackend: "sqlite", JWTSecret: devJWTSecret}, "JWT_SECRET"},
		{"production memory", Config{Environment: "production", StorageBackend: "memory", JWTSecret: "s3cret"}, "memory storage"},
		{"production ok", Config{Environment: "production", StorageBackend: "mongo", JWTSecret: "s3cret"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
