package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":3001", cfg.HTTPAddr)
	assert.Equal(t, "jumper.session.id", cfg.SessionName)
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL())
	assert.Equal(t, 10*time.Second, cfg.ChainTimeout())
	assert.Equal(t, StoreMemory, cfg.WalletStore)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.UsesRedis())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("AUTH_SESSION_TTL", "1h")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("CORS_WHITELIST", "http://localhost:3000, https://app.example.com,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, time.Hour, cfg.SessionTTL())
	assert.True(t, cfg.UsesRedis())
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.CORSOrigins())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "default secret in production", env: map[string]string{"APP_ENV": "production"}},
		{name: "unknown wallet store", env: map[string]string{"WALLET_STORE": "sqlite"}},
		{name: "postgres without dsn", env: map[string]string{"WALLET_STORE": "postgres"}},
		{name: "session store postgres", env: map[string]string{"SESSION_STORE": "postgres"}},
		{name: "bad ttl", env: map[string]string{"AUTH_SESSION_TTL": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_ProductionWithSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_SESSION_SECRET", "a-real-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
