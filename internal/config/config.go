// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultSessionSecret is only acceptable outside production
const DefaultSessionSecret = "jumper-dev-session-secret"

// Store backends
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// Env is the application environment ("development", "production").
	Env string `mapstructure:"APP_ENV"`
	// AppName is used as the session token issuer.
	AppName string `mapstructure:"APP_NAME"`
	// HTTPAddr is the address the HTTP server listens on (e.g. :3001).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"LOG_LEVEL"`

	CORSEnabled   bool   `mapstructure:"CORS_ENABLED"`
	CORSWhitelist string `mapstructure:"CORS_WHITELIST"`

	// SessionName is the cookie name.
	SessionName string `mapstructure:"AUTH_SESSION_NAME"`
	// SessionSecret signs the session cookie. Must be changed in production.
	SessionSecret string `mapstructure:"AUTH_SESSION_SECRET"`
	// SessionTTLRaw is the session lifetime (e.g. "15m").
	SessionTTLRaw string `mapstructure:"AUTH_SESSION_TTL"`
	// SIWEDomain, when set, is the only domain accepted in signed messages.
	SIWEDomain string `mapstructure:"SIWE_DOMAIN"`

	// WalletStore is memory, redis or postgres.
	WalletStore string `mapstructure:"WALLET_STORE"`
	// SessionStore is memory or redis.
	SessionStore string `mapstructure:"SESSION_STORE"`
	RedisURL     string `mapstructure:"REDIS_URL"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`

	// EventsEnabled publishes login/logout events to Redis streams.
	EventsEnabled     bool   `mapstructure:"EVENTS_ENABLED"`
	EventsTopicPrefix string `mapstructure:"EVENTS_TOPIC_PREFIX"`

	RPCAPIKey string `mapstructure:"RPC_API_KEY"`
	// RPCURLTemplate is formatted with the chain network and the API key.
	RPCURLTemplate string `mapstructure:"RPC_URL_TEMPLATE"`
	// ChainTimeoutRaw bounds each per-chain balance query (e.g. "10s").
	ChainTimeoutRaw string `mapstructure:"BALANCE_CHAIN_TIMEOUT"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "jumper")
	v.SetDefault("HTTP_ADDR", ":3001")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ENABLED", false)
	v.SetDefault("CORS_WHITELIST", "")
	v.SetDefault("AUTH_SESSION_NAME", "jumper.session.id")
	v.SetDefault("AUTH_SESSION_SECRET", DefaultSessionSecret)
	v.SetDefault("AUTH_SESSION_TTL", "15m")
	v.SetDefault("SIWE_DOMAIN", "")
	v.SetDefault("WALLET_STORE", StoreMemory)
	v.SetDefault("SESSION_STORE", StoreMemory)
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("EVENTS_ENABLED", false)
	v.SetDefault("EVENTS_TOPIC_PREFIX", "jumper.")
	v.SetDefault("RPC_API_KEY", "")
	v.SetDefault("RPC_URL_TEMPLATE", "https://%s.g.alchemy.com/v2/%s")
	v.SetDefault("BALANCE_CHAIN_TIMEOUT", "10s")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field combinations that cannot work together
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return errors.New("config: HTTP_ADDR must be set")
	}

	switch c.WalletStore {
	case StoreMemory, StoreRedis, StorePostgres:
	default:
		return fmt.Errorf("config: unknown WALLET_STORE %q", c.WalletStore)
	}
	switch c.SessionStore {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("config: unknown SESSION_STORE %q", c.SessionStore)
	}

	if c.WalletStore == StorePostgres && c.DatabaseURL == "" {
		return errors.New("config: DATABASE_URL must be set when WALLET_STORE=postgres")
	}
	if c.UsesRedis() && c.RedisURL == "" {
		return errors.New("config: REDIS_URL must be set when a Redis backend is selected")
	}

	if c.SessionSecret == "" {
		return errors.New("config: AUTH_SESSION_SECRET must be set")
	}
	if c.IsProduction() && c.SessionSecret == DefaultSessionSecret {
		return errors.New("config: AUTH_SESSION_SECRET must be changed when APP_ENV=production")
	}

	if _, err := time.ParseDuration(c.SessionTTLRaw); err != nil {
		return fmt.Errorf("config: invalid AUTH_SESSION_TTL: %w", err)
	}
	if _, err := time.ParseDuration(c.ChainTimeoutRaw); err != nil {
		return fmt.Errorf("config: invalid BALANCE_CHAIN_TIMEOUT: %w", err)
	}
	return nil
}

// IsProduction reports whether APP_ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// UsesRedis reports whether any component needs a Redis connection
func (c *Config) UsesRedis() bool {
	return c.WalletStore == StoreRedis || c.SessionStore == StoreRedis || c.EventsEnabled
}

// SessionTTL parses SessionTTLRaw. Returns 15m if unset or invalid.
func (c *Config) SessionTTL() time.Duration {
	d, err := time.ParseDuration(c.SessionTTLRaw)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// ChainTimeout parses ChainTimeoutRaw. Returns 10s if unset or invalid.
func (c *Config) ChainTimeout() time.Duration {
	d, err := time.ParseDuration(c.ChainTimeoutRaw)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// CORSOrigins returns the whitelisted origins from the comma-separated config.
func (c *Config) CORSOrigins() []string {
	if c == nil || c.CORSWhitelist == "" {
		return nil
	}
	parts := strings.Split(c.CORSWhitelist, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
