package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearModelEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MODEL_ID", "MAX_TOKENS", "TEMPERATURE", "AWS_REGION", "MODEL_TRANSPORT",
		"MODEL_GATEWAY_URL", "FAVORITES_BACKEND", "TABLE_NAME", "STORAGE_FAVORITESTABLE_NAME",
		"PORT", "CACHE_ENABLED", "RATE_LIMIT_ENABLED", "AUTH_TRUST_UPSTREAM", "AUTH_JWT_SECRET",
		"AUTH_JWT_PUBLIC_KEY", "AUTH_JWT_ISSUER",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearModelEnv(t)
	t.Setenv("MODEL_ID", "amazon.titan-text-lite-v1")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "amazon.titan-text-lite-v1", cfg.Model.ID)
	assert.Equal(t, 600, cfg.Model.MaxTokens)
	assert.InDelta(t, 0.3, cfg.Model.Temperature, 1e-9)
	assert.Equal(t, TransportBedrock, cfg.Model.Transport)
	assert.Equal(t, 60*time.Second, cfg.Model.Timeout)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, FavoritesDynamoDB, cfg.Favorites.Backend)
	assert.False(t, cfg.FavoritesEnabled())
	assert.False(t, cfg.Auth.TrustUpstream)
}

func TestLoadConfigTableNameSelectsDynamoDB(t *testing.T) {
	clearModelEnv(t)
	t.Setenv("MODEL_ID", "amazon.titan-text-lite-v1")
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("TABLE_NAME", "favorites-prod")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, FavoritesDynamoDB, cfg.Favorites.Backend)
	assert.Equal(t, "favorites-prod", cfg.Favorites.Table)
	assert.Equal(t, "us-east-1", cfg.Favorites.Region)
	assert.True(t, cfg.FavoritesEnabled())
}

func TestLoadConfigAuth(t *testing.T) {
	clearModelEnv(t)
	t.Setenv("MODEL_ID", "amazon.titan-text-lite-v1")
	t.Setenv("AUTH_TRUST_UPSTREAM", "true")
	t.Setenv("AUTH_JWT_ISSUER", " https://issuer.example ")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.Auth.TrustUpstream)
	assert.Equal(t, "https://issuer.example", cfg.Auth.Issuer)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	clearModelEnv(t)
	t.Setenv("MODEL_ID", "  anthropic.claude-3-haiku-20240307-v1:0 ")
	t.Setenv("MAX_TOKENS", "900")
	t.Setenv("TEMPERATURE", "0.5")
	t.Setenv("MODEL_TRANSPORT", "Gateway")
	t.Setenv("MODEL_GATEWAY_URL", "http://localhost:9000/")
	t.Setenv("FAVORITES_BACKEND", "sqlite")
	t.Setenv("STORAGE_FAVORITESTABLE_NAME", "favorites-dev")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "anthropic.claude-3-haiku-20240307-v1:0", cfg.Model.ID)
	assert.Equal(t, 900, cfg.Model.MaxTokens)
	assert.InDelta(t, 0.5, cfg.Model.Temperature, 1e-9)
	assert.Equal(t, TransportGateway, cfg.Model.Transport)
	assert.Equal(t, "http://localhost:9000", cfg.Model.GatewayURL)
	assert.Equal(t, FavoritesSQLite, cfg.Favorites.Backend)
	assert.Equal(t, "favorites-dev", cfg.Favorites.Table)
	assert.True(t, cfg.FavoritesEnabled())
}

func TestLoadConfigTableNamePrecedence(t *testing.T) {
	clearModelEnv(t)
	t.Setenv("MODEL_ID", "amazon.titan-text-lite-v1")
	t.Setenv("TABLE_NAME", "primary")
	t.Setenv("STORAGE_FAVORITESTABLE_NAME", "secondary")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "primary", cfg.Favorites.Table)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 8080},
			Model: ModelConfig{
				ID:          "amazon.titan-text-lite-v1",
				MaxTokens:   600,
				Temperature: 0.3,
				Transport:   TransportBedrock,
			},
			Favorites: FavoritesConfig{Backend: FavoritesNone},
			Cache:     CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Minute, CleanupInterval: time.Minute},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing port", func(c *Config) { c.Server.Port = 0 }, "server port"},
		{"missing model", func(c *Config) { c.Model.ID = "" }, "model id"},
		{"zero tokens", func(c *Config) { c.Model.MaxTokens = 0 }, "max tokens"},
		{"temperature too high", func(c *Config) { c.Model.Temperature = 1.5 }, "temperature"},
		{"unknown transport", func(c *Config) { c.Model.Transport = "grpc" }, "unknown model transport"},
		{"gateway without url", func(c *Config) { c.Model.Transport = TransportGateway }, "gateway url"},
		{"unknown backend", func(c *Config) { c.Favorites.Backend = "dynamo" }, "unknown favorites backend"},
		{"dynamodb without region", func(c *Config) {
			c.Favorites = FavoritesConfig{Backend: FavoritesDynamoDB, Table: "favs"}
		}, "favorites region"},
		{"dynamodb without table", func(c *Config) { c.Favorites = FavoritesConfig{Backend: FavoritesDynamoDB} }, ""},
		{"two jwt keys", func(c *Config) { c.Auth = AuthConfig{JWTSecret: "s", JWTPublicKey: "k"} }, "mutually exclusive"},
		{"bad cache size", func(c *Config) { c.Cache.MaxSize = 0 }, "cache max size"},
		{"cache disabled ignores size", func(c *Config) { c.Cache = CacheConfig{} }, ""},
		{"bad rate limit", func(c *Config) { c.RateLimit = RateLimitConfig{Enabled: true} }, "rate limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
