package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 模型傳輸方式
const (
	TransportBedrock = "bedrock"
	TransportGateway = "gateway"
)

// 收藏儲存後端
const (
	FavoritesDynamoDB = "dynamodb"
	FavoritesRedis    = "redis"
	FavoritesSQLite   = "sqlite"
	FavoritesNone     = "none"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Model       ModelConfig     `mapstructure:"model"`
	Favorites   FavoritesConfig `mapstructure:"favorites"`
	Auth        AuthConfig      `mapstructure:"auth"`
	Cache       CacheConfig     `mapstructure:"cache"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// ModelConfig 文字生成模型設定
type ModelConfig struct {
	ID            string        `mapstructure:"id"`
	MaxTokens     int           `mapstructure:"max_tokens"`
	Temperature   float64       `mapstructure:"temperature"`
	Region        string        `mapstructure:"region"`
	Transport     string        `mapstructure:"transport"`
	GatewayURL    string        `mapstructure:"gateway_url"`
	GatewayAPIKey string        `mapstructure:"gateway_api_key"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// FavoritesConfig 收藏儲存設定
type FavoritesConfig struct {
	Backend       string `mapstructure:"backend"`
	Table         string `mapstructure:"table"`
	Region        string `mapstructure:"region"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	SQLitePath    string `mapstructure:"sqlite_path"`
}

// AuthConfig 呼叫者身分設定
type AuthConfig struct {
	// TrustUpstream 為 true 時表示前方已有授權器驗證過 JWT 並設定身分池標頭
	TrustUpstream bool   `mapstructure:"trust_upstream"`
	JWTSecret     string `mapstructure:"jwt_secret"`
	JWTPublicKey  string `mapstructure:"jwt_public_key"` // RS256 公鑰 (PEM)
	Issuer        string `mapstructure:"issuer"`
}

// CacheConfig 食譜快取設定
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 不存在時直接使用環境變數
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量（沿用雲端函式的變數名稱）
	_ = v.BindEnv("model.id", "MODEL_ID")
	_ = v.BindEnv("model.max_tokens", "MAX_TOKENS")
	_ = v.BindEnv("model.temperature", "TEMPERATURE")
	_ = v.BindEnv("model.region", "AWS_REGION")
	_ = v.BindEnv("model.transport", "MODEL_TRANSPORT")
	_ = v.BindEnv("model.gateway_url", "MODEL_GATEWAY_URL")
	_ = v.BindEnv("model.gateway_api_key", "MODEL_GATEWAY_API_KEY")
	_ = v.BindEnv("favorites.backend", "FAVORITES_BACKEND")
	_ = v.BindEnv("favorites.table", "TABLE_NAME", "STORAGE_FAVORITESTABLE_NAME")
	_ = v.BindEnv("favorites.region", "AWS_REGION")
	_ = v.BindEnv("favorites.redis_addr", "REDIS_ADDR")
	_ = v.BindEnv("favorites.redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("favorites.sqlite_path", "FAVORITES_SQLITE_PATH")
	_ = v.BindEnv("auth.trust_upstream", "AUTH_TRUST_UPSTREAM")
	_ = v.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET")
	_ = v.BindEnv("auth.jwt_public_key", "AUTH_JWT_PUBLIC_KEY")
	_ = v.BindEnv("auth.issuer", "AUTH_JWT_ISSUER")
	_ = v.BindEnv("cache.enabled", "CACHE_ENABLED")
	_ = v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	_ = v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	_ = v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	_ = v.BindEnv("dedup_window", "DEDUP_WINDOW")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("server.port", "PORT")

	// 解析設定
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	normalize(&config)

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "grocery-planning")
	v.SetDefault("log_level", "info")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "150s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "120s")

	// 模型設定
	v.SetDefault("model.id", "amazon.titan-text-lite-v1")
	v.SetDefault("model.max_tokens", 600)
	v.SetDefault("model.temperature", 0.3)
	v.SetDefault("model.region", "eu-central-1")
	v.SetDefault("model.transport", TransportBedrock)
	v.SetDefault("model.timeout", "60s")

	// 收藏設定
	v.SetDefault("favorites.backend", FavoritesDynamoDB)
	v.SetDefault("favorites.region", "eu-central-1")
	v.SetDefault("favorites.redis_addr", "localhost:6379")
	v.SetDefault("favorites.redis_db", 0)
	v.SetDefault("favorites.sqlite_path", "data/favorites.db")

	// 身分設定
	v.SetDefault("auth.trust_upstream", false)

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_size", 500)
	v.SetDefault("cache.ttl", "6h")
	v.SetDefault("cache.cleanup_interval", "10m")

	// 限流設定
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.requests", 60)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("dedup_window", "1s")
}

// normalize 清理字串設定
func normalize(config *Config) {
	config.Model.ID = strings.TrimSpace(config.Model.ID)
	config.Model.Region = strings.TrimSpace(config.Model.Region)
	config.Model.Transport = strings.ToLower(strings.TrimSpace(config.Model.Transport))
	config.Model.GatewayURL = strings.TrimRight(strings.TrimSpace(config.Model.GatewayURL), "/")
	config.Favorites.Backend = strings.ToLower(strings.TrimSpace(config.Favorites.Backend))
	config.Favorites.Table = strings.TrimSpace(config.Favorites.Table)
	config.Favorites.Region = strings.TrimSpace(config.Favorites.Region)
	config.Auth.JWTPublicKey = strings.TrimSpace(config.Auth.JWTPublicKey)
	config.Auth.Issuer = strings.TrimSpace(config.Auth.Issuer)
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證模型設定
	if config.Model.ID == "" {
		return fmt.Errorf("model id is required")
	}
	if config.Model.MaxTokens <= 0 {
		return fmt.Errorf("invalid model max tokens: %d", config.Model.MaxTokens)
	}
	if config.Model.Temperature < 0 || config.Model.Temperature > 1 {
		return fmt.Errorf("invalid model temperature: %v", config.Model.Temperature)
	}
	switch config.Model.Transport {
	case TransportBedrock:
	case TransportGateway:
		if config.Model.GatewayURL == "" {
			return fmt.Errorf("model gateway url is required for transport %q", TransportGateway)
		}
	default:
		return fmt.Errorf("unknown model transport %q", config.Model.Transport)
	}

	// 驗證收藏設定
	switch config.Favorites.Backend {
	case FavoritesNone, FavoritesRedis, FavoritesSQLite:
	case FavoritesDynamoDB:
		if config.Favorites.Table != "" && config.Favorites.Region == "" {
			return fmt.Errorf("favorites region is required for backend %q", FavoritesDynamoDB)
		}
	default:
		return fmt.Errorf("unknown favorites backend %q", config.Favorites.Backend)
	}

	// 驗證身分設定
	if config.Auth.JWTSecret != "" && config.Auth.JWTPublicKey != "" {
		return fmt.Errorf("auth jwt secret and public key are mutually exclusive")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	// 驗證限流設定
	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit")
	}

	return nil
}

// FavoritesEnabled 是否已設定收藏儲存
func (c *Config) FavoritesEnabled() bool {
	return c.Favorites.Backend != FavoritesNone && c.Favorites.Table != ""
}
