package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	DB        DBConfig
	Redis     RedisConfig
	S3        S3Config
	Log       LogConfig
	CORS      CORSConfig
	Providers ProvidersConfig
	Batch     BatchConfig
	Scoring   ScoringConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// StoreConfig selects the test-area persistence driver: postgres, redis or memory.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RedisConfig holds Redis connection settings for the keyed test-area store.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// S3Config holds AWS S3 settings for image uploads. Uploads are disabled when
// Bucket is empty.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// Enabled reports whether image uploads are configured.
func (s *S3Config) Enabled() bool {
	return s.Bucket != ""
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ProviderConfig holds settings for a single OCR provider.
type ProviderConfig struct {
	APIKey      string   `mapstructure:"api_key"`
	BaseURL     string   `mapstructure:"base_url"`
	TimeoutSecs int      `mapstructure:"timeout_secs"`
	MaxTokens   int      `mapstructure:"max_tokens"`
	Models      []string `mapstructure:"models"`
}

// Configured reports whether the provider has credentials.
func (p *ProviderConfig) Configured() bool {
	return p.APIKey != ""
}

// ProvidersConfig holds every OCR provider keyed by its registry name.
type ProvidersConfig struct {
	OpenAI ProviderConfig `mapstructure:"openai"`
	Gemini ProviderConfig `mapstructure:"gemini"`
	Claude ProviderConfig `mapstructure:"claude"`
}

// ByName returns the providers keyed by registry name.
func (p *ProvidersConfig) ByName() map[string]*ProviderConfig {
	return map[string]*ProviderConfig{
		"openai": &p.OpenAI,
		"gemini": &p.Gemini,
		"claude": &p.Claude,
	}
}

// BatchConfig bounds batched OCR runs.
type BatchConfig struct {
	MaxSize int           `mapstructure:"max_size"`
	Delay   time.Duration `mapstructure:"delay"`
}

// ScoringConfig holds defaults for accuracy scoring of stored results.
type ScoringConfig struct {
	Normalize bool `mapstructure:"normalize"`
}

// Load reads configuration from environment variables with the OCRBENCH_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("OCRBENCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "5m")
	v.SetDefault("server.environment", "development")

	v.SetDefault("store.driver", "memory")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "ocrbench")
	v.SetDefault("db.password", "ocrbench_secret")
	v.SetDefault("db.name", "ocrbench_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Redis defaults
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "ocrbench")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 10)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Provider defaults
	v.SetDefault("providers.openai.base_url", "https://api.openai.com/v1/chat/completions")
	v.SetDefault("providers.openai.timeout_secs", 120)
	v.SetDefault("providers.openai.max_tokens", 1000)
	v.SetDefault("providers.openai.models", "gpt-4o,gpt-4o-mini")
	v.SetDefault("providers.gemini.base_url", "https://generativelanguage.googleapis.com/v1beta/models")
	v.SetDefault("providers.gemini.timeout_secs", 120)
	v.SetDefault("providers.gemini.max_tokens", 1000)
	v.SetDefault("providers.gemini.models", "gemini-2.0-flash,gemini-2.0-flash-lite,gemini-2.0-pro-exp-02-05")
	v.SetDefault("providers.claude.base_url", "https://api.anthropic.com/v1/messages")
	v.SetDefault("providers.claude.timeout_secs", 120)
	v.SetDefault("providers.claude.max_tokens", 1000)
	v.SetDefault("providers.claude.models", "claude-sonnet-4-20250514")

	// Batch defaults
	v.SetDefault("batch.max_size", 20)
	v.SetDefault("batch.delay", "500ms")

	v.SetDefault("scoring.normalize", true)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                   "OCRBENCH_SERVER_PORT",
		"server.read_timeout":           "OCRBENCH_SERVER_READ_TIMEOUT",
		"server.write_timeout":          "OCRBENCH_SERVER_WRITE_TIMEOUT",
		"server.environment":            "OCRBENCH_SERVER_ENVIRONMENT",
		"store.driver":                  "OCRBENCH_STORE_DRIVER",
		"db.host":                       "OCRBENCH_DB_HOST",
		"db.port":                       "OCRBENCH_DB_PORT",
		"db.user":                       "OCRBENCH_DB_USER",
		"db.password":                   "OCRBENCH_DB_PASSWORD",
		"db.name":                       "OCRBENCH_DB_NAME",
		"db.sslmode":                    "OCRBENCH_DB_SSLMODE",
		"db.max_open":                   "OCRBENCH_DB_MAX_OPEN",
		"db.max_idle":                   "OCRBENCH_DB_MAX_IDLE",
		"redis.addr":                    "OCRBENCH_REDIS_ADDR",
		"redis.password":                "OCRBENCH_REDIS_PASSWORD",
		"redis.db":                      "OCRBENCH_REDIS_DB",
		"redis.key_prefix":              "OCRBENCH_REDIS_KEY_PREFIX",
		"s3.region":                     "OCRBENCH_S3_REGION",
		"s3.bucket":                     "OCRBENCH_S3_BUCKET",
		"s3.endpoint":                   "OCRBENCH_S3_ENDPOINT",
		"s3.access_key":                 "OCRBENCH_S3_ACCESS_KEY",
		"s3.secret_key":                 "OCRBENCH_S3_SECRET_KEY",
		"s3.max_file_size_mb":           "OCRBENCH_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":             "OCRBENCH_S3_PRESIGN_EXPIRY",
		"log.level":                     "OCRBENCH_LOG_LEVEL",
		"log.format":                    "OCRBENCH_LOG_FORMAT",
		"cors.allowed_origins":          "OCRBENCH_CORS_ALLOWED_ORIGINS",
		"providers.openai.api_key":      "OCRBENCH_PROVIDERS_OPENAI_API_KEY",
		"providers.openai.base_url":     "OCRBENCH_PROVIDERS_OPENAI_BASE_URL",
		"providers.openai.timeout_secs": "OCRBENCH_PROVIDERS_OPENAI_TIMEOUT_SECS",
		"providers.openai.max_tokens":   "OCRBENCH_PROVIDERS_OPENAI_MAX_TOKENS",
		"providers.openai.models":       "OCRBENCH_PROVIDERS_OPENAI_MODELS",
		"providers.gemini.api_key":      "OCRBENCH_PROVIDERS_GEMINI_API_KEY",
		"providers.gemini.base_url":     "OCRBENCH_PROVIDERS_GEMINI_BASE_URL",
		"providers.gemini.timeout_secs": "OCRBENCH_PROVIDERS_GEMINI_TIMEOUT_SECS",
		"providers.gemini.max_tokens":   "OCRBENCH_PROVIDERS_GEMINI_MAX_TOKENS",
		"providers.gemini.models":       "OCRBENCH_PROVIDERS_GEMINI_MODELS",
		"providers.claude.api_key":      "OCRBENCH_PROVIDERS_CLAUDE_API_KEY",
		"providers.claude.base_url":     "OCRBENCH_PROVIDERS_CLAUDE_BASE_URL",
		"providers.claude.timeout_secs": "OCRBENCH_PROVIDERS_CLAUDE_TIMEOUT_SECS",
		"providers.claude.max_tokens":   "OCRBENCH_PROVIDERS_CLAUDE_MAX_TOKENS",
		"providers.claude.models":       "OCRBENCH_PROVIDERS_CLAUDE_MODELS",
		"batch.max_size":                "OCRBENCH_BATCH_MAX_SIZE",
		"batch.delay":                   "OCRBENCH_BATCH_DELAY",
		"scoring.normalize":             "OCRBENCH_SCORING_NORMALIZE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if OCRBENCH_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("OCRBENCH_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}

	driver := strings.ToLower(strings.TrimSpace(v.GetString("store.driver")))
	switch driver {
	case "postgres", "redis", "memory":
	default:
		return nil, fmt.Errorf("config: unsupported store driver %q", driver)
	}
	cfg.Store = StoreConfig{Driver: driver}

	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Redis = RedisConfig{
		Addr:      v.GetString("redis.addr"),
		Password:  v.GetString("redis.password"),
		DB:        v.GetInt("redis.db"),
		KeyPrefix: v.GetString("redis.key_prefix"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}

	cfg.Providers = ProvidersConfig{
		OpenAI: loadProvider(v, "openai"),
		Gemini: loadProvider(v, "gemini"),
		Claude: loadProvider(v, "claude"),
	}

	cfg.Batch = BatchConfig{
		MaxSize: v.GetInt("batch.max_size"),
		Delay:   v.GetDuration("batch.delay"),
	}
	if cfg.Batch.MaxSize < 1 {
		return nil, fmt.Errorf("config: batch.max_size must be at least 1, got %d", cfg.Batch.MaxSize)
	}

	cfg.Scoring = ScoringConfig{
		Normalize: v.GetBool("scoring.normalize"),
	}

	return cfg, nil
}

func loadProvider(v *viper.Viper, name string) ProviderConfig {
	prefix := "providers." + name + "."
	return ProviderConfig{
		APIKey:      v.GetString(prefix + "api_key"),
		BaseURL:     v.GetString(prefix + "base_url"),
		TimeoutSecs: v.GetInt(prefix + "timeout_secs"),
		MaxTokens:   v.GetInt(prefix + "max_tokens"),
		Models:      splitList(v.GetString(prefix + "models")),
	}
}

// splitList parses a comma-separated string, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
