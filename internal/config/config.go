package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Environment represents the deployment environment
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Config holds all application configuration
type Config struct {
	// Environment
	Env      Environment `envconfig:"ENV" default:"development"`
	LogLevel string      `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool        `envconfig:"DEBUG" default:"false"`

	App      AppConfig
	Server   ServerConfig
	Redis    RedisConfig
	Temporal TemporalConfig

	// Chat-completions provider shared by every agent
	LLM LLMConfig

	// Image generation endpoint
	ImageGen ImageGenConfig

	// Exported landing pages (MinIO)
	Storage StorageConfig

	Pipeline   PipelineConfig
	SEO        SEOConfig
	Features   FeatureFlags
	RateLimits RateLimitConfig
	Security   SecurityConfig
}

// AppConfig holds application metadata
type AppConfig struct {
	Name    string `envconfig:"APP_NAME" default:"landingforge"`
	Version string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"180s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	MaxRequestSize  int64         `envconfig:"SERVER_MAX_REQUEST_SIZE" default:"10485760"` // 10MB, custom images are base64
}

// Addr returns the listen address
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig holds Redis settings
type RedisConfig struct {
	Enabled       bool          `envconfig:"REDIS_ENABLED" default:"true"`
	Host          string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port          int           `envconfig:"REDIS_PORT" default:"6379"`
	Password      string        `envconfig:"REDIS_PASSWORD" default:""`
	DB            int           `envconfig:"REDIS_DB" default:"0"`
	PoolSize      int           `envconfig:"REDIS_POOL_SIZE" default:"10"`
	MinIdleConns  int           `envconfig:"REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout   time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout   time.Duration `envconfig:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout  time.Duration `envconfig:"REDIS_WRITE_TIMEOUT" default:"3s"`
	GenerationTTL time.Duration `envconfig:"REDIS_GENERATION_TTL" default:"24h"`
}

// Addr returns Redis address
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TemporalConfig holds Temporal settings
type TemporalConfig struct {
	Enabled     bool   `envconfig:"TEMPORAL_ENABLED" default:"false"`
	Host        string `envconfig:"TEMPORAL_HOST" default:"localhost"`
	Port        int    `envconfig:"TEMPORAL_PORT" default:"7233"`
	Namespace   string `envconfig:"TEMPORAL_NAMESPACE" default:"landingforge"`
	TaskQueue   string `envconfig:"TEMPORAL_TASK_QUEUE" default:"landingforge-generations"`
	WorkerCount int    `envconfig:"TEMPORAL_WORKER_COUNT" default:"4"`
}

// Addr returns Temporal address
func (c TemporalConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LLMConfig holds chat-completions settings
type LLMConfig struct {
	APIKey        string        `envconfig:"LLM_API_KEY"`
	BaseURL       string        `envconfig:"LLM_BASE_URL" default:"https://api.groq.com/openai/v1"`
	Model         string        `envconfig:"LLM_MODEL" default:"llama-3.3-70b-versatile"`
	Timeout       time.Duration `envconfig:"LLM_TIMEOUT" default:"60s"`
	RateLimitRPM  int           `envconfig:"LLM_RATE_LIMIT_RPM" default:"30"`
	MaxRetries    int           `envconfig:"LLM_MAX_RETRIES" default:"0"`
	EnableCaching bool          `envconfig:"LLM_ENABLE_CACHING" default:"false"`
	CacheTTL      time.Duration `envconfig:"LLM_CACHE_TTL" default:"1h"`

	// Circuit breaker around the provider
	BreakerFailures int           `envconfig:"LLM_BREAKER_FAILURES" default:"5"`
	BreakerTimeout  time.Duration `envconfig:"LLM_BREAKER_TIMEOUT" default:"30s"`
}

// ImageGenConfig holds image-generation endpoint settings
type ImageGenConfig struct {
	BaseURL           string        `envconfig:"IMAGE_BASE_URL" default:"https://image.pollinations.ai/prompt/"`
	Width             int           `envconfig:"IMAGE_WIDTH" default:"1024"`
	Height            int           `envconfig:"IMAGE_HEIGHT" default:"768"`
	Enhance           bool          `envconfig:"IMAGE_ENHANCE" default:"true"`
	NoLogo            bool          `envconfig:"IMAGE_NOLOGO" default:"true"`
	InlineConcurrency int           `envconfig:"IMAGE_INLINE_CONCURRENCY" default:"4"`
	FetchTimeout      time.Duration `envconfig:"IMAGE_FETCH_TIMEOUT" default:"45s"`
}

// StorageConfig holds object storage settings
type StorageConfig struct {
	Enabled    bool          `envconfig:"STORAGE_ENABLED" default:"false"`
	Endpoint   string        `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKey  string        `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretKey  string        `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	Bucket     string        `envconfig:"STORAGE_BUCKET" default:"landing-pages"`
	Region     string        `envconfig:"STORAGE_REGION" default:"us-east-1"`
	UseSSL     bool          `envconfig:"STORAGE_USE_SSL" default:"false"`
	ExportPath string        `envconfig:"STORAGE_EXPORT_PATH" default:"exports"`
	PresignTTL time.Duration `envconfig:"STORAGE_PRESIGN_TTL" default:"24h"`
}

// PipelineConfig holds generation settings
type PipelineConfig struct {
	Timeout time.Duration `envconfig:"PIPELINE_TIMEOUT" default:"5m"`
	// PublicBaseURL is where rendered pages reach the chat proxy. Empty means same origin.
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:""`
}

// SEOConfig holds tracking identifiers injected into rendered pages
type SEOConfig struct {
	GoogleAnalyticsID string `envconfig:"SEO_GOOGLE_ANALYTICS_ID" default:""`
	FacebookPixelID   string `envconfig:"SEO_FACEBOOK_PIXEL_ID" default:""`
}

// FeatureFlags holds feature toggles
type FeatureFlags struct {
	// SEOUseLLM overlays the model's SEO answer on the deterministic record.
	SEOUseLLM       bool `envconfig:"FEATURE_SEO_LLM" default:"false"`
	AsyncGeneration bool `envconfig:"FEATURE_ASYNC_GENERATION" default:"false"`
	InlineOnExport  bool `envconfig:"FEATURE_INLINE_ON_EXPORT" default:"true"`
}

// RateLimitConfig holds rate limiting settings
type RateLimitConfig struct {
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerMin    int  `envconfig:"RATE_LIMIT_REQUESTS_PER_MIN" default:"60"`
	GenerationsPerMin int  `envconfig:"RATE_LIMIT_GENERATIONS_PER_MIN" default:"5"`
}

// SecurityConfig holds security settings
type SecurityConfig struct {
	CORSEnabled        bool     `envconfig:"CORS_ENABLED" default:"true"`
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// LoadWithDefaults loads config without failing validation (for CLI tools)
func LoadWithDefaults() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing config: %w", err)
	}

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errors []string

	if c.LLM.APIKey == "" {
		errors = append(errors, "LLM_API_KEY is required")
	}
	if c.LLM.BaseURL == "" {
		errors = append(errors, "LLM_BASE_URL is required")
	}
	if c.ImageGen.BaseURL == "" {
		errors = append(errors, "IMAGE_BASE_URL is required")
	}
	if c.ImageGen.Width <= 0 || c.ImageGen.Height <= 0 {
		errors = append(errors, "IMAGE_WIDTH and IMAGE_HEIGHT must be positive")
	}
	if c.Pipeline.Timeout <= 0 {
		errors = append(errors, "PIPELINE_TIMEOUT must be positive")
	}
	if c.Features.AsyncGeneration && !c.Temporal.Enabled {
		errors = append(errors, "FEATURE_ASYNC_GENERATION requires TEMPORAL_ENABLED")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// GetLogLevel returns the appropriate zap log level
func (c *Config) GetLogLevel() string {
	if c.Debug {
		return "debug"
	}
	return c.LogLevel
}

// ChatEndpoint is the proxy URL the rendered chat widget posts to.
func (c *Config) ChatEndpoint() string {
	return strings.TrimRight(c.Pipeline.PublicBaseURL, "/") + "/api/v1/sellerbot/chat"
}
