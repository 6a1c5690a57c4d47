package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Env: EnvDevelopment,
		LLM: LLMConfig{
			APIKey:  "test-key",
			BaseURL: "https://llm.example.com/v1",
		},
		ImageGen: ImageGenConfig{
			BaseURL: "https://img.example.com/prompt/",
			Width:   1024,
			Height:  768,
		},
		Pipeline: PipelineConfig{Timeout: time.Minute},
	}
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{
		Host: "redis.example.com",
		Port: 6380,
	}

	if got := cfg.Addr(); got != "redis.example.com:6380" {
		t.Errorf("Addr() = %v, want redis.example.com:6380", got)
	}
}

func TestTemporalConfig_Addr(t *testing.T) {
	cfg := TemporalConfig{
		Host: "temporal.example.com",
		Port: 7234,
	}

	if got := cfg.Addr(); got != "temporal.example.com:7234" {
		t.Errorf("Addr() = %v, want temporal.example.com:7234", got)
	}
}

func TestServerConfig_Addr(t *testing.T) {
	cfg := ServerConfig{Host: "0.0.0.0", Port: 8080}
	if got := cfg.Addr(); got != "0.0.0.0:8080" {
		t.Errorf("Addr() = %v, want 0.0.0.0:8080", got)
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name     string
		env      Environment
		expected bool
	}{
		{name: "development", env: EnvDevelopment, expected: true},
		{name: "staging", env: EnvStaging, expected: false},
		{name: "production", env: EnvProduction, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Env: tt.env}
			if got := cfg.IsDevelopment(); got != tt.expected {
				t.Errorf("IsDevelopment() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := &Config{Env: EnvProduction}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}
	cfg.Env = EnvStaging
	if cfg.IsProduction() {
		t.Error("IsProduction() = true for staging")
	}
}

func TestConfig_GetLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		debug    bool
		logLevel string
		expected string
	}{
		{name: "debug mode overrides", debug: true, logLevel: "info", expected: "debug"},
		{name: "normal mode uses log level", debug: false, logLevel: "warn", expected: "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Debug: tt.debug, LogLevel: tt.logLevel}
			if got := cfg.GetLogLevel(); got != tt.expected {
				t.Errorf("GetLogLevel() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing API key",
			mutate:  func(c *Config) { c.LLM.APIKey = "" },
			wantErr: true,
		},
		{
			name:    "missing LLM base URL",
			mutate:  func(c *Config) { c.LLM.BaseURL = "" },
			wantErr: true,
		},
		{
			name:    "zero image size",
			mutate:  func(c *Config) { c.ImageGen.Width = 0 },
			wantErr: true,
		},
		{
			name:    "zero pipeline timeout",
			mutate:  func(c *Config) { c.Pipeline.Timeout = 0 },
			wantErr: true,
		},
		{
			name:    "async generation without temporal",
			mutate:  func(c *Config) { c.Features.AsyncGeneration = true },
			wantErr: true,
		},
		{
			name: "async generation with temporal",
			mutate: func(c *Config) {
				c.Features.AsyncGeneration = true
				c.Temporal.Enabled = true
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("LLM_API_KEY", "env-key")
	t.Setenv("FEATURE_SEO_LLM", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LLM.APIKey != "env-key" {
		t.Errorf("LLM.APIKey = %v, want env-key", cfg.LLM.APIKey)
	}
	if cfg.Features.SEOUseLLM {
		t.Error("Features.SEOUseLLM should default to false")
	}
	if cfg.ImageGen.Width != 1024 || cfg.ImageGen.Height != 768 {
		t.Errorf("ImageGen size = %dx%d, want 1024x768", cfg.ImageGen.Width, cfg.ImageGen.Height)
	}
	if cfg.Pipeline.Timeout != 5*time.Minute {
		t.Errorf("Pipeline.Timeout = %v, want 5m", cfg.Pipeline.Timeout)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	t.Run("falls back to OPENAI_API_KEY", func(t *testing.T) {
		t.Setenv("LLM_API_KEY", "")
		t.Setenv("OPENAI_API_KEY", "fallback-key")

		cfg, err := LoadWithDefaults()
		if err != nil {
			t.Fatalf("LoadWithDefaults() error = %v", err)
		}
		if cfg.LLM.APIKey != "fallback-key" {
			t.Errorf("LLM.APIKey = %v, want fallback-key", cfg.LLM.APIKey)
		}
	})

	t.Run("does not require an API key", func(t *testing.T) {
		t.Setenv("LLM_API_KEY", "")
		t.Setenv("OPENAI_API_KEY", "")

		if _, err := LoadWithDefaults(); err != nil {
			t.Fatalf("LoadWithDefaults() error = %v", err)
		}
	})
}

func TestConfig_ChatEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		expected string
	}{
		{name: "same origin", base: "", expected: "/api/v1/sellerbot/chat"},
		{name: "absolute", base: "https://pages.example.com", expected: "https://pages.example.com/api/v1/sellerbot/chat"},
		{name: "trailing slash", base: "https://pages.example.com/", expected: "https://pages.example.com/api/v1/sellerbot/chat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Pipeline: PipelineConfig{PublicBaseURL: tt.base}}
			if got := cfg.ChatEndpoint(); got != tt.expected {
				t.Errorf("ChatEndpoint() = %v, want %v", got, tt.expected)
			}
		})
	}
}
