// Package app assembles the generation stack shared by the API, the worker and the CLI.
package app

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/landingforge/landingforge/internal/agents"
	"github.com/landingforge/landingforge/internal/config"
	"github.com/landingforge/landingforge/internal/htmlgen"
	"github.com/landingforge/landingforge/internal/images"
	"github.com/landingforge/landingforge/internal/llm"
	"github.com/landingforge/landingforge/internal/observability"
	"github.com/landingforge/landingforge/internal/pipeline"
	"github.com/landingforge/landingforge/internal/resilience"
)

// Stack is everything needed to generate and chat
type Stack struct {
	LLM          *llm.Client
	Cache        *llm.ResponseCache
	Orchestrator *pipeline.Orchestrator
	Sellerbot    *agents.SellerbotAgent
	Builder      *images.Builder
	Inliner      *images.Inliner
}

// NewStack builds the LLM client, agents and orchestrator. metrics and redisClient may be nil.
func NewStack(cfg *config.Config, metrics *observability.Metrics, redisClient *redis.Client, logger *zap.Logger) (*Stack, error) {
	breaker := resilience.NewBreaker(resilience.Settings{
		Name:             "llm",
		FailureThreshold: cfg.LLM.BreakerFailures,
		CoolDown:         cfg.LLM.BreakerTimeout,
		IsFailure:        llm.IsBreakerFailure,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	opts := []llm.Option{llm.WithBreaker(breaker), llm.WithLogger(logger)}

	var cache *llm.ResponseCache
	if cfg.LLM.EnableCaching {
		cache = llm.NewResponseCache(llm.CacheConfig{TTL: cfg.LLM.CacheTTL}, redisClient, logger.Named("llm.cache"))
		opts = append(opts, llm.WithCache(cache))
	}
	if metrics != nil {
		opts = append(opts, llm.WithRecorder(metrics))
	}

	client, err := llm.NewClient(llm.Config{
		APIKey:       cfg.LLM.APIKey,
		BaseURL:      cfg.LLM.BaseURL,
		Model:        cfg.LLM.Model,
		Timeout:      cfg.LLM.Timeout,
		RateLimitRPM: cfg.LLM.RateLimitRPM,
		MaxRetries:   cfg.LLM.MaxRetries,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating llm client: %w", err)
	}

	deps := agents.Deps{LLM: client, Logger: logger}
	var pipelineMetrics pipeline.Metrics
	if metrics != nil {
		deps.Recorder = metrics
		pipelineMetrics = metrics
	}

	builder := images.NewBuilder(images.Config{
		BaseURL: cfg.ImageGen.BaseURL,
		Size:    images.Size{Width: cfg.ImageGen.Width, Height: cfg.ImageGen.Height},
		Enhance: cfg.ImageGen.Enhance,
		NoLogo:  cfg.ImageGen.NoLogo,
	})

	seo := agents.SEOConfig{
		UseLLM:            cfg.Features.SEOUseLLM,
		GoogleAnalyticsID: cfg.SEO.GoogleAnalyticsID,
		FacebookPixelID:   cfg.SEO.FacebookPixelID,
	}
	set := pipeline.NewAgents(deps, seo, rand.New(rand.NewSource(time.Now().UnixNano())))

	html := htmlgen.NewGenerator(htmlgen.Config{ChatEndpoint: cfg.ChatEndpoint()}, builder, logger)
	orch := pipeline.NewOrchestrator(pipeline.Config{
		Timeout:       cfg.Pipeline.Timeout,
		PublicBaseURL: cfg.Pipeline.PublicBaseURL,
	}, set, html, builder, pipelineMetrics, logger)

	inliner := images.NewInliner(images.InlinerConfig{
		Concurrency: cfg.ImageGen.InlineConcurrency,
		Timeout:     cfg.ImageGen.FetchTimeout,
	}, nil, logger)

	return &Stack{
		LLM:          client,
		Cache:        cache,
		Orchestrator: orch,
		Sellerbot:    set.Sellerbot,
		Builder:      builder,
		Inliner:      inliner,
	}, nil
}

// NewLogger creates a configured zap logger
func NewLogger(env config.Environment, level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	var zc zap.Config
	if env == config.EnvProduction {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(zapLevel)

	logger, err := zc.Build()
	if err != nil {
		// Fall back to basic logger
		logger, _ = zap.NewProduction()
	}
	return logger
}
