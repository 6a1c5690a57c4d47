package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/landingforge/landingforge/internal/resilience"
)

// Completer is what agents need from a chat-completions provider.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Message is one prior turn of a conversation
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Request is a single completion call
type Request struct {
	// Agent names the caller in logs, metrics and errors.
	Agent       string
	System      string
	History     []Message
	Prompt      string
	Temperature float32
	MaxTokens   int
	// Accept, when set, checks an answer before it is returned or cached.
	// Its error is returned as is and the answer is not cached.
	Accept func(text string) error
}

func (r Request) accept(text string) error {
	if r.Accept == nil {
		return nil
	}
	return r.Accept(text)
}

func (r Request) validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return NewInvalidError(r.op(), errors.New("empty prompt"))
	}
	if r.MaxTokens < 0 {
		return NewInvalidError(r.op(), fmt.Errorf("negative max tokens %d", r.MaxTokens))
	}
	for _, m := range r.History {
		if m.Role != openai.ChatMessageRoleUser && m.Role != openai.ChatMessageRoleAssistant {
			return NewInvalidError(r.op(), fmt.Errorf("unsupported history role %q", m.Role))
		}
	}
	return nil
}

func (r Request) op() string {
	if r.Agent == "" {
		return "complete"
	}
	return r.Agent
}

// Recorder receives per-call measurements. observability.Metrics implements it.
type Recorder interface {
	RecordLLMRequest(agent, status string, duration time.Duration)
	RecordLLMCacheHit(agent string)
}

// Config for the chat-completions client
type Config struct {
	APIKey       string
	BaseURL      string
	Model        string
	Timeout      time.Duration
	RateLimitRPM int
	MaxRetries   int
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:      "https://api.groq.com/openai/v1",
		Model:        "llama-3.3-70b-versatile",
		Timeout:      60 * time.Second,
		RateLimitRPM: 30,
	}
}

// Stats tracks API usage
type Stats struct {
	TotalRequests   int64
	SuccessRequests int64
	FailedRequests  int64
	TotalTokensIn   int64
	TotalTokensOut  int64
	TotalLatencyMs  int64
	CacheHits       int64
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	api        *openai.Client
	model      string
	maxRetries int

	rateLimiter *rate.Limiter
	breaker     *resilience.Breaker
	cache       *ResponseCache
	recorder    Recorder
	logger      *zap.Logger

	stats Stats
}

// Option customises a Client
type Option func(*Client)

// WithBreaker routes every call through b
func WithBreaker(b *resilience.Breaker) Option {
	return func(c *Client) { c.breaker = b }
}

// WithCache serves repeated identical requests from cache
func WithCache(rc *ResponseCache) Option {
	return func(c *Client) { c.cache = rc }
}

// WithRecorder reports call metrics to r
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a chat-completions client
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	defaults := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.RateLimitRPM == 0 {
		cfg.RateLimitRPM = defaults.RateLimitRPM
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	c := &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       cfg.Model,
		maxRetries:  cfg.MaxRetries,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(cfg.RateLimitRPM)/60.0), 1),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Model returns the model being used
func (c *Client) Model() string {
	return c.model
}

// Complete sends one chat completion and returns the assistant text.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if err := req.validate(); err != nil {
		return "", err
	}
	atomic.AddInt64(&c.stats.TotalRequests, 1)

	var cacheKey string
	if c.cache != nil {
		cacheKey = c.cache.Key(c.model, req)
		if text, ok := c.cache.Get(ctx, cacheKey); ok {
			if err := req.accept(text); err == nil {
				atomic.AddInt64(&c.stats.CacheHits, 1)
				if c.recorder != nil {
					c.recorder.RecordLLMCacheHit(req.op())
				}
				return text, nil
			}
			c.logger.Debug("cached answer rejected", zap.String("agent", req.op()))
		}
	}

	start := time.Now()
	text, err := c.completeWithRetry(ctx, req)
	if err == nil {
		err = req.accept(text)
	}
	elapsed := time.Since(start)
	atomic.AddInt64(&c.stats.TotalLatencyMs, elapsed.Milliseconds())

	if err != nil {
		atomic.AddInt64(&c.stats.FailedRequests, 1)
		c.record(req.op(), KindOf(err).String(), elapsed)
		c.logger.Warn("completion failed",
			zap.String("agent", req.op()),
			zap.String("kind", KindOf(err).String()),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return "", err
	}

	atomic.AddInt64(&c.stats.SuccessRequests, 1)
	c.record(req.op(), "success", elapsed)

	if c.cache != nil {
		c.cache.Set(ctx, cacheKey, text)
	}
	return text, nil
}

func (c *Client) completeWithRetry(ctx context.Context, req Request) (string, error) {
	for attempt := 0; ; attempt++ {
		text, err := c.call(ctx, req)
		if err == nil {
			return text, nil
		}
		if attempt >= c.maxRetries || KindOf(err) != KindNetwork {
			return "", err
		}

		backoff := time.Duration(attempt+1) * time.Second
		c.logger.Debug("retrying completion",
			zap.String("agent", req.op()),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff),
		)
		select {
		case <-ctx.Done():
			return "", classify(ctx, req.op(), ctx.Err())
		case <-time.After(backoff):
		}
	}
}

func (c *Client) call(ctx context.Context, req Request) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", classify(ctx, req.op(), fmt.Errorf("rate limit: %w", err))
	}

	var text string
	run := func(ctx context.Context) error {
		resp, err := c.api.CreateChatCompletion(ctx, c.buildRequest(req))
		if err != nil {
			return classify(ctx, req.op(), fmt.Errorf("sending request: %w", err))
		}

		atomic.AddInt64(&c.stats.TotalTokensIn, int64(resp.Usage.PromptTokens))
		atomic.AddInt64(&c.stats.TotalTokensOut, int64(resp.Usage.CompletionTokens))

		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			return NewSchemaError(req.op(), errors.New("empty response"))
		}
		text = resp.Choices[0].Message.Content
		return nil
	}

	if c.breaker == nil {
		if err := run(ctx); err != nil {
			return "", err
		}
		return text, nil
	}

	err := c.breaker.Do(ctx, run)
	if errors.Is(err, resilience.ErrOpen) || errors.Is(err, resilience.ErrProbeLimit) {
		return "", &Error{Kind: KindNetwork, Op: req.op(), Err: err}
	}
	if err != nil {
		return "", classify(ctx, req.op(), err)
	}
	return text, nil
}

func (c *Client) buildRequest(req Request) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	for _, m := range req.History {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	return openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
}

func (c *Client) record(agent, status string, d time.Duration) {
	if c.recorder != nil {
		c.recorder.RecordLLMRequest(agent, status, d)
	}
}

// GetStats returns current usage counters
func (c *Client) GetStats() Stats {
	return Stats{
		TotalRequests:   atomic.LoadInt64(&c.stats.TotalRequests),
		SuccessRequests: atomic.LoadInt64(&c.stats.SuccessRequests),
		FailedRequests:  atomic.LoadInt64(&c.stats.FailedRequests),
		TotalTokensIn:   atomic.LoadInt64(&c.stats.TotalTokensIn),
		TotalTokensOut:  atomic.LoadInt64(&c.stats.TotalTokensOut),
		TotalLatencyMs:  atomic.LoadInt64(&c.stats.TotalLatencyMs),
		CacheHits:       atomic.LoadInt64(&c.stats.CacheHits),
	}
}

// IsBreakerFailure is the breaker predicate: only outages trip it.
func IsBreakerFailure(err error) bool {
	return KindOf(err) == KindNetwork
}
