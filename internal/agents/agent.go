// Package agents wraps each LLM prompt/response contract used to build a landing page.
//
// Content, Design, ImagePrompt and the sellerbot persona are required: their errors
// abort a generation. Copy, SEO and the sellerbot chat reply degrade to deterministic
// output built from the business name and type, but only for network and schema
// failures. Invalid requests and cancellation always reach the caller.
package agents

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/landingforge/landingforge/internal/llm"
)

// Agent names, used as the agent label in metrics and cache keys.
const (
	NameContent     = "content"
	NameDesign      = "design"
	NameImagePrompt = "image_prompt"
	NameCopy        = "copy"
	NameSEO         = "seo"
	NameSellerbot   = "sellerbot"
	NameChat        = "sellerbot_chat"
)

// FallbackRecorder counts degraded responses.
type FallbackRecorder interface {
	RecordFallback(agent, reason string)
}

type nopRecorder struct{}

func (nopRecorder) RecordFallback(string, string) {}

// Deps are shared by every LLM agent.
type Deps struct {
	LLM      llm.Completer
	Logger   *zap.Logger
	Recorder FallbackRecorder
}

type base struct {
	name     string
	llm      llm.Completer
	logger   *zap.Logger
	recorder FallbackRecorder
}

func newBase(name string, d Deps) base {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var rec FallbackRecorder = nopRecorder{}
	if d.Recorder != nil {
		rec = d.Recorder
	}
	return base{
		name:     name,
		llm:      d.LLM,
		logger:   logger.Named("agent." + name),
		recorder: rec,
	}
}

func (b base) request(system, prompt string, temperature float32, maxTokens int) llm.Request {
	return llm.Request{
		Agent:       b.name,
		System:      system,
		Prompt:      prompt,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
}

// degrade reports whether err may be answered with a fallback, and records it when so.
func (b base) degrade(err error) bool {
	if !llm.IsRecoverable(err) {
		b.logger.Error("agent call failed", zap.String("kind", llm.KindOf(err).String()), zap.Error(err))
		return false
	}
	reason := llm.KindOf(err).String()
	b.logger.Warn("agent call failed, using fallback", zap.String("reason", reason), zap.Error(err))
	b.recorder.RecordFallback(b.name, reason)
	return true
}

var errNoClient = errors.New("no LLM client configured")

func (b base) checkClient() error {
	if b.llm == nil {
		return llm.NewInvalidError(b.name, errNoClient)
	}
	return nil
}

// orDefault returns def when s is blank.
func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return strings.TrimSpace(s)
}
