package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/landingforge/landingforge/internal/resilience"
)

type fakeRecorder struct {
	mu       sync.Mutex
	statuses []string
	hits     int
}

func (r *fakeRecorder) RecordLLMRequest(agent, status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, agent+":"+status)
}

func (r *fakeRecorder) RecordLLMCacheHit(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits++
}

// chatServer answers chat completions with whatever respond returns.
func chatServer(t *testing.T, respond func(req openai.ChatCompletionRequest) (int, string)) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		status, content := respond(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"` + content + `","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:     "chatcmpl-1",
			Object: "chat.completion",
			Model:  req.Model,
			Choices: []openai.ChatCompletionChoice{{
				Index:   0,
				Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
			}},
			Usage: openai.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	c, err := NewClient(Config{
		APIKey:       "test-key",
		BaseURL:      baseURL + "/v1",
		Model:        "test-model",
		Timeout:      5 * time.Second,
		RateLimitRPM: 600000,
	}, append([]Option{WithLogger(zap.NewNop())}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestClient_Complete(t *testing.T) {
	srv, calls := chatServer(t, func(req openai.ChatCompletionRequest) (int, string) {
		if !assert.Len(t, req.Messages, 4) {
			return http.StatusOK, "unexpected"
		}
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
		assert.Equal(t, "be brief", req.Messages[0].Content)
		assert.Equal(t, openai.ChatMessageRoleUser, req.Messages[1].Role)
		assert.Equal(t, openai.ChatMessageRoleAssistant, req.Messages[2].Role)
		assert.Equal(t, "what now?", req.Messages[3].Content)
		assert.Equal(t, 300, req.MaxTokens)
		return http.StatusOK, "Olá!"
	})
	rec := &fakeRecorder{}
	c := newTestClient(t, srv.URL, WithRecorder(rec))

	text, err := c.Complete(context.Background(), Request{
		Agent:  "sellerbot",
		System: "be brief",
		History: []Message{
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "hello"},
		},
		Prompt:      "what now?",
		Temperature: 0.7,
		MaxTokens:   300,
	})

	require.NoError(t, err)
	assert.Equal(t, "Olá!", text)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, []string{"sellerbot:success"}, rec.statuses)

	stats := c.GetStats()
	assert.Equal(t, int64(1), stats.SuccessRequests)
	assert.Equal(t, int64(10), stats.TotalTokensIn)
	assert.Equal(t, int64(5), stats.TotalTokensOut)
}

func TestClient_Complete_ErrorKinds(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		content     string
		wantKind    Kind
		recoverable bool
	}{
		{name: "server error", status: http.StatusInternalServerError, content: "boom", wantKind: KindNetwork, recoverable: true},
		{name: "rate limited upstream", status: http.StatusTooManyRequests, content: "slow down", wantKind: KindNetwork, recoverable: true},
		{name: "bad request upstream", status: http.StatusBadRequest, content: "bad", wantKind: KindNetwork, recoverable: true},
		{name: "expired key", status: http.StatusUnauthorized, content: "nope", wantKind: KindNetwork, recoverable: true},
		{name: "forbidden", status: http.StatusForbidden, content: "nope", wantKind: KindNetwork, recoverable: true},
		{name: "unknown model", status: http.StatusNotFound, content: "no such model", wantKind: KindNetwork, recoverable: true},
		{name: "empty answer", status: http.StatusOK, content: "  ", wantKind: KindSchema, recoverable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := chatServer(t, func(openai.ChatCompletionRequest) (int, string) {
				return tt.status, tt.content
			})
			c := newTestClient(t, srv.URL)

			_, err := c.Complete(context.Background(), Request{Agent: "copy", Prompt: "x"})
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, KindOf(err))
			assert.Equal(t, tt.recoverable, IsRecoverable(err))

			var llmErr *Error
			require.True(t, errors.As(err, &llmErr))
			if tt.status != http.StatusOK {
				assert.Equal(t, tt.status, llmErr.StatusCode)
			}
		})
	}
}

func TestClient_Complete_InvalidRequest(t *testing.T) {
	srv, calls := chatServer(t, func(openai.ChatCompletionRequest) (int, string) {
		return http.StatusOK, "unused"
	})
	c := newTestClient(t, srv.URL)

	_, err := c.Complete(context.Background(), Request{Agent: "copy", Prompt: "   "})
	assert.Equal(t, KindInvalid, KindOf(err))

	_, err = c.Complete(context.Background(), Request{
		Agent:   "copy",
		Prompt:  "x",
		History: []Message{{Role: "system", Content: "sneaky"}},
	})
	assert.Equal(t, KindInvalid, KindOf(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestClient_Complete_NetworkFailure(t *testing.T) {
	srv, _ := chatServer(t, func(openai.ChatCompletionRequest) (int, string) {
		return http.StatusOK, "unused"
	})
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url)
	_, err := c.Complete(context.Background(), Request{Agent: "copy", Prompt: "x"})
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestClient_Complete_Canceled(t *testing.T) {
	srv, calls := chatServer(t, func(openai.ChatCompletionRequest) (int, string) {
		return http.StatusOK, "unused"
	})
	c := newTestClient(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Complete(ctx, Request{Agent: "copy", Prompt: "x"})
	require.Error(t, err)
	assert.Equal(t, KindCanceled, KindOf(err))
	assert.False(t, IsRecoverable(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestClient_Complete_RetriesNetworkErrors(t *testing.T) {
	var n int32
	srv, calls := chatServer(t, func(openai.ChatCompletionRequest) (int, string) {
		if atomic.AddInt32(&n, 1) == 1 {
			return http.StatusServiceUnavailable, "warming up"
		}
		return http.StatusOK, "ok"
	})
	c := newTestClient(t, srv.URL)
	c.maxRetries = 1

	text, err := c.Complete(context.Background(), Request{Agent: "content", Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestClient_Complete_BreakerOpens(t *testing.T) {
	srv, calls := chatServer(t, func(openai.ChatCompletionRequest) (int, string) {
		return http.StatusBadGateway, "down"
	})
	breaker := resilience.NewBreaker(resilience.Settings{
		Name:             "llm",
		FailureThreshold: 1,
		CoolDown:         time.Hour,
		IsFailure:        IsBreakerFailure,
	})
	c := newTestClient(t, srv.URL, WithBreaker(breaker))

	_, err := c.Complete(context.Background(), Request{Agent: "copy", Prompt: "x"})
	require.Error(t, err)
	assert.Equal(t, resilience.StateOpen, breaker.State())

	_, err = c.Complete(context.Background(), Request{Agent: "copy", Prompt: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, resilience.ErrOpen))
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestClient_Complete_UsesCache(t *testing.T) {
	srv, calls := chatServer(t, func(openai.ChatCompletionRequest) (int, string) {
		return http.StatusOK, `{"ok":true}`
	})
	rec := &fakeRecorder{}
	cache := NewResponseCache(DefaultCacheConfig(), nil, zap.NewNop())
	c := newTestClient(t, srv.URL, WithCache(cache), WithRecorder(rec))

	req := Request{Agent: "design", Prompt: "palette please", Temperature: 0.5}
	for i := 0; i < 2; i++ {
		text, err := c.Complete(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, `{"ok":true}`, text)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, int64(1), c.GetStats().CacheHits)
	assert.Equal(t, 1, rec.hits)
}

func TestCompleteJSON_UnparsableAnswerIsNotCached(t *testing.T) {
	var n int32
	srv, calls := chatServer(t, func(openai.ChatCompletionRequest) (int, string) {
		if atomic.AddInt32(&n, 1) == 1 {
			return http.StatusOK, "Desculpe, não consegui montar o JSON."
		}
		return http.StatusOK, `{"title":"Pizzaria do Bairro"}`
	})
	cache := NewResponseCache(DefaultCacheConfig(), nil, zap.NewNop())
	c := newTestClient(t, srv.URL, WithCache(cache))

	req := Request{Agent: "content", Prompt: "Pizzaria do Bairro, entrega rápida"}
	var out struct {
		Title string `json:"title"`
	}

	err := CompleteJSON(context.Background(), c, req, &out)
	require.Error(t, err)
	assert.Equal(t, KindSchema, KindOf(err))
	assert.Equal(t, 0, cache.Stats().Entries, "rejected answer stays out of the cache")

	for i := 0; i < 2; i++ {
		out.Title = ""
		require.NoError(t, CompleteJSON(context.Background(), c, req, &out))
		assert.Equal(t, "Pizzaria do Bairro", out.Title)
	}

	assert.Equal(t, int32(2), atomic.LoadInt32(calls), "second attempt reaches the model, third is served from cache")
	assert.Equal(t, int64(1), c.GetStats().CacheHits)
	assert.Equal(t, int64(1), c.GetStats().FailedRequests)
}
