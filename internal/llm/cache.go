package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "llm:"

// CacheConfig holds cache configuration
type CacheConfig struct {
	TTL           time.Duration
	MemoryMaxSize int
}

// DefaultCacheConfig returns default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:           time.Hour,
		MemoryMaxSize: 500,
	}
}

// ResponseCache keeps completions in memory and, when a Redis client is given, in Redis.
// Redis entries survive restarts and are shared between API replicas and workers.
type ResponseCache struct {
	config CacheConfig
	redis  *redis.Client
	logger *zap.Logger

	mu      sync.RWMutex
	entries map[string]cacheEntry

	hits   int64
	misses int64
}

type cacheEntry struct {
	text      string
	expiresAt time.Time
}

// CacheStats tracks cache statistics
type CacheStats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Entries int     `json:"entries"`
	HitRate float64 `json:"hit_rate"`
}

// NewResponseCache creates a cache. redisClient may be nil.
func NewResponseCache(config CacheConfig, redisClient *redis.Client, logger *zap.Logger) *ResponseCache {
	defaults := DefaultCacheConfig()
	if config.TTL <= 0 {
		config.TTL = defaults.TTL
	}
	if config.MemoryMaxSize <= 0 {
		config.MemoryMaxSize = defaults.MemoryMaxSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseCache{
		config:  config,
		redis:   redisClient,
		logger:  logger,
		entries: make(map[string]cacheEntry),
	}
}

// Key hashes everything that influences the answer
func (rc *ResponseCache) Key(model string, req Request) string {
	keyData := map[string]interface{}{
		"model":       model,
		"system":      req.System,
		"history":     req.History,
		"prompt":      req.Prompt,
		"temperature": req.Temperature,
		"max_tokens":  req.MaxTokens,
	}
	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Get returns a cached answer
func (rc *ResponseCache) Get(ctx context.Context, key string) (string, bool) {
	rc.mu.RLock()
	entry, ok := rc.entries[key]
	rc.mu.RUnlock()

	if ok && time.Now().Before(entry.expiresAt) {
		atomic.AddInt64(&rc.hits, 1)
		return entry.text, true
	}

	if rc.redis != nil {
		text, err := rc.redis.Get(ctx, cacheKeyPrefix+key).Result()
		if err == nil {
			rc.setMemory(key, text)
			atomic.AddInt64(&rc.hits, 1)
			return text, true
		}
		if err != redis.Nil {
			rc.logger.Debug("redis cache read failed", zap.Error(err))
		}
	}

	atomic.AddInt64(&rc.misses, 1)
	return "", false
}

// Set stores an answer
func (rc *ResponseCache) Set(ctx context.Context, key, text string) {
	rc.setMemory(key, text)

	if rc.redis != nil {
		if err := rc.redis.Set(ctx, cacheKeyPrefix+key, text, rc.config.TTL).Err(); err != nil {
			rc.logger.Debug("redis cache write failed", zap.Error(err))
		}
	}
}

// Stats returns cache statistics
func (rc *ResponseCache) Stats() CacheStats {
	rc.mu.RLock()
	n := len(rc.entries)
	rc.mu.RUnlock()

	stats := CacheStats{
		Hits:    atomic.LoadInt64(&rc.hits),
		Misses:  atomic.LoadInt64(&rc.misses),
		Entries: n,
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	return stats
}

func (rc *ResponseCache) setMemory(key, text string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	now := time.Now()
	if len(rc.entries) >= rc.config.MemoryMaxSize {
		rc.evict(now)
	}
	rc.entries[key] = cacheEntry{text: text, expiresAt: now.Add(rc.config.TTL)}
}

// evict drops expired entries, or the one closest to expiry when none have expired.
func (rc *ResponseCache) evict(now time.Time) {
	var oldestKey string
	var oldest time.Time
	removed := false

	for k, e := range rc.entries {
		if now.After(e.expiresAt) {
			delete(rc.entries, k)
			removed = true
			continue
		}
		if oldestKey == "" || e.expiresAt.Before(oldest) {
			oldestKey, oldest = k, e.expiresAt
		}
	}
	if !removed && oldestKey != "" {
		delete(rc.entries, oldestKey)
	}
}
