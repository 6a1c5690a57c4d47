// Package redis stores generations in Redis with a TTL.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/landingforge/landingforge/internal/config"
	"github.com/landingforge/landingforge/internal/domain"
	"github.com/landingforge/landingforge/internal/repository"
)

// Key prefixes
const (
	PrefixGeneration = "generation:"
	PrefixRateLimit  = "ratelimit:"
)

// DefaultGenerationTTL applies when the config leaves it unset.
const DefaultGenerationTTL = 24 * time.Hour

// Store provides generation storage on Redis
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

var _ repository.GenerationStore = (*Store)(nil)

// New creates a Redis store and verifies the connection
func New(cfg config.RedisConfig) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return NewFromClient(client, cfg.GenerationTTL), nil
}

// NewFromClient wraps an existing client. ttl <= 0 uses DefaultGenerationTTL.
func NewFromClient(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultGenerationTTL
	}
	return &Store{client: client, ttl: ttl}
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

// Health checks Redis connectivity
func (s *Store) Health(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Client returns the underlying Redis client, shared with the LLM response cache.
func (s *Store) Client() *redis.Client {
	return s.client
}

func generationKey(id uuid.UUID) string {
	return PrefixGeneration + id.String()
}

func htmlKey(id uuid.UUID) string {
	return PrefixGeneration + id.String() + ":html"
}

// SaveGeneration writes the record and, when present, its HTML. Both keys share the TTL.
func (s *Store) SaveGeneration(ctx context.Context, g *domain.Generation) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encoding generation: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, generationKey(g.ID), data, s.ttl)
	if g.HTML != "" {
		pipe.Set(ctx, htmlKey(g.ID), g.HTML, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("saving generation %s: %w", g.ID, err)
	}
	return nil
}

// GetGeneration loads a record without its HTML
func (s *Store) GetGeneration(ctx context.Context, id uuid.UUID) (*domain.Generation, error) {
	data, err := s.client.Get(ctx, generationKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrGenerationNotFound(id.String())
		}
		return nil, fmt.Errorf("loading generation %s: %w", id, err)
	}

	var g domain.Generation
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decoding generation %s: %w", id, err)
	}
	return &g, nil
}

// GetHTML loads the rendered page
func (s *Store) GetHTML(ctx context.Context, id uuid.UUID) (string, error) {
	html, err := s.client.Get(ctx, htmlKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrGenerationNotFound(id.String())
		}
		return "", fmt.Errorf("loading html %s: %w", id, err)
	}
	return html, nil
}

// CheckRateLimit checks and increments rate limit counter
func (s *Store) CheckRateLimit(ctx context.Context, key string, limit int) (bool, int, error) {
	fullKey := PrefixRateLimit + key

	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.Expire(ctx, fullKey, repository.RateLimitWindow)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}

	count := int(incr.Val())
	return count <= limit, count, nil
}
