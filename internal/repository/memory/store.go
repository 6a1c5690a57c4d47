// Package memory is an in-process generation store for single-instance runs and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/landingforge/landingforge/internal/domain"
	"github.com/landingforge/landingforge/internal/repository"
)

type entry struct {
	gen       domain.Generation
	expiresAt time.Time
}

type window struct {
	start time.Time
	count int
}

// Store keeps generations in a map until their TTL passes.
type Store struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	items  map[uuid.UUID]entry
	limits map[string]*window
}

var _ repository.GenerationStore = (*Store)(nil)

// New creates a Store. ttl <= 0 keeps records forever.
func New(ttl time.Duration) *Store {
	return &Store{
		ttl:    ttl,
		now:    time.Now,
		items:  make(map[uuid.UUID]entry),
		limits: make(map[string]*window),
	}
}

func (s *Store) SaveGeneration(_ context.Context, g *domain.Generation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{gen: *g}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.items[g.ID] = e
	return nil
}

func (s *Store) lookup(id uuid.UUID) (domain.Generation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[id]
	if !ok {
		return domain.Generation{}, false
	}
	if !e.expiresAt.IsZero() && s.now().After(e.expiresAt) {
		delete(s.items, id)
		return domain.Generation{}, false
	}
	return e.gen, true
}

func (s *Store) GetGeneration(_ context.Context, id uuid.UUID) (*domain.Generation, error) {
	g, ok := s.lookup(id)
	if !ok {
		return nil, domain.ErrGenerationNotFound(id.String())
	}
	g.HTML = ""
	return &g, nil
}

func (s *Store) GetHTML(_ context.Context, id uuid.UUID) (string, error) {
	g, ok := s.lookup(id)
	if !ok || g.HTML == "" {
		return "", domain.ErrGenerationNotFound(id.String())
	}
	return g.HTML, nil
}

func (s *Store) CheckRateLimit(_ context.Context, key string, limit int) (bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.limits[key]
	if !ok || now.Sub(w.start) >= repository.RateLimitWindow {
		w = &window{start: now}
		s.limits[key] = w
	}
	w.count++
	return w.count <= limit, w.count, nil
}

func (s *Store) Health(context.Context) error { return nil }
