package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landingforge/landingforge/internal/domain"
)

func TestStore_SaveAndGet(t *testing.T) {
	s := New(time.Hour)
	ctx := context.Background()

	g := domain.NewGeneration("Pizzaria", "")
	require.NoError(t, s.SaveGeneration(ctx, g))

	_, err := s.GetHTML(ctx, g.ID)
	assert.Equal(t, domain.ErrCodeNotFound, domain.GetErrorCode(err), "pending generation has no html")

	g.Complete(&domain.BusinessProfile{Title: "Pizzaria"}, "<html></html>")
	require.NoError(t, s.SaveGeneration(ctx, g))

	got, err := s.GetGeneration(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GenerationCompleted, got.Status)
	assert.Empty(t, got.HTML)

	html, err := s.GetHTML(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", html)
}

func TestStore_Expiry(t *testing.T) {
	s := New(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	g := domain.NewGeneration("Pizzaria", "")
	require.NoError(t, s.SaveGeneration(context.Background(), g))

	_, err := s.GetGeneration(context.Background(), g.ID)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = s.GetGeneration(context.Background(), g.ID)
	assert.Equal(t, domain.ErrCodeNotFound, domain.GetErrorCode(err))
}

func TestStore_NotFound(t *testing.T) {
	_, err := New(0).GetGeneration(context.Background(), uuid.New())
	assert.Equal(t, domain.ErrCodeNotFound, domain.GetErrorCode(err))
}

func TestStore_CheckRateLimit(t *testing.T) {
	s := New(0)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		ok, count, err := s.CheckRateLimit(ctx, "ip", 2)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, i, count)
	}
	ok, _, _ := s.CheckRateLimit(ctx, "ip", 2)
	assert.False(t, ok)

	ok, _, _ = s.CheckRateLimit(ctx, "other", 2)
	assert.True(t, ok, "keys are counted separately")

	now = now.Add(time.Minute)
	ok, count, _ := s.CheckRateLimit(ctx, "ip", 2)
	assert.True(t, ok, "new window")
	assert.Equal(t, 1, count)
}
