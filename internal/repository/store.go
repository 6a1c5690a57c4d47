// Package repository defines where generations live between requests.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/landingforge/landingforge/internal/domain"
)

// RateLimitWindow is the fixed window CheckRateLimit counts in.
const RateLimitWindow = time.Minute

// GenerationStore keeps generation records and their rendered HTML.
// Missing records are reported as domain NOT_FOUND errors.
type GenerationStore interface {
	SaveGeneration(ctx context.Context, g *domain.Generation) error
	GetGeneration(ctx context.Context, id uuid.UUID) (*domain.Generation, error)
	// GetHTML returns the rendered page of a completed generation.
	GetHTML(ctx context.Context, id uuid.UUID) (string, error)
	// CheckRateLimit counts one hit for key in the current window and reports
	// whether the count is still within limit.
	CheckRateLimit(ctx context.Context, key string, limit int) (bool, int, error)
	Health(ctx context.Context) error
}
