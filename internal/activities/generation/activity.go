// Package generation holds the Temporal activities behind GenerationWorkflow.
package generation

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.uber.org/zap"

	"github.com/landingforge/landingforge/internal/domain"
	"github.com/landingforge/landingforge/internal/pipeline"
	"github.com/landingforge/landingforge/internal/repository"
	"github.com/landingforge/landingforge/internal/workflows"
)

// Generator runs the generation pipeline. *pipeline.Orchestrator implements it.
type Generator interface {
	Generate(ctx context.Context, req pipeline.Request, progress pipeline.ProgressFunc) (*pipeline.Result, error)
}

// nonRetryable codes fail the activity for good.
var nonRetryable = map[string]bool{
	domain.ErrCodeIncompleteProfile: true,
	domain.ErrCodeValidation:        true,
	domain.ErrCodeNotFound:          true,
}

// Activity runs generations and stores their outcome
type Activity struct {
	generator Generator
	store     repository.GenerationStore
	logger    *zap.Logger
}

// NewActivity creates a new generation activity
func NewActivity(generator Generator, store repository.GenerationStore, logger *zap.Logger) *Activity {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Activity{
		generator: generator,
		store:     store,
		logger:    logger.Named("activity.generation"),
	}
}

// Generate runs the pipeline for a stored pending generation and saves the page.
func (a *Activity) Generate(ctx context.Context, input workflows.GenerationInput) (*workflows.GenerateResult, error) {
	info := activity.GetInfo(ctx)
	logger := a.logger.With(
		zap.String("generation_id", input.GenerationID.String()),
		zap.Int32("attempt", info.Attempt),
	)

	gen, err := a.store.GetGeneration(ctx, input.GenerationID)
	if err != nil {
		return nil, toApplicationError(err)
	}
	gen.Status = domain.GenerationRunning
	if err := a.store.SaveGeneration(ctx, gen); err != nil {
		return nil, fmt.Errorf("marking generation running: %w", err)
	}

	if input.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, input.Timeout)
		defer cancel()
	}

	res, err := a.generator.Generate(ctx, pipeline.Request{
		Prompt:       input.Prompt,
		CustomImages: input.CustomImages,
		PageID:       input.GenerationID.String(),
	}, func(stage pipeline.Stage, n, total int) {
		activity.RecordHeartbeat(ctx, string(stage))
	})
	if err != nil {
		logger.Warn("generation attempt failed", zap.Error(err))
		return nil, toApplicationError(err)
	}

	gen.Complete(res.Profile, res.HTML)
	if err := a.store.SaveGeneration(ctx, gen); err != nil {
		return nil, fmt.Errorf("saving generation: %w", err)
	}

	logger.Info("generation stored",
		zap.String("template", string(res.Profile.TemplateID)),
		zap.Duration("duration", res.Duration),
	)
	return &workflows.GenerateResult{
		TemplateID: res.Profile.TemplateID,
		Title:      res.Profile.Title,
		HTMLBytes:  len(res.HTML),
		Duration:   res.Duration,
	}, nil
}

// MarkFailed records a terminal failure on the stored generation.
func (a *Activity) MarkFailed(ctx context.Context, input workflows.MarkFailedInput) error {
	gen, err := a.store.GetGeneration(ctx, input.GenerationID)
	if err != nil {
		if domain.GetErrorCode(err) == domain.ErrCodeNotFound {
			a.logger.Warn("failed generation expired before it could be marked", zap.String("generation_id", input.GenerationID.String()))
			return nil
		}
		return err
	}
	gen.Fail(input.Message)
	return a.store.SaveGeneration(ctx, gen)
}

// toApplicationError carries the code and user-facing message of domain errors
// across the Temporal boundary. Causes stay in the worker logs.
func toApplicationError(err error) error {
	appErr, ok := domain.AsAppError(err)
	if !ok {
		if errors.Is(err, context.DeadlineExceeded) {
			appErr = domain.ErrTimeout("generation")
		} else {
			return temporal.NewApplicationError("Não foi possível gerar a landing page. Tente novamente.", domain.ErrCodeInternal)
		}
	}
	if nonRetryable[appErr.Code] {
		return temporal.NewNonRetryableApplicationError(appErr.Message, appErr.Code, nil)
	}
	return temporal.NewApplicationError(appErr.Message, appErr.Code)
}
