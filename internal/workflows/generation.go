// Package workflows holds the Temporal workflows that run generations off the request path.
package workflows

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/landingforge/landingforge/internal/domain"
)

// Activity names - must match registered activity names
const (
	GenerateActivityName   = "GenerateLandingPageActivity"
	MarkFailedActivityName = "MarkGenerationFailedActivity"
)

// DefaultGenerationTimeout applies when the input carries none.
const DefaultGenerationTimeout = 5 * time.Minute

// genericFailure is shown when a failure carries no user-facing message.
const genericFailure = "Não foi possível gerar a landing page. Tente novamente."

// GenerationInput is the input of GenerationWorkflow and of the generate activity
type GenerationInput struct {
	GenerationID uuid.UUID                   `json:"generation_id"`
	Prompt       string                      `json:"prompt"`
	SessionID    string                      `json:"session_id,omitempty"`
	CustomImages map[domain.ImageSlot]string `json:"custom_images,omitempty"`
	// Timeout bounds one generate attempt.
	Timeout time.Duration `json:"timeout"`
}

// GenerateResult is what the generate activity reports back
type GenerateResult struct {
	TemplateID domain.TemplateID `json:"template_id"`
	Title      string            `json:"title"`
	HTMLBytes  int               `json:"html_bytes"`
	Duration   time.Duration     `json:"duration"`
}

// MarkFailedInput records a failed generation
type MarkFailedInput struct {
	GenerationID uuid.UUID `json:"generation_id"`
	Message      string    `json:"message"`
}

// GenerationOutput is the output of GenerationWorkflow
type GenerationOutput struct {
	GenerationID  uuid.UUID               `json:"generation_id"`
	Status        domain.GenerationStatus `json:"status"`
	TemplateID    domain.TemplateID       `json:"template_id,omitempty"`
	Error         string                  `json:"error,omitempty"`
	CompletedAt   time.Time               `json:"completed_at"`
	TotalDuration time.Duration           `json:"total_duration"`
}

// WorkflowID is the Temporal workflow id of a generation.
func WorkflowID(generationID uuid.UUID) string {
	return "generation-" + generationID.String()
}

// GenerationWorkflow runs one landing-page generation and records its outcome.
// A failed generation completes the workflow with status "failed" rather than failing it.
func GenerationWorkflow(ctx workflow.Context, input GenerationInput) (*GenerationOutput, error) {
	logger := workflow.GetLogger(ctx)
	startTime := workflow.Now(ctx)

	logger.Info("Starting generation workflow", "generation_id", input.GenerationID.String())

	output := &GenerationOutput{
		GenerationID: input.GenerationID,
		Status:       domain.GenerationRunning,
	}

	timeout := input.Timeout
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	generateCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: timeout + time.Minute,
		HeartbeatTimeout:    2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    2,
			NonRetryableErrorTypes: []string{
				domain.ErrCodeIncompleteProfile,
				domain.ErrCodeValidation,
				domain.ErrCodeNotFound,
			},
		},
	})

	var result GenerateResult
	err := workflow.ExecuteActivity(generateCtx, GenerateActivityName, input).Get(ctx, &result)
	if err != nil {
		output.Status = domain.GenerationFailed
		output.Error = failureMessage(err)
		logger.Warn("Generation failed", "generation_id", input.GenerationID.String(), "error", err)

		markCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
			StartToCloseTimeout: 30 * time.Second,
			RetryPolicy: &temporal.RetryPolicy{
				InitialInterval: time.Second,
				MaximumAttempts: 3,
			},
		})
		markInput := MarkFailedInput{GenerationID: input.GenerationID, Message: output.Error}
		if err := workflow.ExecuteActivity(markCtx, MarkFailedActivityName, markInput).Get(ctx, nil); err != nil {
			logger.Error("Recording generation failure failed", "generation_id", input.GenerationID.String(), "error", err)
		}

		output.CompletedAt = workflow.Now(ctx)
		output.TotalDuration = output.CompletedAt.Sub(startTime)
		return output, nil
	}

	output.Status = domain.GenerationCompleted
	output.TemplateID = result.TemplateID
	output.CompletedAt = workflow.Now(ctx)
	output.TotalDuration = output.CompletedAt.Sub(startTime)

	logger.Info("Generation workflow completed",
		"generation_id", input.GenerationID.String(),
		"template", string(result.TemplateID),
		"duration", output.TotalDuration,
	)
	return output, nil
}

// failureMessage keeps the user-facing message of application errors and hides everything else.
func failureMessage(err error) string {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) && appErr.Message() != "" {
		return appErr.Message()
	}
	return genericFailure
}
