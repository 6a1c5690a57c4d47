// Package temporal connects the API and worker to Temporal.
package temporal

import (
	"context"
	"fmt"
	"time"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/log"
	"go.uber.org/zap"

	"github.com/landingforge/landingforge/internal/config"
	"github.com/landingforge/landingforge/internal/workflows"
)

// Client is the SDK client bound to the generation task queue.
type Client struct {
	client.Client
	logger    *zap.Logger
	taskQueue string
}

func NewClient(cfg config.TemporalConfig, logger *zap.Logger) (*Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Addr(),
		Namespace: cfg.Namespace,
		Logger:    NewLogAdapter(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to temporal at %s: %w", cfg.Addr(), err)
	}

	return &Client{
		Client:    c,
		logger:    logger.Named("temporal"),
		taskQueue: cfg.TaskQueue,
	}, nil
}

// StartGeneration starts GenerationWorkflow for a stored pending generation and
// returns the workflow id. The id is derived from the generation, so a retried
// start for the same generation is rejected by Temporal instead of running twice.
func (c *Client) StartGeneration(ctx context.Context, input workflows.GenerationInput) (string, error) {
	attempt := input.Timeout
	if attempt <= 0 {
		attempt = workflows.DefaultGenerationTimeout
	}
	options := client.StartWorkflowOptions{
		ID:        workflows.WorkflowID(input.GenerationID),
		TaskQueue: c.taskQueue,
		// Covers both generate attempts plus the failure bookkeeping.
		WorkflowExecutionTimeout: 2*(attempt+time.Minute) + time.Minute,
	}

	run, err := c.ExecuteWorkflow(ctx, options, workflows.GenerationWorkflow, input)
	if err != nil {
		return "", fmt.Errorf("starting generation workflow: %w", err)
	}

	c.logger.Info("generation workflow started",
		zap.String("generation_id", input.GenerationID.String()),
		zap.String("workflow_id", run.GetID()),
		zap.String("run_id", run.GetRunID()),
	)
	return run.GetID(), nil
}

// WorkflowStatus reports the latest run of workflowID using StatusName.
func (c *Client) WorkflowStatus(ctx context.Context, workflowID string) (string, error) {
	desc, err := c.DescribeWorkflowExecution(ctx, workflowID, "")
	if err != nil {
		return "", fmt.Errorf("describing workflow %s: %w", workflowID, err)
	}
	return StatusName(desc.GetWorkflowExecutionInfo().GetStatus()), nil
}

// StatusName maps a Temporal execution status to the lowercase name the API reports.
func StatusName(s enumspb.WorkflowExecutionStatus) string {
	switch s {
	case enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING:
		return "running"
	case enumspb.WORKFLOW_EXECUTION_STATUS_COMPLETED:
		return "completed"
	case enumspb.WORKFLOW_EXECUTION_STATUS_FAILED:
		return "failed"
	case enumspb.WORKFLOW_EXECUTION_STATUS_CANCELED:
		return "canceled"
	case enumspb.WORKFLOW_EXECUTION_STATUS_TERMINATED:
		return "terminated"
	case enumspb.WORKFLOW_EXECUTION_STATUS_TIMED_OUT:
		return "timed_out"
	case enumspb.WORKFLOW_EXECUTION_STATUS_CONTINUED_AS_NEW:
		return "continued_as_new"
	default:
		return "unknown"
	}
}

// logAdapter routes SDK logs through zap. Temporal passes alternating key/value pairs,
// which is exactly the sugared logger's calling convention.
type logAdapter struct {
	s *zap.SugaredLogger
}

var (
	_ log.Logger     = logAdapter{}
	_ log.WithLogger = logAdapter{}
)

// NewLogAdapter wraps logger for client.Options.Logger.
func NewLogAdapter(logger *zap.Logger) log.Logger {
	return logAdapter{s: logger.Named("temporal").WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (l logAdapter) Debug(msg string, keyvals ...interface{}) { l.s.Debugw(msg, keyvals...) }
func (l logAdapter) Info(msg string, keyvals ...interface{})  { l.s.Infow(msg, keyvals...) }
func (l logAdapter) Warn(msg string, keyvals ...interface{})  { l.s.Warnw(msg, keyvals...) }
func (l logAdapter) Error(msg string, keyvals ...interface{}) { l.s.Errorw(msg, keyvals...) }

func (l logAdapter) With(keyvals ...interface{}) log.Logger {
	return logAdapter{s: l.s.With(keyvals...)}
}
