package temporal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStatusName(t *testing.T) {
	tests := []struct {
		status enumspb.WorkflowExecutionStatus
		want   string
	}{
		{enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING, "running"},
		{enumspb.WORKFLOW_EXECUTION_STATUS_COMPLETED, "completed"},
		{enumspb.WORKFLOW_EXECUTION_STATUS_FAILED, "failed"},
		{enumspb.WORKFLOW_EXECUTION_STATUS_CANCELED, "canceled"},
		{enumspb.WORKFLOW_EXECUTION_STATUS_TERMINATED, "terminated"},
		{enumspb.WORKFLOW_EXECUTION_STATUS_TIMED_OUT, "timed_out"},
		{enumspb.WORKFLOW_EXECUTION_STATUS_UNSPECIFIED, "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusName(tt.status), tt.status.String())
	}
}

func TestLogAdapter(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	a := NewLogAdapter(zap.New(core))

	a.Info("worker started", "task_queue", "landingforge-generations")
	a.Debug("poll", "attempt", 1)

	wl, ok := a.(log.WithLogger)
	require.True(t, ok, "adapter supports With")
	wl.With("workflow_id", "generation-1").Error("activity failed", "attempt", 2)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "temporal", entries[0].LoggerName)
	assert.Equal(t, map[string]interface{}{"task_queue": "landingforge-generations"}, entries[0].ContextMap())
	assert.Equal(t, zap.DebugLevel, entries[1].Level)

	last := entries[2].ContextMap()
	assert.Equal(t, "generation-1", last["workflow_id"])
	assert.Equal(t, int64(2), last["attempt"])
}
