package generation

import (
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"

	"github.com/landingforge/landingforge/internal/workflows"
)

// Registry is the part of worker.Worker and the Temporal test environments used to register activities.
type Registry interface {
	RegisterActivityWithOptions(a interface{}, options activity.RegisterOptions)
}

var _ Registry = worker.Worker(nil)

// RegisterActivities registers the generation activities under their workflow names
func RegisterActivities(r Registry, a *Activity) {
	r.RegisterActivityWithOptions(a.Generate, activity.RegisterOptions{
		Name: workflows.GenerateActivityName,
	})
	r.RegisterActivityWithOptions(a.MarkFailed, activity.RegisterOptions{
		Name: workflows.MarkFailedActivityName,
	})
}
