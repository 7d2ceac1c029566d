package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
)

// TaskQueue is the default queue optimize workflows run on.
const TaskQueue = "optimize-queue"

// defaultActivityTimeout applies when the input carries no timeout.
const defaultActivityTimeout = 60 * time.Second

// OptimizeInput is the input for the optimize workflow.
type OptimizeInput struct {
	Request domain.OptimizeRequest

	// TimeoutSeconds bounds the whole pipeline run inside the activity.
	TimeoutSeconds int
}

// OptimizeWorkflow runs one optimize request as a single activity. The
// pipeline is not retried: its upstream calls are not idempotent in cost
// and every failure kind is final for the caller.
func OptimizeWorkflow(ctx workflow.Context, input OptimizeInput) (*domain.RoutePlan, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting optimize workflow", "stops", len(input.Request.Stops))

	timeout := defaultActivityTimeout
	if input.TimeoutSeconds > 0 {
		timeout = time.Duration(input.TimeoutSeconds) * time.Second
	}
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: timeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	})

	var plan domain.RoutePlan
	if err := workflow.ExecuteActivity(ctx, ActivityOptimize, input.Request).Get(ctx, &plan); err != nil {
		logger.Warn("optimize activity failed", "error", err)
		return nil, err
	}

	logger.Info("Optimize workflow completed", "stops", len(plan.OrderedStopIDs))
	return &plan, nil
}
