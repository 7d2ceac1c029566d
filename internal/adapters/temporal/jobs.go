// Package temporaladapter runs optimize requests as Temporal workflows.
package temporaladapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
	"github.com/samirrijal/stopsequencer/internal/workflows"
)

// JobRunner implements ports.JobRunner.
type JobRunner struct {
	client         client.Client
	taskQueue      string
	timeoutSeconds int
}

// NewJobRunner wraps a connected Temporal client. timeoutSeconds bounds
// each pipeline run inside the worker.
func NewJobRunner(c client.Client, taskQueue string, timeoutSeconds int) *JobRunner {
	if taskQueue == "" {
		taskQueue = workflows.TaskQueue
	}
	return &JobRunner{client: c, taskQueue: taskQueue, timeoutSeconds: timeoutSeconds}
}

// Submit starts a workflow and returns immediately.
func (r *JobRunner) Submit(ctx context.Context, req *domain.OptimizeRequest) (*domain.Job, error) {
	id := "optimize-" + uuid.NewString()
	_, err := r.client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        id,
		TaskQueue: r.taskQueue,
	}, workflows.OptimizeWorkflow, workflows.OptimizeInput{
		Request:        *req,
		TimeoutSeconds: r.timeoutSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("start optimize workflow: %w", err)
	}
	return &domain.Job{ID: id, Status: domain.JobQueued}, nil
}

// Get reports the job state. With wait it blocks on the workflow result.
func (r *JobRunner) Get(ctx context.Context, id string, wait bool) (*domain.Job, error) {
	if !wait {
		desc, err := r.client.DescribeWorkflowExecution(ctx, id, "")
		if err != nil {
			return nil, notFound(err)
		}
		info := desc.GetWorkflowExecutionInfo()
		if info.GetStatus() == enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING {
			status := domain.JobQueued
			if len(desc.GetPendingActivities()) > 0 {
				status = domain.JobRunning
			}
			return &domain.Job{ID: id, Status: status}, nil
		}
	}

	var plan domain.RoutePlan
	err := r.client.GetWorkflow(ctx, id, "").Get(ctx, &plan)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var nf *serviceerror.NotFound
		if errors.As(err, &nf) {
			return nil, domain.ErrNotFound
		}
		return &domain.Job{ID: id, Status: domain.JobFailed, Err: workflows.FromWorkflowError(err)}, nil
	}
	return &domain.Job{ID: id, Status: domain.JobCompleted, Plan: &plan}, nil
}

func notFound(err error) error {
	var nf *serviceerror.NotFound
	if errors.As(err, &nf) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("describe workflow: %w", err)
}
