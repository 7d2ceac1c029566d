package workflows

import (
	"context"
	"errors"

	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
)

// ActivityOptimize is the registered name of OptimizeActivities.Optimize.
const ActivityOptimize = "Optimize"

// Optimizer is satisfied by usecases.OptimizeService.
type Optimizer interface {
	Optimize(ctx context.Context, req *domain.OptimizeRequest) (*domain.RoutePlan, error)
}

// OptimizeActivities holds the activity implementations for the optimize workflow.
type OptimizeActivities struct {
	Optimizer Optimizer
}

// Optimize runs the pipeline. Pipeline failures become non-retryable
// application errors typed by their kind.
func (a *OptimizeActivities) Optimize(ctx context.Context, req domain.OptimizeRequest) (*domain.RoutePlan, error) {
	plan, err := a.Optimizer.Optimize(ctx, &req)
	if err != nil {
		return nil, ToApplicationError(err)
	}
	return plan, nil
}

// errorDetails travels with the application error so the caller can rebuild
// the *domain.Error.
type errorDetails struct {
	Message  string
	Upstream string
	Timeout  bool
}

// ToApplicationError wraps a pipeline error for transport through Temporal.
func ToApplicationError(err error) error {
	var de *domain.Error
	if !errors.As(err, &de) {
		de = domain.Inconsistentf("%v", err)
	}
	return temporal.NewNonRetryableApplicationError(de.Error(), string(de.Kind), nil, errorDetails{
		Message:  de.Message,
		Upstream: de.Upstream,
		Timeout:  de.Timeout,
	})
}

// FromWorkflowError recovers the *domain.Error carried by a failed workflow.
// Failures that did not originate in the pipeline (timeouts, termination)
// are reported as an unavailable solver.
func FromWorkflowError(err error) *domain.Error {
	if err == nil {
		return nil
	}
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) && appErr.Type() != "" {
		var d errorDetails
		if appErr.HasDetails() {
			_ = appErr.Details(&d)
		}
		return &domain.Error{
			Kind:     domain.ErrorKind(appErr.Type()),
			Message:  d.Message,
			Upstream: d.Upstream,
			Timeout:  d.Timeout,
		}
	}
	var timeoutErr *temporal.TimeoutError
	if errors.As(err, &timeoutErr) {
		return domain.UpstreamTimeout(domain.UpstreamSolver, err)
	}
	return domain.Unavailable(domain.UpstreamSolver, "job did not complete", err)
}
