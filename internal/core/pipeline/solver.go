package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
	"github.com/samirrijal/stopsequencer/internal/core/ports"
)

// DefaultSolverTimeout bounds a solver call when none is configured.
const DefaultSolverTimeout = 30 * time.Second

// SolverInvoker makes the single solver call of a request.
type SolverInvoker struct {
	Client  ports.SolverClient
	Timeout time.Duration
}

// Invoke sends req unchanged and waits at most Timeout. Infeasibility comes
// back as domain.KindInfeasible, a missed deadline as an upstream timeout.
func (s SolverInvoker) Invoke(ctx context.Context, req *domain.SolveRequest) (*domain.Solution, error) {
	if s.Client == nil {
		return nil, domain.Unavailable(domain.UpstreamSolver, "no solver configured", nil)
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultSolverTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sol, err := s.Client.Solve(callCtx, req)
	if err != nil {
		kind := domain.KindOf(err)
		deadlineHit := errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil
		if deadlineHit && kind != domain.KindInfeasible && kind != domain.KindUpstreamRateLimited {
			return nil, domain.UpstreamTimeout(domain.UpstreamSolver, err)
		}
		return nil, asUpstreamError(domain.UpstreamSolver, err)
	}
	if sol == nil {
		return nil, domain.Unavailable(domain.UpstreamSolver, "empty solver response", nil)
	}
	return sol, nil
}
