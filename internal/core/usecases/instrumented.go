package usecases

import (
	"context"
	"time"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
	"github.com/samirrijal/stopsequencer/internal/core/ports"
	"github.com/samirrijal/stopsequencer/internal/pkg/metrics"
)

func observeUpstream(upstream, provider string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(domain.KindOf(err))
	}
	metrics.UpstreamCallDuration.WithLabelValues(upstream, provider, outcome).Observe(time.Since(start).Seconds())
}

// InstrumentedMatrix records call latency for a MatrixProvider.
type InstrumentedMatrix struct{ ports.MatrixProvider }

func (m InstrumentedMatrix) Durations(ctx context.Context, points []domain.GeoPoint) ([]domain.MatrixEntry, error) {
	start := time.Now()
	entries, err := m.MatrixProvider.Durations(ctx, points)
	observeUpstream(domain.UpstreamMatrix, m.Name(), start, err)
	return entries, err
}

// InstrumentedSolver records call latency for a SolverClient.
type InstrumentedSolver struct {
	ports.SolverClient
	Provider string
}

func (s InstrumentedSolver) Solve(ctx context.Context, req *domain.SolveRequest) (*domain.Solution, error) {
	start := time.Now()
	sol, err := s.SolverClient.Solve(ctx, req)
	observeUpstream(domain.UpstreamSolver, s.Provider, start, err)
	return sol, err
}

// InstrumentedGeometry records call latency for a GeometryProvider.
type InstrumentedGeometry struct{ ports.GeometryProvider }

func (g InstrumentedGeometry) Route(ctx context.Context, points []domain.GeoPoint) (*domain.RawGeometry, error) {
	start := time.Now()
	raw, err := g.GeometryProvider.Route(ctx, points)
	observeUpstream(domain.UpstreamGeometry, g.Name(), start, err)
	return raw, err
}
