package ports

import (
	"context"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
)

// MatrixProvider returns pairwise travel durations for a coordinate list in a
// single batch call. Pairs it cannot route may be missing from the result.
type MatrixProvider interface {
	Name() string
	Durations(ctx context.Context, points []domain.GeoPoint) ([]domain.MatrixEntry, error)
}

// SolverClient drives the external routing solver.
// Implementations report no_solution as a domain.KindInfeasible error.
type SolverClient interface {
	Solve(ctx context.Context, req *domain.SolveRequest) (*domain.Solution, error)
}

// GeometryProvider fetches a drivable path through the points in order.
type GeometryProvider interface {
	Name() string
	Route(ctx context.Context, points []domain.GeoPoint) (*domain.RawGeometry, error)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishOptimization(ctx context.Context, event *domain.OptimizationEvent) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// JobRunner runs optimize requests asynchronously.
type JobRunner interface {
	Submit(ctx context.Context, req *domain.OptimizeRequest) (*domain.Job, error)
	// Get returns the job status. With wait it blocks until the job finishes
	// or ctx is done.
	Get(ctx context.Context, id string, wait bool) (*domain.Job, error)
}
