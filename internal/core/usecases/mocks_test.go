package usecases_test

import (
	"context"
	"errors"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
)

// --- Mock MatrixProvider ---

type mockMatrix struct {
	durationsFn func(ctx context.Context, points []domain.GeoPoint) ([]domain.MatrixEntry, error)
	calls       int
}

func (m *mockMatrix) Name() string { return "mock" }

func (m *mockMatrix) Durations(ctx context.Context, points []domain.GeoPoint) ([]domain.MatrixEntry, error) {
	m.calls++
	if m.durationsFn != nil {
		return m.durationsFn(ctx, points)
	}
	var out []domain.MatrixEntry
	for i := range points {
		for j := range points {
			if i != j {
				out = append(out, domain.MatrixEntry{Origin: i, Destination: j, DurationSeconds: 300})
			}
		}
	}
	return out, nil
}

// --- Mock SolverClient ---

type mockSolver struct {
	solveFn func(ctx context.Context, req *domain.SolveRequest) (*domain.Solution, error)
}

func (m *mockSolver) Solve(ctx context.Context, req *domain.SolveRequest) (*domain.Solution, error) {
	if m.solveFn != nil {
		return m.solveFn(ctx, req)
	}
	// Visit nodes in index order, 300s apart.
	sol := &domain.Solution{Arrivals: map[int]int{}}
	for i := 0; i < req.TimeMatrix.Size(); i++ {
		sol.OrderedNodes = append(sol.OrderedNodes, i)
		sol.Arrivals[i] = i * 300
	}
	return sol, nil
}

// --- Mock RunRepository ---

type mockRunRepo struct {
	insertFn  func(ctx context.Context, run *domain.OptimizationRun) error
	getByIDFn func(ctx context.Context, id string) (*domain.OptimizationRun, error)
	listFn    func(ctx context.Context, offset, limit int) ([]domain.OptimizationRun, int, error)
	inserted  []*domain.OptimizationRun
}

func (m *mockRunRepo) Insert(ctx context.Context, run *domain.OptimizationRun) error {
	m.inserted = append(m.inserted, run)
	if m.insertFn != nil {
		return m.insertFn(ctx, run)
	}
	return nil
}

func (m *mockRunRepo) GetByID(ctx context.Context, id string) (*domain.OptimizationRun, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockRunRepo) List(ctx context.Context, offset, limit int) ([]domain.OptimizationRun, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, offset, limit)
	}
	return nil, 0, nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	events []*domain.OptimizationEvent
	err    error
}

func (m *mockPublisher) PublishOptimization(ctx context.Context, event *domain.OptimizationEvent) error {
	m.events = append(m.events, event)
	return m.err
}

// --- Mock CacheService ---

type mockCache struct {
	data map[string][]byte
	ttls map[string]int
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}, ttls: map[string]int{}}
}

var errMiss = errors.New("miss")

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.data[key] = value
	m.ttls[key] = ttlSeconds
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func threeStops() []domain.Stop {
	return []domain.Stop{
		{ID: "A", Location: domain.GeoPoint{Lat: 43.2630, Lng: -2.9350}},
		{ID: "B", Location: domain.GeoPoint{Lat: 43.2700, Lng: -2.9400}},
		{ID: "C", Location: domain.GeoPoint{Lat: 43.2560, Lng: -2.9230}},
	}
}
