package pipeline_test

import (
	"context"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
)

func stop(id string, lat, lng float64) domain.Stop {
	return domain.Stop{ID: id, Location: domain.GeoPoint{Lat: lat, Lng: lng}}
}

func before(s domain.Stop, hhmm string) domain.Stop {
	s.Constraint = &domain.ArrivalConstraint{TimeOfDay: hhmm, Kind: domain.ConstraintBefore}
	return s
}

func after(s domain.Stop, hhmm string) domain.Stop {
	s.Constraint = &domain.ArrivalConstraint{TimeOfDay: hhmm, Kind: domain.ConstraintAfter}
	return s
}

// threeStops are A, B, C around Bilbao.
func threeStops() []domain.Stop {
	return []domain.Stop{
		stop("A", 43.2630, -2.9350),
		stop("B", 43.2700, -2.9400),
		stop("C", 43.2560, -2.9230),
	}
}

// mockMatrix implements ports.MatrixProvider.
type mockMatrix struct {
	durationsFn func(ctx context.Context, points []domain.GeoPoint) ([]domain.MatrixEntry, error)
	calls       int
}

func (m *mockMatrix) Name() string { return "mock" }

func (m *mockMatrix) Durations(ctx context.Context, points []domain.GeoPoint) ([]domain.MatrixEntry, error) {
	m.calls++
	return m.durationsFn(ctx, points)
}

// uniformMatrix reports the same duration for every ordered pair.
func uniformMatrix(seconds float64) *mockMatrix {
	return &mockMatrix{durationsFn: func(_ context.Context, points []domain.GeoPoint) ([]domain.MatrixEntry, error) {
		var out []domain.MatrixEntry
		for i := range points {
			for j := range points {
				if i != j {
					out = append(out, domain.MatrixEntry{Origin: i, Destination: j, DurationSeconds: seconds})
				}
			}
		}
		return out, nil
	}}
}

// mockSolver implements ports.SolverClient.
type mockSolver struct {
	solveFn func(ctx context.Context, req *domain.SolveRequest) (*domain.Solution, error)
	calls   int
	last    *domain.SolveRequest
}

func (m *mockSolver) Solve(ctx context.Context, req *domain.SolveRequest) (*domain.Solution, error) {
	m.calls++
	m.last = req
	return m.solveFn(ctx, req)
}

// mockGeometry implements ports.GeometryProvider.
type mockGeometry struct {
	routeFn func(ctx context.Context, points []domain.GeoPoint) (*domain.RawGeometry, error)
}

func (m *mockGeometry) Name() string { return "mock" }

func (m *mockGeometry) Route(ctx context.Context, points []domain.GeoPoint) (*domain.RawGeometry, error) {
	return m.routeFn(ctx, points)
}
