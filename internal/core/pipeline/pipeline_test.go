package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
	"github.com/samirrijal/stopsequencer/internal/core/pipeline"
)

// visitInOrder returns a solver that visits nodes in index order, 600s apart.
func visitInOrder() *mockSolver {
	return &mockSolver{solveFn: func(_ context.Context, req *domain.SolveRequest) (*domain.Solution, error) {
		n := req.TimeMatrix.Size()
		sol := &domain.Solution{Arrivals: map[int]int{}}
		for i := 0; i < n; i++ {
			if i == req.EndIndex && i != n-1 {
				continue
			}
			sol.OrderedNodes = append(sol.OrderedNodes, i)
		}
		if req.EndIndex != n-1 {
			sol.OrderedNodes = append(sol.OrderedNodes, req.EndIndex)
		}
		for pos, node := range sol.OrderedNodes {
			sol.Arrivals[node] = pos * 600
		}
		return sol, nil
	}}
}

func TestRun_UnconstrainedOpenPath(t *testing.T) {
	solver := visitInOrder()
	p := &pipeline.Pipeline{Matrix: uniformMatrix(600), Solver: pipeline.SolverInvoker{Client: solver}}

	res, err := p.Run(context.Background(), &domain.OptimizeRequest{Stops: threeStops()})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"A", "B", "C"}, res.Plan.OrderedStopIDs)
	assert.Equal(t, "A", res.Plan.OrderedStopIDs[0])
	assert.Nil(t, res.Plan.LatestDepartureTime)
	assert.True(t, res.Plan.OpenPath)
	assert.Equal(t, domain.GeometryStraight, res.Plan.GeometrySource)
	assert.Len(t, res.Plan.Geometry, 3)

	require.NotNil(t, solver.last)
	assert.Equal(t, 4, solver.last.TimeMatrix.Size())
	assert.Equal(t, 3, solver.last.EndIndex)
}

func TestRun_DeadlineGivesLatestDeparture(t *testing.T) {
	stops := threeStops()
	stops[2] = before(stops[2], "09:00")
	solver := &mockSolver{solveFn: func(context.Context, *domain.SolveRequest) (*domain.Solution, error) {
		return &domain.Solution{
			OrderedNodes: []int{0, 2, 1, 3},
			Arrivals:     map[int]int{0: 0, 2: 1800, 1: 2400, 3: 2400},
		}, nil
	}}
	p := &pipeline.Pipeline{Matrix: uniformMatrix(600), Solver: pipeline.SolverInvoker{Client: solver}}

	res, err := p.Run(context.Background(), &domain.OptimizeRequest{Stops: stops})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "C", "B"}, res.Plan.OrderedStopIDs)
	require.NotNil(t, res.Plan.LatestDepartureTime)
	assert.Equal(t, "08:30", *res.Plan.LatestDepartureTime)
	assert.Equal(t, domain.TimeWindow{Earliest: 0, Latest: 32400}, solver.last.TimeWindows[2])
}

func TestRun_MatrixOutageSkipsSolver(t *testing.T) {
	solver := visitInOrder()
	empty := &mockMatrix{durationsFn: func(context.Context, []domain.GeoPoint) ([]domain.MatrixEntry, error) {
		return nil, nil
	}}
	p := &pipeline.Pipeline{Matrix: empty, Solver: pipeline.SolverInvoker{Client: solver}}

	_, err := p.Run(context.Background(), &domain.OptimizeRequest{Stops: threeStops()})
	assert.True(t, errors.Is(err, domain.ErrUpstreamUnavailable))
	assert.Equal(t, 0, solver.calls)
}

func TestRun_NoSolutionIsInfeasible(t *testing.T) {
	solver := &mockSolver{solveFn: func(context.Context, *domain.SolveRequest) (*domain.Solution, error) {
		return nil, domain.Infeasible("")
	}}
	p := &pipeline.Pipeline{Matrix: uniformMatrix(600), Solver: pipeline.SolverInvoker{Client: solver}}

	_, err := p.Run(context.Background(), &domain.OptimizeRequest{Stops: threeStops()})
	assert.True(t, errors.Is(err, domain.ErrInfeasible))
	assert.False(t, errors.Is(err, domain.ErrUpstreamUnavailable))
}

func TestRun_ValidationSkipsUpstreams(t *testing.T) {
	matrix := uniformMatrix(600)
	p := &pipeline.Pipeline{Matrix: matrix, Solver: pipeline.SolverInvoker{Client: visitInOrder()}}

	_, err := p.Run(context.Background(), &domain.OptimizeRequest{Stops: threeStops()[:2]})
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, 0, matrix.calls)
}

func TestRun_BadSolverOutputFailsClosed(t *testing.T) {
	solver := &mockSolver{solveFn: func(context.Context, *domain.SolveRequest) (*domain.Solution, error) {
		return &domain.Solution{OrderedNodes: []int{0, 1, 3}, Arrivals: map[int]int{0: 0, 1: 5, 3: 5}}, nil
	}}
	p := &pipeline.Pipeline{Matrix: uniformMatrix(600), Solver: pipeline.SolverInvoker{Client: solver}}

	res, err := p.Run(context.Background(), &domain.OptimizeRequest{Stops: threeStops()})
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, domain.ErrInternalInconsistency))
}

func TestRun_EndStopAndStartTime(t *testing.T) {
	p := &pipeline.Pipeline{Matrix: uniformMatrix(600), Solver: pipeline.SolverInvoker{Client: visitInOrder()}}

	res, err := p.Run(context.Background(), &domain.OptimizeRequest{Stops: threeStops(), EndStopID: "B", StartTime: "08:00"})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "C", "B"}, res.Plan.OrderedStopIDs)
	assert.False(t, res.Plan.OpenPath)
	assert.Equal(t, map[string]string{"A": "08:00", "C": "08:10", "B": "08:20"}, res.Plan.EstimatedArrivals)
}
