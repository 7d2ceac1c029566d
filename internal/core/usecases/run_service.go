package usecases

import (
	"context"
	"errors"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
	"github.com/samirrijal/stopsequencer/internal/core/ports"
)

// ErrHistoryDisabled is returned when no run repository is configured.
var ErrHistoryDisabled = errors.New("optimization history is not enabled")

// RunService reads the optimization audit log.
type RunService struct {
	runs ports.RunRepository
}

// NewRunService creates a new RunService. runs may be nil.
func NewRunService(runs ports.RunRepository) *RunService {
	return &RunService{runs: runs}
}

// List returns one page of runs, newest first, and the total count.
func (s *RunService) List(ctx context.Context, offset, limit int) ([]domain.OptimizationRun, int, error) {
	if s.runs == nil {
		return nil, 0, ErrHistoryDisabled
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	runs, total, err := s.runs.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	if runs == nil {
		runs = []domain.OptimizationRun{}
	}
	return runs, total, nil
}

// Get returns a single run or domain.ErrNotFound.
func (s *RunService) Get(ctx context.Context, id string) (*domain.OptimizationRun, error) {
	if s.runs == nil {
		return nil, ErrHistoryDisabled
	}
	return s.runs.GetByID(ctx, id)
}
