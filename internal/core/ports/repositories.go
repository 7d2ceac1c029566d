package ports

import (
	"context"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
)

// RunRepository persists the optimization audit log.
type RunRepository interface {
	Insert(ctx context.Context, run *domain.OptimizationRun) error
	GetByID(ctx context.Context, id string) (*domain.OptimizationRun, error)
	// List returns runs newest first together with the total count.
	List(ctx context.Context, offset, limit int) ([]domain.OptimizationRun, int, error)
}
