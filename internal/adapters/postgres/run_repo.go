package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
)

// RunRepo implements ports.RunRepository with pgx.
type RunRepo struct {
	db *DB
}

// NewRunRepo creates a new RunRepo.
func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

const runColumns = `id::text, COALESCE(request_id, ''), stop_count, open_path, outcome,
	COALESCE(error_kind, ''), COALESCE(error_message, ''), ordered_stop_ids,
	latest_departure_time, duration_ms, created_at`

// Insert records one run.
func (r *RunRepo) Insert(ctx context.Context, run *domain.OptimizationRun) error {
	ids := run.OrderedStopIDs
	if ids == nil {
		ids = []string{}
	}
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO optimization_runs
			(id, request_id, stop_count, open_path, outcome, error_kind, error_message,
			 ordered_stop_ids, latest_departure_time, duration_ms, created_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10, $11)
	`, run.ID, run.RequestID, run.StopCount, run.OpenPath, run.Outcome,
		run.ErrorKind, run.ErrorMessage, ids, run.LatestDepartureTime,
		run.DurationMs, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetByID returns a run or domain.ErrNotFound.
func (r *RunRepo) GetByID(ctx context.Context, id string) (*domain.OptimizationRun, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+runColumns+` FROM optimization_runs WHERE id = $1`, id)
	run, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// List returns runs newest first and the total number of runs.
func (r *RunRepo) List(ctx context.Context, offset, limit int) ([]domain.OptimizationRun, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM optimization_runs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count runs: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+runColumns+`
		FROM optimization_runs
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.OptimizationRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *run)
	}
	return out, total, rows.Err()
}

func scanRun(row pgx.Row) (*domain.OptimizationRun, error) {
	var run domain.OptimizationRun
	err := row.Scan(
		&run.ID, &run.RequestID, &run.StopCount, &run.OpenPath, &run.Outcome,
		&run.ErrorKind, &run.ErrorMessage, &run.OrderedStopIDs,
		&run.LatestDepartureTime, &run.DurationMs, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}
