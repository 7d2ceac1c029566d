package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
	"github.com/samirrijal/stopsequencer/internal/core/usecases"
)

func TestRunService_ListClampsLimit(t *testing.T) {
	var gotLimit, gotOffset int
	repo := &mockRunRepo{listFn: func(ctx context.Context, offset, limit int) ([]domain.OptimizationRun, int, error) {
		gotOffset, gotLimit = offset, limit
		return nil, 0, nil
	}}
	svc := usecases.NewRunService(repo)

	runs, total, err := svc.List(context.Background(), -5, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 20 || gotOffset != 0 {
		t.Errorf("expected offset 0 limit 20, got %d/%d", gotOffset, gotLimit)
	}
	if runs == nil || total != 0 {
		t.Errorf("expected empty non-nil page, got %v (%d)", runs, total)
	}
}

func TestRunService_Disabled(t *testing.T) {
	svc := usecases.NewRunService(nil)
	if _, _, err := svc.List(context.Background(), 0, 10); !errors.Is(err, usecases.ErrHistoryDisabled) {
		t.Errorf("expected ErrHistoryDisabled, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "x"); !errors.Is(err, usecases.ErrHistoryDisabled) {
		t.Errorf("expected ErrHistoryDisabled, got %v", err)
	}
}

func TestRunService_GetNotFound(t *testing.T) {
	svc := usecases.NewRunService(&mockRunRepo{})
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
