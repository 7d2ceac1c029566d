package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
	"github.com/samirrijal/stopsequencer/internal/core/pipeline"
	"github.com/samirrijal/stopsequencer/internal/core/ports"
	"github.com/samirrijal/stopsequencer/internal/pkg/logging"
	"github.com/samirrijal/stopsequencer/internal/pkg/metrics"
)

// sideEffectTimeout bounds history writes and event publishing after a run.
const sideEffectTimeout = 3 * time.Second

// OptimizeService runs the pipeline and records what happened. Recording is
// best effort: a failed insert or publish is logged and never changes the
// result returned to the caller.
type OptimizeService struct {
	pipeline *pipeline.Pipeline
	runs     ports.RunRepository
	events   ports.EventPublisher
	now      func() time.Time
}

// NewOptimizeService creates a new OptimizeService. runs and events may be nil.
func NewOptimizeService(p *pipeline.Pipeline, runs ports.RunRepository, events ports.EventPublisher) *OptimizeService {
	return &OptimizeService{pipeline: p, runs: runs, events: events, now: time.Now}
}

// Optimize sequences the stops of req. Errors are *domain.Error.
func (s *OptimizeService) Optimize(ctx context.Context, req *domain.OptimizeRequest) (*domain.RoutePlan, error) {
	log := logging.FromContext(ctx)
	start := s.now()

	res, err := s.pipeline.Run(ctx, req)
	elapsed := s.now().Sub(start)

	run := &domain.OptimizationRun{
		ID:         uuid.NewString(),
		RequestID:  logging.RequestID(ctx),
		StopCount:  len(req.Stops),
		OpenPath:   req.EndStopID == "",
		DurationMs: elapsed.Milliseconds(),
		CreatedAt:  start.UTC(),
	}

	outcome := domain.OutcomeOptimized
	if err != nil {
		outcome = string(domain.KindOf(err))
		run.Outcome = domain.OutcomeFailed
		run.ErrorKind = outcome
		run.ErrorMessage = err.Error()
		log.Warn("optimize failed", "kind", outcome, "error", err, "stops", run.StopCount)
	} else {
		run.Outcome = domain.OutcomeOptimized
		run.StopCount = len(res.Normalized.Stops)
		run.OrderedStopIDs = res.Plan.OrderedStopIDs
		run.LatestDepartureTime = res.Plan.LatestDepartureTime
		if res.GeometryFallback != pipeline.FallbackNone {
			metrics.GeometryFallbacks.WithLabelValues(res.GeometryFallback).Inc()
		}
		metrics.OptimizeStops.Observe(float64(run.StopCount))
		log.Info("optimize completed",
			"run_id", run.ID,
			"stops", run.StopCount,
			"duration_ms", run.DurationMs,
			"geometry", res.Plan.GeometrySource,
		)
	}
	metrics.OptimizeRequests.WithLabelValues(outcome).Inc()
	metrics.OptimizeDuration.Observe(elapsed.Seconds())

	s.record(ctx, run)

	if err != nil {
		return nil, err
	}
	return res.Plan, nil
}

func (s *OptimizeService) record(ctx context.Context, run *domain.OptimizationRun) {
	if s.runs == nil && s.events == nil {
		return
	}
	log := logging.FromContext(ctx)

	// The request context may already be cancelled or past its deadline.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if s.runs != nil {
		if err := s.runs.Insert(ctx, run); err != nil {
			log.Error("record optimization run", "run_id", run.ID, "error", err)
		}
	}
	if s.events != nil {
		event := &domain.OptimizationEvent{
			RunID:               run.ID,
			RequestID:           run.RequestID,
			Outcome:             run.Outcome,
			ErrorKind:           run.ErrorKind,
			StopCount:           run.StopCount,
			LatestDepartureTime: run.LatestDepartureTime,
			DurationMs:          run.DurationMs,
			OccurredAt:          run.CreatedAt,
		}
		if err := s.events.PublishOptimization(ctx, event); err != nil {
			log.Error("publish optimization event", "run_id", run.ID, "error", err)
		}
	}
}
