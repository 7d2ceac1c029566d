// Package pipeline sequences stops into a visiting order: normalize the
// request, build the travel-time matrix, encode time windows, call the
// solver, interpret its answer, derive the latest departure and assemble the
// path geometry. Stages run strictly in order and keep no state between runs.
package pipeline

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
	"github.com/samirrijal/stopsequencer/internal/core/ports"
	"github.com/samirrijal/stopsequencer/internal/pkg/logging"
	"github.com/samirrijal/stopsequencer/internal/pkg/telemetry"
)

var tracer = otel.Tracer("github.com/samirrijal/stopsequencer/internal/core/pipeline")

// Pipeline wires the stages to their collaborators.
type Pipeline struct {
	Matrix   ports.MatrixProvider
	Solver   SolverInvoker
	Geometry GeometryAssembler
}

// Result is a finished run.
type Result struct {
	Plan       *domain.RoutePlan
	Normalized *Normalized
	// GeometryFallback names why straight segments were used, if they were.
	GeometryFallback string
}

// Run executes one request. Every error is a *domain.Error.
func (p *Pipeline) Run(ctx context.Context, req *domain.OptimizeRequest) (*Result, error) {
	ctx, span := tracer.Start(ctx, telemetry.SpanOptimize)
	defer span.End()
	log := logging.FromContext(ctx)

	n, err := stage(ctx, telemetry.SpanNormalize, func(context.Context) (*Normalized, error) {
		return Normalize(req)
	})
	if err != nil {
		return nil, fail(span, err)
	}
	span.SetAttributes(
		attribute.Int("stops", len(n.Stops)),
		attribute.Bool("open_path", n.HasTerminal),
	)

	if p.Matrix == nil {
		return nil, fail(span, domain.Unavailable(domain.UpstreamMatrix, "no matrix provider configured", nil))
	}
	matrix, err := stage(ctx, telemetry.SpanMatrix, func(ctx context.Context) (domain.TimeMatrix, error) {
		return BuildMatrix(ctx, p.Matrix, n)
	})
	if err != nil {
		return nil, fail(span, err)
	}

	solveReq := BuildSolveRequest(n, matrix)

	sol, err := stage(ctx, telemetry.SpanSolve, func(ctx context.Context) (*domain.Solution, error) {
		return p.Solver.Invoke(ctx, solveReq)
	})
	if err != nil {
		return nil, fail(span, err)
	}

	interp, err := stage(ctx, telemetry.SpanInterpret, func(context.Context) (*Interpretation, error) {
		return Interpret(n, sol)
	})
	if err != nil {
		log.Error("solver output rejected", "error", err, "nodes", sol.OrderedNodes)
		return nil, fail(span, err)
	}

	plan := &domain.RoutePlan{
		OrderedStopIDs:      interp.OrderedStopIDs,
		LatestDepartureTime: LatestDeparture(n, interp.Offsets),
		ArrivalOffsets:      interp.Offsets,
		EstimatedArrivals:   EstimatedArrivals(n, interp.Offsets),
		OpenPath:            n.HasTerminal,
	}

	ordered := orderedPoints(n, interp.OrderedStopIDs)
	gctx, gspan := tracer.Start(ctx, telemetry.SpanGeometry)
	geometry, source, fallback := p.Geometry.Assemble(gctx, ordered)
	gspan.SetAttributes(attribute.String("source", source), attribute.String("fallback", fallback))
	gspan.End()
	if fallback != FallbackNone && fallback != FallbackNoProvider {
		log.Warn("geometry fell back to straight segments", slog.String("reason", fallback))
	}
	plan.Geometry = geometry
	plan.GeometrySource = source

	return &Result{Plan: plan, Normalized: n, GeometryFallback: fallback}, nil
}

func stage[T any](ctx context.Context, name string, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := tracer.Start(ctx, name)
	defer span.End()
	v, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(domain.KindOf(err)))
	}
	return v, err
}

func fail(span trace.Span, err error) error {
	span.SetAttributes(attribute.String("error.kind", string(domain.KindOf(err))))
	span.SetStatus(codes.Error, err.Error())
	return err
}

func orderedPoints(n *Normalized, ids []string) []domain.GeoPoint {
	byID := make(map[string]domain.GeoPoint, len(n.Stops))
	for _, s := range n.Stops {
		byID[s.ID] = s.Location
	}
	pts := make([]domain.GeoPoint, len(ids))
	for i, id := range ids {
		pts[i] = byID[id]
	}
	return pts
}
