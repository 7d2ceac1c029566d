package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
	"github.com/samirrijal/stopsequencer/internal/core/pipeline"
	"github.com/samirrijal/stopsequencer/internal/pkg/telemetry"
)

func TestRun_GeometryCallRunsUnderGeometrySpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))

	var parent trace.SpanContext
	geometry := &mockGeometry{routeFn: func(ctx context.Context, points []domain.GeoPoint) (*domain.RawGeometry, error) {
		parent = trace.SpanContextFromContext(ctx)
		return &domain.RawGeometry{Coordinates: points}, nil
	}}
	p := &pipeline.Pipeline{
		Matrix:   uniformMatrix(600),
		Solver:   pipeline.SolverInvoker{Client: visitInOrder()},
		Geometry: pipeline.GeometryAssembler{Provider: geometry},
	}

	_, err := p.Run(context.Background(), &domain.OptimizeRequest{Stops: threeStops()})
	require.NoError(t, err)

	var geomSpan sdktrace.ReadOnlySpan
	for _, s := range rec.Ended() {
		if s.Name() == telemetry.SpanGeometry {
			geomSpan = s
		}
	}
	require.NotNil(t, geomSpan)
	assert.Equal(t, geomSpan.SpanContext().SpanID(), parent.SpanID())
}
