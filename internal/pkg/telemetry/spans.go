package telemetry

// Span names for the optimize pipeline.
const (
	SpanOptimize  = "optimize"
	SpanNormalize = "optimize.normalize"
	SpanMatrix    = "optimize.matrix"
	SpanSolve     = "optimize.solve"
	SpanInterpret = "optimize.interpret"
	SpanGeometry  = "optimize.geometry"
)
