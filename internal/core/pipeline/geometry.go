package pipeline

import (
	"context"
	"time"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
	"github.com/samirrijal/stopsequencer/internal/core/ports"
	"github.com/samirrijal/stopsequencer/internal/pkg/polyline"
)

// Reasons reported when the assembler falls back to straight segments.
const (
	FallbackNone        = ""
	FallbackNoProvider  = "no_provider"
	FallbackProviderErr = "provider_error"
	FallbackUndecodable = "undecodable"
	FallbackTooFew      = "too_few_points"
)

// DefaultGeometryTimeout bounds the geometry call when none is configured.
const DefaultGeometryTimeout = 10 * time.Second

// GeometryAssembler produces the path to draw for a solved order. It never
// fails: without usable provider geometry it returns straight segments.
type GeometryAssembler struct {
	Provider ports.GeometryProvider
	Timeout  time.Duration
}

// Assemble returns the sanitised path, its source and, on fallback, why.
func (g GeometryAssembler) Assemble(ctx context.Context, ordered []domain.GeoPoint) ([]domain.GeoPoint, string, string) {
	straight := DedupeConsecutive(filterValid(ordered))
	if g.Provider == nil {
		return straight, domain.GeometryStraight, FallbackNoProvider
	}

	timeout := g.Timeout
	if timeout <= 0 {
		timeout = DefaultGeometryTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := g.Provider.Route(callCtx, ordered)
	if err != nil || raw == nil {
		return straight, domain.GeometryStraight, FallbackProviderErr
	}

	points, reason := Sanitize(raw)
	if reason != FallbackNone {
		return straight, domain.GeometryStraight, reason
	}
	return points, domain.GeometryProvider, FallbackNone
}

// Sanitize turns raw provider geometry into at least two valid,
// consecutive-distinct points. Encoded polylines are tried at the hinted
// precision first, then 1e5, then 1e6; a precision is accepted only if every
// decoded point is in range. Coordinate arrays drop out-of-range points.
func Sanitize(raw *domain.RawGeometry) ([]domain.GeoPoint, string) {
	if raw.Encoded != "" {
		undecodable := true
		for _, p := range precisionOrder(raw.Precision) {
			pts, err := polyline.Decode(raw.Encoded, p)
			if err != nil || !allValid(pts) {
				continue
			}
			undecodable = false
			pts = DedupeConsecutive(pts)
			if len(pts) >= 2 {
				return pts, FallbackNone
			}
		}
		if undecodable {
			return nil, FallbackUndecodable
		}
		return nil, FallbackTooFew
	}

	pts := DedupeConsecutive(filterValid(raw.Coordinates))
	if len(pts) < 2 {
		return nil, FallbackTooFew
	}
	return pts, FallbackNone
}

func precisionOrder(hint int) []int {
	switch hint {
	case polyline.Precision5:
		return []int{polyline.Precision5, polyline.Precision6}
	case polyline.Precision6:
		return []int{polyline.Precision6, polyline.Precision5}
	}
	return []int{polyline.Precision5, polyline.Precision6}
}

// DedupeConsecutive drops points equal to their predecessor.
func DedupeConsecutive(points []domain.GeoPoint) []domain.GeoPoint {
	out := make([]domain.GeoPoint, 0, len(points))
	for i, p := range points {
		if i > 0 && p == out[len(out)-1] {
			continue
		}
		out = append(out, p)
	}
	return out
}

func allValid(points []domain.GeoPoint) bool {
	for _, p := range points {
		if !p.Valid() {
			return false
		}
	}
	return true
}

func filterValid(points []domain.GeoPoint) []domain.GeoPoint {
	out := make([]domain.GeoPoint, 0, len(points))
	for _, p := range points {
		if p.Valid() {
			out = append(out, p)
		}
	}
	return out
}
