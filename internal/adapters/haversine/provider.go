// Package haversine is an offline matrix provider that estimates driving
// time from great-circle distance. It never fails and never rate-limits,
// which makes it the default for local development and tests.
package haversine

import (
	"context"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
	"github.com/samirrijal/stopsequencer/internal/pkg/geospatial"
)

// DefaultDetour inflates straight-line distance to approximate the road network.
const DefaultDetour = 1.3

// MatrixProvider implements ports.MatrixProvider.
type MatrixProvider struct {
	SpeedKmh float64
	Detour   float64
}

func NewMatrixProvider(speedKmh float64) *MatrixProvider {
	return &MatrixProvider{SpeedKmh: speedKmh, Detour: DefaultDetour}
}

func (p *MatrixProvider) Name() string { return "haversine" }

func (p *MatrixProvider) Durations(ctx context.Context, points []domain.GeoPoint) ([]domain.MatrixEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.MatrixEntry, 0, len(points)*len(points))
	for i, a := range points {
		for j, b := range points {
			if i == j {
				continue
			}
			out = append(out, domain.MatrixEntry{
				Origin:          i,
				Destination:     j,
				DurationSeconds: geospatial.TravelSeconds(a.Lat, a.Lng, b.Lat, b.Lng, p.SpeedKmh, p.Detour),
			})
		}
	}
	return out, nil
}
