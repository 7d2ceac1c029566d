package geospatial

import (
	"math"
	"testing"
)

func TestHaversine_KnownDistance(t *testing.T) {
	// Bilbao Abando to Moyua, roughly 580 m apart.
	d := Haversine(43.2609, -2.9276, 43.2631, -2.9350)
	if d < 550 || d > 700 {
		t.Fatalf("expected ~640m, got %.0f", d)
	}
}

func TestHaversine_SamePoint(t *testing.T) {
	if d := Haversine(43.26, -2.93, 43.26, -2.93); d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
}

func TestTravelSeconds(t *testing.T) {
	// One degree of latitude is ~111.2 km; at 60 km/h that is ~6672 s.
	got := TravelSeconds(0, 0, 1, 0, 60, 1)
	if math.Abs(got-6672) > 10 {
		t.Fatalf("expected ~6672s, got %.0f", got)
	}

	if got := TravelSeconds(0, 0, 1, 0, 0, 1); got != 0 {
		t.Fatalf("zero speed should yield 0, got %f", got)
	}

	if a, b := TravelSeconds(0, 0, 1, 0, 60, 0.5), TravelSeconds(0, 0, 1, 0, 60, 1); a != b {
		t.Fatalf("detour below 1 should clamp to 1: %f vs %f", a, b)
	}
}
