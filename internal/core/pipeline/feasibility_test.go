package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
	"github.com/samirrijal/stopsequencer/internal/core/pipeline"
)

func normalizeWith(t *testing.T, req *domain.OptimizeRequest) *pipeline.Normalized {
	t.Helper()
	n, err := pipeline.Normalize(req)
	require.NoError(t, err)
	return n
}

func TestLatestDeparture_SingleDeadline(t *testing.T) {
	stops := threeStops()
	stops[1] = before(stops[1], "09:00")
	n := normalizeWith(t, &domain.OptimizeRequest{Stops: stops})

	got := pipeline.LatestDeparture(n, map[string]int{"A": 0, "B": 1800, "C": 2400})
	require.NotNil(t, got)
	assert.Equal(t, "08:30", *got)
}

func TestLatestDeparture_TightestDeadlineWins(t *testing.T) {
	stops := threeStops()
	stops[1] = before(stops[1], "09:00")
	stops[2] = before(stops[2], "09:10")
	n := normalizeWith(t, &domain.OptimizeRequest{Stops: stops})

	// B: 09:00-00:10 = 08:50, C: 09:10-00:40 = 08:30.
	got := pipeline.LatestDeparture(n, map[string]int{"A": 0, "B": 600, "C": 2400})
	require.NotNil(t, got)
	assert.Equal(t, "08:30", *got)
}

func TestLatestDeparture_IgnoresAfterConstraints(t *testing.T) {
	stops := threeStops()
	stops[1] = after(stops[1], "09:00")
	n := normalizeWith(t, &domain.OptimizeRequest{Stops: stops})

	assert.Nil(t, pipeline.LatestDeparture(n, map[string]int{"A": 0, "B": 600, "C": 1200}))
}

func TestLatestDeparture_NegativeFloorsToMidnight(t *testing.T) {
	stops := threeStops()
	stops[1] = before(stops[1], "00:10")
	n := normalizeWith(t, &domain.OptimizeRequest{Stops: stops})

	offsets := map[string]int{"A": 0, "B": 3600, "C": 4000}
	secs, ok := pipeline.LatestDepartureSeconds(n, offsets)
	require.True(t, ok)
	assert.Equal(t, 600-3600, secs)
	assert.Equal(t, "00:00", *pipeline.LatestDeparture(n, offsets))
}

func TestLatestDeparture_MonotoneInOffset(t *testing.T) {
	stops := threeStops()
	stops[1] = before(stops[1], "12:00")
	n := normalizeWith(t, &domain.OptimizeRequest{Stops: stops})

	prev := domain.SecondsPerDay
	for off := 0; off <= 7200; off += 300 {
		secs, ok := pipeline.LatestDepartureSeconds(n, map[string]int{"A": 0, "B": off, "C": 10})
		require.True(t, ok)
		assert.LessOrEqual(t, secs, prev)
		prev = secs
	}
}

func TestEstimatedArrivals(t *testing.T) {
	n := normalizeWith(t, &domain.OptimizeRequest{Stops: threeStops()})
	assert.Nil(t, pipeline.EstimatedArrivals(n, map[string]int{"A": 0}))

	n = normalizeWith(t, &domain.OptimizeRequest{Stops: threeStops(), StartTime: "23:30"})
	got := pipeline.EstimatedArrivals(n, map[string]int{"A": 0, "B": 1200, "C": 3600})
	assert.Equal(t, map[string]string{"A": "23:30", "B": "23:50", "C": "00:30+1"}, got)
}
