package pipeline_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
	"github.com/samirrijal/stopsequencer/internal/core/pipeline"
)

func TestNormalize_OpenPathAddsTerminal(t *testing.T) {
	n, err := pipeline.Normalize(&domain.OptimizeRequest{Stops: threeStops()})
	require.NoError(t, err)

	assert.True(t, n.HasTerminal)
	assert.Equal(t, 0, n.StartNode)
	assert.Equal(t, 3, n.EndNode)
	assert.Equal(t, 3, n.TerminalNode())
	assert.Equal(t, 4, n.NodeCount())
	assert.Len(t, n.Points(), 3)
}

func TestNormalize_EndStopPinsEnd(t *testing.T) {
	n, err := pipeline.Normalize(&domain.OptimizeRequest{Stops: threeStops(), EndStopID: "B"})
	require.NoError(t, err)

	assert.False(t, n.HasTerminal)
	assert.Equal(t, 1, n.EndNode)
	assert.Equal(t, -1, n.TerminalNode())
	assert.Equal(t, 3, n.NodeCount())
}

func TestNormalize_ParsesConstraints(t *testing.T) {
	stops := threeStops()
	stops[1] = before(stops[1], "09:00")
	stops[2] = after(stops[2], "7:30")

	n, err := pipeline.Normalize(&domain.OptimizeRequest{Stops: stops})
	require.NoError(t, err)

	assert.Nil(t, n.Constraints[0])
	assert.Equal(t, &pipeline.Constraint{Kind: domain.ConstraintBefore, Seconds: 32400}, n.Constraints[1])
	assert.Equal(t, &pipeline.Constraint{Kind: domain.ConstraintAfter, Seconds: 27000}, n.Constraints[2])
}

func TestNormalize_CollapsesIdenticalDuplicates(t *testing.T) {
	stops := append(threeStops(), stop("B", 43.2700, -2.9400))
	n, err := pipeline.Normalize(&domain.OptimizeRequest{Stops: stops})
	require.NoError(t, err)
	assert.Len(t, n.Stops, 3)
}

func TestNormalize_Rejects(t *testing.T) {
	tests := []struct {
		name string
		req  *domain.OptimizeRequest
	}{
		{"nil request", nil},
		{"too few stops", &domain.OptimizeRequest{Stops: threeStops()[:2]}},
		{"two after dedupe", &domain.OptimizeRequest{Stops: []domain.Stop{
			stop("A", 43.26, -2.93), stop("B", 43.27, -2.94), stop("A", 43.26, -2.93),
		}}},
		{"duplicate id with other data", &domain.OptimizeRequest{Stops: append(threeStops(), stop("B", 40.0, -3.7))}},
		{"missing id", &domain.OptimizeRequest{Stops: append(threeStops(), stop("", 43.0, -2.0))}},
		{"latitude out of range", &domain.OptimizeRequest{Stops: append(threeStops(), stop("D", 91, 0))}},
		{"longitude out of range", &domain.OptimizeRequest{Stops: append(threeStops(), stop("D", 0, -181))}},
		{"bad time", &domain.OptimizeRequest{Stops: append(threeStops(), before(stop("D", 43.0, -2.0), "25:00"))}},
		{"bad minute", &domain.OptimizeRequest{Stops: append(threeStops(), before(stop("D", 43.0, -2.0), "09:60"))}},
		{"signed hour", &domain.OptimizeRequest{Stops: append(threeStops(), before(stop("D", 43.0, -2.0), "+9:00"))}},
		{"negative hour", &domain.OptimizeRequest{Stops: append(threeStops(), before(stop("D", 43.0, -2.0), "-0:30"))}},
		{"signed minute", &domain.OptimizeRequest{Stops: append(threeStops(), before(stop("D", 43.0, -2.0), "09:+5"))}},
		{"bad kind", &domain.OptimizeRequest{Stops: append(threeStops(), domain.Stop{
			ID: "D", Location: domain.GeoPoint{Lat: 43, Lng: -2},
			Constraint: &domain.ArrivalConstraint{TimeOfDay: "09:00", Kind: "around"},
		})}},
		{"unknown end stop", &domain.OptimizeRequest{Stops: threeStops(), EndStopID: "Z"}},
		{"end equals start", &domain.OptimizeRequest{Stops: threeStops(), EndStopID: "A"}},
		{"bad start time", &domain.OptimizeRequest{Stops: threeStops(), StartTime: "8h"}},
		{"negative service time", &domain.OptimizeRequest{Stops: threeStops(), ServiceTimeMinutes: -1}},
		{"huge service time", &domain.OptimizeRequest{Stops: threeStops(), ServiceTimeMinutes: pipeline.MaxServiceMinutes + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pipeline.Normalize(tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
		})
	}
}

func TestNormalize_TooManyStops(t *testing.T) {
	var stops []domain.Stop
	for i := 0; i <= pipeline.MaxStops; i++ {
		stops = append(stops, stop(string(rune('a'+i%26))+string(rune('a'+i/26)), 43+float64(i)/1000, -2.9))
	}
	_, err := pipeline.Normalize(&domain.OptimizeRequest{Stops: stops})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestNormalize_StartTimeMustFitStartWindow(t *testing.T) {
	stops := threeStops()
	stops[0] = after(stops[0], "10:00")

	_, err := pipeline.Normalize(&domain.OptimizeRequest{Stops: stops, StartTime: "09:00"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	n, err := pipeline.Normalize(&domain.OptimizeRequest{Stops: stops, StartTime: "10:15"})
	require.NoError(t, err)
	require.NotNil(t, n.StartTime)
	assert.Equal(t, 36900, *n.StartTime)
}
