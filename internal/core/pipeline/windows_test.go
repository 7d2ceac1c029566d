package pipeline_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
	"github.com/samirrijal/stopsequencer/internal/core/pipeline"
)

func TestEncodeConstraint(t *testing.T) {
	assert.Equal(t, domain.TimeWindow{Earliest: 0, Latest: 32400},
		pipeline.EncodeConstraint(&pipeline.Constraint{Kind: domain.ConstraintBefore, Seconds: 32400}))
	assert.Equal(t, domain.TimeWindow{Earliest: 32400, Latest: 86400},
		pipeline.EncodeConstraint(&pipeline.Constraint{Kind: domain.ConstraintAfter, Seconds: 32400}))
	assert.Equal(t, domain.FullDay, pipeline.EncodeConstraint(nil))
}

func TestEncodeWindows_TerminalIsUnconstrained(t *testing.T) {
	stops := threeStops()
	stops[1] = before(stops[1], "09:00")
	n, err := pipeline.Normalize(&domain.OptimizeRequest{Stops: stops})
	require.NoError(t, err)

	w := pipeline.EncodeWindows(n)
	require.Len(t, w, 4)
	assert.Equal(t, domain.FullDay, w[0])
	assert.Equal(t, domain.TimeWindow{Earliest: 0, Latest: 32400}, w[1])
	assert.Equal(t, domain.FullDay, w[2])
	assert.Equal(t, domain.FullDay, w[3])
}

func TestEncodeWindows_StartTimePinsStart(t *testing.T) {
	n, err := pipeline.Normalize(&domain.OptimizeRequest{Stops: threeStops(), StartTime: "08:00"})
	require.NoError(t, err)

	w := pipeline.EncodeWindows(n)
	assert.Equal(t, domain.TimeWindow{Earliest: 28800, Latest: 28800}, w[0])
}

func TestServiceTimes(t *testing.T) {
	n, err := pipeline.Normalize(&domain.OptimizeRequest{Stops: threeStops()})
	require.NoError(t, err)
	assert.Nil(t, pipeline.ServiceTimes(n))

	n, err = pipeline.Normalize(&domain.OptimizeRequest{Stops: threeStops(), ServiceTimeMinutes: 5})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 300, 300, 0}, pipeline.ServiceTimes(n))
}

func TestBuildSolveRequest_WireShape(t *testing.T) {
	n, err := pipeline.Normalize(&domain.OptimizeRequest{Stops: threeStops(), EndStopID: "C"})
	require.NoError(t, err)

	m := domain.TimeMatrix{{0, 10, 20}, {10, 0, 30}, {20, 30, 0}}
	data, err := json.Marshal(pipeline.BuildSolveRequest(n, m))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"time_matrix": [[0,10,20],[10,0,30],[20,30,0]],
		"time_windows": [[0,86400],[0,86400],[0,86400]],
		"start_index": 0,
		"end_index": 2
	}`, string(data))
}
