package pipeline_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
	"github.com/samirrijal/stopsequencer/internal/core/pipeline"
)

func TestAssembleMatrix_MissingPairsStayUnreachable(t *testing.T) {
	entries := []domain.MatrixEntry{
		{Origin: 0, Destination: 1, DurationSeconds: 120.4},
		{Origin: 1, Destination: 2, DurationSeconds: 60},
	}
	m, err := pipeline.AssembleMatrix(entries, 3, false)
	require.NoError(t, err)

	assert.Equal(t, 120, m[0][1])
	assert.Equal(t, 60, m[1][2])
	assert.Equal(t, domain.Unreachable, m[1][0])
	assert.Equal(t, domain.Unreachable, m[2][0])
	for i := range m {
		assert.Equal(t, 0, m[i][i])
	}
}

func TestAssembleMatrix_TerminalEdgesAreZero(t *testing.T) {
	entries := []domain.MatrixEntry{{Origin: 0, Destination: 1, DurationSeconds: 100}}
	m, err := pipeline.AssembleMatrix(entries, 3, true)
	require.NoError(t, err)

	require.Equal(t, 4, m.Size())
	for i := 0; i < 4; i++ {
		assert.Equal(t, 0, m[i][3])
		assert.Equal(t, 0, m[3][i])
	}
}

func TestAssembleMatrix_CapsAtUnreachable(t *testing.T) {
	m, err := pipeline.AssembleMatrix([]domain.MatrixEntry{{Origin: 0, Destination: 1, DurationSeconds: 1e9}}, 3, false)
	require.NoError(t, err)
	assert.Equal(t, domain.Unreachable, m[0][1])
}

func TestAssembleMatrix_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		entries []domain.MatrixEntry
	}{
		{"no entries", nil},
		{"only diagonal", []domain.MatrixEntry{{Origin: 1, Destination: 1}}},
		{"index out of range", []domain.MatrixEntry{{Origin: 0, Destination: 3, DurationSeconds: 5}}},
		{"negative duration", []domain.MatrixEntry{{Origin: 0, Destination: 1, DurationSeconds: -5}}},
		{"NaN duration", []domain.MatrixEntry{{Origin: 0, Destination: 1, DurationSeconds: math.NaN()}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pipeline.AssembleMatrix(tt.entries, 3, false)
			assert.True(t, errors.Is(err, domain.ErrUpstreamUnavailable), "got %v", err)
		})
	}
}

func TestBuildMatrix_ClassifiesProviderErrors(t *testing.T) {
	n, err := pipeline.Normalize(&domain.OptimizeRequest{Stops: threeStops()})
	require.NoError(t, err)

	rl := &mockMatrix{durationsFn: func(context.Context, []domain.GeoPoint) ([]domain.MatrixEntry, error) {
		return nil, domain.RateLimited(domain.UpstreamMatrix, "quota exceeded")
	}}
	_, err = pipeline.BuildMatrix(context.Background(), rl, n)
	assert.True(t, errors.Is(err, domain.ErrUpstreamRateLimited))

	plain := &mockMatrix{durationsFn: func(context.Context, []domain.GeoPoint) ([]domain.MatrixEntry, error) {
		return nil, errors.New("connection refused")
	}}
	_, err = pipeline.BuildMatrix(context.Background(), plain, n)
	var de *domain.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, domain.KindUpstreamUnavailable, de.Kind)
	assert.Equal(t, domain.UpstreamMatrix, de.Upstream)
	assert.Equal(t, 1, plain.calls)
}
