package pipeline

import (
	"context"
	"fmt"
	"math"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
	"github.com/samirrijal/stopsequencer/internal/core/ports"
)

// BuildMatrix asks the provider for all real stops in one call and lays the
// result out as the node matrix.
func BuildMatrix(ctx context.Context, provider ports.MatrixProvider, n *Normalized) (domain.TimeMatrix, error) {
	entries, err := provider.Durations(ctx, n.Points())
	if err != nil {
		return nil, asUpstreamError(domain.UpstreamMatrix, err)
	}
	return AssembleMatrix(entries, len(n.Stops), n.HasTerminal)
}

// AssembleMatrix maps provider entries onto an N×N (or (N+1)×(N+1) with a
// terminal) matrix. Unreported pairs keep domain.Unreachable. Terminal edges
// are zero in both directions.
func AssembleMatrix(entries []domain.MatrixEntry, realCount int, withTerminal bool) (domain.TimeMatrix, error) {
	size := realCount
	if withTerminal {
		size++
	}
	m := domain.NewTimeMatrix(size)

	usable := 0
	for _, e := range entries {
		if e.Origin < 0 || e.Origin >= realCount || e.Destination < 0 || e.Destination >= realCount {
			return nil, domain.Unavailable(domain.UpstreamMatrix, "malformed matrix payload",
				fmt.Errorf("entry (%d,%d) outside %d locations", e.Origin, e.Destination, realCount))
		}
		if math.IsNaN(e.DurationSeconds) || math.IsInf(e.DurationSeconds, 0) || e.DurationSeconds < 0 {
			return nil, domain.Unavailable(domain.UpstreamMatrix,
				"malformed matrix payload: invalid duration", nil)
		}
		if e.Origin == e.Destination {
			continue
		}
		secs := int(math.Round(e.DurationSeconds))
		if secs > domain.Unreachable {
			secs = domain.Unreachable
		}
		m[e.Origin][e.Destination] = secs
		usable++
	}

	if usable == 0 {
		return nil, domain.Unavailable(domain.UpstreamMatrix, "provider returned no travel durations", nil)
	}

	if withTerminal {
		t := realCount
		for i := 0; i < size; i++ {
			m[i][t] = 0
			m[t][i] = 0
		}
	}
	return m, nil
}
