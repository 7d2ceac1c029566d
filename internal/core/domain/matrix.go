package domain

import "encoding/json"

// MatrixEntry is one (origin, destination) travel time reported by a
// distance provider. Indices refer to the coordinate list sent to it.
type MatrixEntry struct {
	Origin          int     `json:"originIndex"`
	Destination     int     `json:"destinationIndex"`
	DurationSeconds float64 `json:"durationSeconds"`
}

// TimeMatrix holds travel seconds between nodes. matrix[i][i] is always 0.
type TimeMatrix [][]int

// NewTimeMatrix returns an n×n matrix with a zero diagonal and every other
// cell set to Unreachable.
func NewTimeMatrix(n int) TimeMatrix {
	m := make(TimeMatrix, n)
	for i := range m {
		m[i] = make([]int, n)
		for j := range m[i] {
			if i != j {
				m[i][j] = Unreachable
			}
		}
	}
	return m
}

// Size returns the number of nodes.
func (m TimeMatrix) Size() int { return len(m) }

// TimeWindow is an [Earliest, Latest] range in seconds since midnight.
type TimeWindow struct {
	Earliest int
	Latest   int
}

// FullDay is the window of an unconstrained node.
var FullDay = TimeWindow{Earliest: 0, Latest: SecondsPerDay}

// MarshalJSON encodes the window as a two-element array, the shape solvers expect.
func (w TimeWindow) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{w.Earliest, w.Latest})
}

// UnmarshalJSON decodes a two-element array.
func (w *TimeWindow) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	w.Earliest, w.Latest = pair[0], pair[1]
	return nil
}
