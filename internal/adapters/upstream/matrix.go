package upstream

import "github.com/samirrijal/stopsequencer/internal/core/domain"

// EntriesFromRows flattens a provider's durations table. Null cells are
// pairs the provider could not route and are left out.
func EntriesFromRows(rows [][]*float64) []domain.MatrixEntry {
	var out []domain.MatrixEntry
	for i, row := range rows {
		for j, v := range row {
			if v == nil {
				continue
			}
			out = append(out, domain.MatrixEntry{Origin: i, Destination: j, DurationSeconds: *v})
		}
	}
	return out
}
