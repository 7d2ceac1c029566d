package pipeline

import (
	"fmt"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
)

// LatestDepartureSeconds is the latest departure (seconds since midnight)
// that still meets every "before" deadline given the solved offsets. ok is
// false when no stop carries a "before" constraint. The value may be negative.
func LatestDepartureSeconds(n *Normalized, offsets map[string]int) (latest int, ok bool) {
	for i, c := range n.Constraints {
		if c == nil || c.Kind != domain.ConstraintBefore {
			continue
		}
		offset, found := offsets[n.Stops[i].ID]
		if !found {
			continue
		}
		candidate := c.Seconds - offset
		if !ok || candidate < latest {
			latest = candidate
			ok = true
		}
	}
	return latest, ok
}

// LatestDeparture formats LatestDepartureSeconds as HH:MM. Negative values
// floor to "00:00"; nil means no deadline applies.
func LatestDeparture(n *Normalized, offsets map[string]int) *string {
	secs, ok := LatestDepartureSeconds(n, offsets)
	if !ok {
		return nil
	}
	s := domain.FormatTimeOfDay(secs)
	return &s
}

// EstimatedArrivals projects offsets onto a pinned start time. Arrivals past
// midnight carry a "+1" day suffix.
func EstimatedArrivals(n *Normalized, offsets map[string]int) map[string]string {
	if n.StartTime == nil {
		return nil
	}
	out := make(map[string]string, len(offsets))
	for id, off := range offsets {
		t := *n.StartTime + off
		days := t / domain.SecondsPerDay
		s := domain.FormatTimeOfDay(t % domain.SecondsPerDay)
		if days > 0 {
			s += fmt.Sprintf("+%d", days)
		}
		out[id] = s
	}
	return out
}
