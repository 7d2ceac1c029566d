package pipeline

import "github.com/samirrijal/stopsequencer/internal/core/domain"

// EncodeConstraint converts one arrival constraint to its window.
// A nil constraint is unconstrained.
func EncodeConstraint(c *Constraint) domain.TimeWindow {
	if c == nil {
		return domain.FullDay
	}
	switch c.Kind {
	case domain.ConstraintBefore:
		return domain.TimeWindow{Earliest: 0, Latest: c.Seconds}
	case domain.ConstraintAfter:
		return domain.TimeWindow{Earliest: c.Seconds, Latest: domain.SecondsPerDay}
	}
	return domain.FullDay
}

// EncodeWindows returns one window per node. The terminal is always the
// full day; a pinned start time narrows the start node to that instant.
func EncodeWindows(n *Normalized) []domain.TimeWindow {
	windows := make([]domain.TimeWindow, n.NodeCount())
	for i := range n.Stops {
		windows[i] = EncodeConstraint(n.Constraints[i])
	}
	if n.HasTerminal {
		windows[n.TerminalNode()] = domain.FullDay
	}
	if n.StartTime != nil {
		windows[n.StartNode] = domain.TimeWindow{Earliest: *n.StartTime, Latest: *n.StartTime}
	}
	return windows
}

// ServiceTimes returns per-node dwell seconds, or nil when there is none.
func ServiceTimes(n *Normalized) []int {
	if n.ServiceSeconds == 0 {
		return nil
	}
	st := make([]int, n.NodeCount())
	for i := range n.Stops {
		if i != n.StartNode {
			st[i] = n.ServiceSeconds
		}
	}
	return st
}

// BuildSolveRequest assembles the solver tuple.
func BuildSolveRequest(n *Normalized, m domain.TimeMatrix) *domain.SolveRequest {
	return &domain.SolveRequest{
		TimeMatrix:   m,
		TimeWindows:  EncodeWindows(n),
		ServiceTimes: ServiceTimes(n),
		StartIndex:   n.StartNode,
		EndIndex:     n.EndNode,
	}
}
