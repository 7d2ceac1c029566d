package pipeline

import (
	"github.com/samirrijal/stopsequencer/internal/core/domain"
)

const (
	// MinStops is the smallest list worth sequencing.
	MinStops = 3
	// MaxStops bounds the matrix to what public routing providers accept.
	MaxStops = 100
	// MaxServiceMinutes caps the per-stop dwell time.
	MaxServiceMinutes = 240
)

// Constraint is a parsed arrival constraint.
type Constraint struct {
	Kind    domain.ConstraintKind
	Seconds int
}

// Normalized is the node layout of one request. Nodes 0..len(Stops)-1 are
// the stops in submission order; when HasTerminal is set the synthetic
// terminal is node len(Stops).
type Normalized struct {
	Stops       []domain.Stop
	Constraints []*Constraint // aligned with Stops
	StartNode   int
	EndNode     int
	HasTerminal bool

	// StartTime is the pinned departure in seconds since midnight, if any.
	StartTime *int
	// ServiceSeconds is the dwell time at every real stop except the start.
	ServiceSeconds int
}

// NodeCount is the matrix dimension.
func (n *Normalized) NodeCount() int {
	if n.HasTerminal {
		return len(n.Stops) + 1
	}
	return len(n.Stops)
}

// TerminalNode returns the synthetic terminal index, or -1 for a closed path.
func (n *Normalized) TerminalNode() int {
	if n.HasTerminal {
		return len(n.Stops)
	}
	return -1
}

// Points returns the real stop coordinates in node order.
func (n *Normalized) Points() []domain.GeoPoint {
	pts := make([]domain.GeoPoint, len(n.Stops))
	for i, s := range n.Stops {
		pts[i] = s.Location
	}
	return pts
}

// Normalize validates the request and lays out the nodes. It makes no
// external calls; every failure is a validation error.
func Normalize(req *domain.OptimizeRequest) (*Normalized, error) {
	if req == nil {
		return nil, domain.Validationf("request is required")
	}

	stops := make([]domain.Stop, 0, len(req.Stops))
	seen := make(map[string]int, len(req.Stops))
	for i, s := range req.Stops {
		if s.ID == "" {
			return nil, domain.Validationf("stops[%d]: id is required", i)
		}
		if !s.Location.Valid() {
			return nil, domain.Validationf("stops[%d] (%s): coordinates out of range (lat %v, lng %v)", i, s.ID, s.Location.Lat, s.Location.Lng)
		}
		if j, dup := seen[s.ID]; dup {
			if sameStop(stops[j], s) {
				continue
			}
			return nil, domain.Validationf("stops[%d]: duplicate id %q with different data", i, s.ID)
		}
		seen[s.ID] = len(stops)
		stops = append(stops, s)
	}

	if len(stops) < MinStops {
		return nil, domain.Validationf("need at least %d stops to optimize, got %d", MinStops, len(stops))
	}
	if len(stops) > MaxStops {
		return nil, domain.Validationf("at most %d stops can be optimized, got %d", MaxStops, len(stops))
	}

	constraints := make([]*Constraint, len(stops))
	for i, s := range stops {
		c, err := parseConstraint(s.Constraint)
		if err != nil {
			return nil, domain.Validationf("stop %s: %v", s.ID, err)
		}
		constraints[i] = c
	}

	n := &Normalized{
		Stops:       stops,
		Constraints: constraints,
		StartNode:   0,
	}

	if req.EndStopID == "" {
		n.HasTerminal = true
		n.EndNode = len(stops)
	} else {
		idx, ok := seen[req.EndStopID]
		if !ok {
			return nil, domain.Validationf("endStopId %q is not one of the stops", req.EndStopID)
		}
		if idx == n.StartNode {
			return nil, domain.Validationf("endStopId must differ from the start stop")
		}
		n.EndNode = idx
	}

	if req.StartTime != "" {
		secs, err := domain.ParseTimeOfDay(req.StartTime)
		if err != nil {
			return nil, domain.Validationf("startTime: %v", err)
		}
		if w := EncodeConstraint(constraints[n.StartNode]); secs < w.Earliest || secs > w.Latest {
			return nil, domain.Validationf("startTime %s violates the start stop's arrival constraint", req.StartTime)
		}
		n.StartTime = &secs
	}

	if req.ServiceTimeMinutes < 0 || req.ServiceTimeMinutes > MaxServiceMinutes {
		return nil, domain.Validationf("serviceTimeMinutes must be between 0 and %d", MaxServiceMinutes)
	}
	n.ServiceSeconds = req.ServiceTimeMinutes * 60

	return n, nil
}

func parseConstraint(c *domain.ArrivalConstraint) (*Constraint, error) {
	if c == nil {
		return nil, nil
	}
	kind := c.Kind
	switch kind {
	case domain.ConstraintBefore, domain.ConstraintAfter:
	default:
		return nil, domain.Validationf("constraint kind must be %q or %q, got %q", domain.ConstraintBefore, domain.ConstraintAfter, kind)
	}
	secs, err := domain.ParseTimeOfDay(c.TimeOfDay)
	if err != nil {
		return nil, err
	}
	return &Constraint{Kind: kind, Seconds: secs}, nil
}

func sameStop(a, b domain.Stop) bool {
	if a.ID != b.ID || a.Location != b.Location {
		return false
	}
	if a.Constraint == nil || b.Constraint == nil {
		return a.Constraint == nil && b.Constraint == nil
	}
	return *a.Constraint == *b.Constraint
}
