// Package solver drives the external time-window routing solver, either as a
// remote HTTP service or as a local subprocess speaking JSON on stdin/stdout.
// Both transports share the same request body and response variants.
package solver

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
)

// Error tags a solver may return instead of a solution.
const (
	tagNoSolution = "no_solution"
	tagBadRequest = "bad_request"
)

// response covers both variants: {"ordered_nodes","arrivals"} or
// {"error","message"}.
type response struct {
	OrderedNodes []int                      `json:"ordered_nodes"`
	Arrivals     map[string]json.RawMessage `json:"arrivals"`
	Error        string                     `json:"error"`
	Message      string                     `json:"message"`
}

// decodeResponse classifies a solver body. A no_solution tag is infeasible;
// any other tag or an unrecognised shape is an unavailable solver.
func decodeResponse(body []byte) (*domain.Solution, error) {
	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, domain.Unavailable(domain.UpstreamSolver, "malformed solver response", err)
	}

	switch {
	case r.Error == tagNoSolution:
		return nil, domain.Infeasible("")
	case r.Error != "":
		msg := "solver error " + r.Error
		if r.Message != "" {
			msg += ": " + r.Message
		}
		return nil, domain.Unavailable(domain.UpstreamSolver, msg, nil)
	case r.OrderedNodes == nil:
		return nil, domain.Unavailable(domain.UpstreamSolver, "solver response has neither a route nor an error", nil)
	}

	arrivals := make(map[int]int, len(r.Arrivals))
	for k, v := range r.Arrivals {
		node, err := strconv.Atoi(k)
		if err != nil {
			return nil, domain.Unavailable(domain.UpstreamSolver, "malformed solver response",
				fmt.Errorf("arrival key %q is not a node index", k))
		}
		var secs float64
		if err := json.Unmarshal(v, &secs); err != nil {
			return nil, domain.Unavailable(domain.UpstreamSolver, "malformed solver response",
				fmt.Errorf("arrival for node %d: %w", node, err))
		}
		arrivals[node] = int(secs)
	}
	return &domain.Solution{OrderedNodes: r.OrderedNodes, Arrivals: arrivals}, nil
}
