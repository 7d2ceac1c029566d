package pipeline

import "github.com/samirrijal/stopsequencer/internal/core/domain"

// Interpretation is the solver answer mapped back to stop identities.
type Interpretation struct {
	OrderedStopIDs []string
	// Offsets holds seconds from departure to arrival at each stop.
	Offsets map[string]int
}

// Interpret validates the solution against the node layout and maps node
// indices to stop ids. Any deviation fails closed with
// domain.KindInternalInconsistency; a partial order is never returned.
//
// Solvers may report arrivals as absolute cumul values (an OR-Tools model
// that maximises the start time does). Offsets are therefore taken relative
// to the start node's arrival.
func Interpret(n *Normalized, sol *domain.Solution) (*Interpretation, error) {
	count := n.NodeCount()
	nodes := sol.OrderedNodes
	if len(nodes) != count {
		return nil, domain.Inconsistentf("solver returned %d nodes, expected %d", len(nodes), count)
	}
	if nodes[0] != n.StartNode {
		return nil, domain.Inconsistentf("route starts at node %d, expected %d", nodes[0], n.StartNode)
	}
	if nodes[len(nodes)-1] != n.EndNode {
		return nil, domain.Inconsistentf("route ends at node %d, expected %d", nodes[len(nodes)-1], n.EndNode)
	}

	visited := make([]bool, count)
	for _, node := range nodes {
		if node < 0 || node >= count {
			return nil, domain.Inconsistentf("unknown node index %d", node)
		}
		if visited[node] {
			return nil, domain.Inconsistentf("node %d visited twice", node)
		}
		visited[node] = true
	}

	for node := range sol.Arrivals {
		if node < 0 || node >= count {
			return nil, domain.Inconsistentf("arrival for unknown node %d", node)
		}
	}

	base, ok := sol.Arrivals[n.StartNode]
	if !ok {
		return nil, domain.Inconsistentf("no arrival reported for start node %d", n.StartNode)
	}

	terminal := n.TerminalNode()
	out := &Interpretation{
		OrderedStopIDs: make([]string, 0, len(n.Stops)),
		Offsets:        make(map[string]int, len(n.Stops)),
	}
	for _, node := range nodes {
		if node == terminal {
			continue
		}
		arrival, ok := sol.Arrivals[node]
		if !ok {
			return nil, domain.Inconsistentf("no arrival reported for node %d", node)
		}
		offset := arrival - base
		if offset < 0 {
			return nil, domain.Inconsistentf("node %d arrives %ds before departure", node, -offset)
		}
		id := n.Stops[node].ID
		out.OrderedStopIDs = append(out.OrderedStopIDs, id)
		out.Offsets[id] = offset
	}
	return out, nil
}
