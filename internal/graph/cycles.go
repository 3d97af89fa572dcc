package graph

import "fmt"

// DetectCycles checks the graph for any cycles. It returns a non-nil error
// if a cycle is found, naming the first node involved in the detected cycle.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Classic depth-first search with three sets of nodes:
	// permanent: fully visited and known not to be part of a cycle.
	// temporary: currently in the recursion stack of this traversal.
	// unvisited: everything else.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(name string) error
	visit = func(name string) error {
		if permanent[name] {
			return nil
		}
		if temporary[name] {
			// A node already in the recursion stack means a cycle.
			return fmt.Errorf("cycle detected involving node '%s'", name)
		}

		temporary[name] = true

		n := g.nodes[name]
		for _, pin := range n.Def.OutputPins() {
			for _, remote := range n.connections[pin.ID] {
				if err := visit(remote.Node); err != nil {
					return err
				}
			}
		}

		delete(temporary, name)
		permanent[name] = true
		return nil
	}

	for name := range g.nodes {
		if !permanent[name] {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}
