package calcgraph

import "fmt"

// computationOrder linearizes the nodes reachable from the output into a
// dependency-respecting order and sweeps everything else from the arena.
// It mutates arena contents and must run exactly once per graph, after
// an output has been designated.
//
// The traversal is a depth-first walk from the output node along input
// edges (opposite to data flow). A node still on the visiting path being
// reached again means a cycle is reachable from the output.
func (g *Graph[T]) computationOrder() ([]Key, error) {
	if !g.hasOutput {
		return nil, ErrNoOutput
	}

	visiting := make(map[Key]bool)
	done := make(map[Key]bool)
	var order []Key

	var visit func(k Key) error
	visit = func(k Key) error {
		if done[k] {
			return nil
		}
		if visiting[k] {
			n, _ := g.arena.get(k)
			return fmt.Errorf("at node %q: %w", n.name, ErrCycle)
		}
		visiting[k] = true
		n, ok := g.arena.get(k)
		if !ok {
			panic("calcgraph: sorted key resolves to no node")
		}
		for _, in := range n.inputs {
			if err := visit(in); err != nil {
				return err
			}
		}
		delete(visiting, k)
		done[k] = true
		// Inputs finish before their consumers, so finish order is
		// already a valid linearization.
		order = append(order, k)
		return nil
	}
	if err := visit(g.output); err != nil {
		return nil, err
	}

	g.sweep(done)
	return order, nil
}

// sweep removes every node not in the reachable set and corrects the
// live-reference counters of the removed nodes' former inputs: a removed
// node is no longer a consumer.
func (g *Graph[T]) sweep(reachable map[Key]bool) {
	var orphanedInputs []Key
	removed := 0
	g.arena.retain(func(k Key, n *node[T]) bool {
		if reachable[k] {
			return true
		}
		orphanedInputs = append(orphanedInputs, n.inputs...)
		removed++
		if g.logger != nil {
			g.logger.Debug("sweeping unreachable node", "node", n.name)
		}
		return false
	})
	for _, in := range orphanedInputs {
		// The input may itself have been unreachable and removed.
		if n, ok := g.arena.get(in); ok {
			n.refs--
		}
	}
	if removed > 0 {
		g.hooks.OnSweep(removed)
	}
}
