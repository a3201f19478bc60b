package calcgraph

import (
	"context"
	"fmt"
	"time"
)

// Compute runs the graph and returns the output value, consuming the
// graph in the process.
//
// Nodes unreachable from the output are removed before anything runs,
// then every surviving node's function is invoked exactly once, in
// dependency order. A node's inputs are passed in declared order. As
// soon as a node's last consumer has run, its record is released; its
// value lives on only through the shared references already handed out.
// At the end exactly the output node remains, and its value is
// extracted under unique ownership.
//
// The context is checked between node invocations; cancellation aborts
// with ctx.Err() and no partial result. Protocol misuse and structural
// problems (ErrNoOutput, ErrCycle, ErrConsumed) are returned as errors;
// a violated internal invariant panics.
func (g *Graph[T]) Compute(ctx context.Context) (T, error) {
	var zero T
	if g.consumed {
		return zero, ErrConsumed
	}
	if !g.hasOutput {
		return zero, ErrNoOutput
	}
	g.consumed = true

	order, err := g.computationOrder()
	if err != nil {
		return zero, err
	}

	for _, key := range order {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		n, ok := g.arena.get(key)
		if !ok {
			panic("calcgraph: evaluation order references a removed node")
		}
		if n.cache != nil {
			panic(fmt.Sprintf("calcgraph: node %q invoked twice", n.name))
		}
		if g.logger != nil {
			g.logger.Debug("evaluating node", "node", n.name, "inputs", len(n.inputs))
		}
		g.hooks.OnNodeStart(n.name)
		start := time.Now()

		args := make([]T, 0, len(n.inputs))
		held := make([]*cell[T], 0, len(n.inputs))
		var spent []Key
		for _, in := range n.inputs {
			inNode, ok := g.arena.get(in)
			if !ok {
				panic("calcgraph: input node removed before its last consumer ran")
			}
			if inNode.cache == nil {
				panic(fmt.Sprintf("calcgraph: node %q read before evaluation", inNode.name))
			}
			held = append(held, inNode.cache.clone())
			args = append(args, inNode.cache.value)
			inNode.refs--
			if inNode.refs == 0 {
				spent = append(spent, in)
			}
		}

		n.cache = newCell(n.fn(args))

		for _, c := range held {
			c.release()
		}
		// The records of inputs whose last consumer just ran are
		// discarded immediately, not at the end of evaluation.
		for _, dead := range spent {
			deadNode, ok := g.arena.get(dead)
			if !ok {
				continue
			}
			deadNode.cache.release()
			g.arena.remove(dead)
			g.hooks.OnNodeReclaimed(deadNode.name)
			if g.logger != nil {
				g.logger.Debug("reclaimed node", "node", deadNode.name)
			}
		}
		g.hooks.OnNodeDone(n.name, time.Since(start))
	}

	out, ok := g.arena.get(g.output)
	if !ok || out.cache == nil {
		panic("calcgraph: output node missing after evaluation")
	}
	if g.arena.len() != 1 {
		panic(fmt.Sprintf("calcgraph: %d nodes left after evaluation, want 1", g.arena.len()))
	}
	// Extraction satisfies the consumer reference added by designation.
	out.refs--
	if out.refs != 0 {
		panic(fmt.Sprintf("calcgraph: output node %q still has %d live references", out.name, out.refs))
	}
	val, uniq := out.cache.tryUnwrap()
	if !uniq {
		panic(fmt.Sprintf("calcgraph: output value of %q is not uniquely owned", out.name))
	}
	g.arena.remove(g.output)
	return val, nil
}
