// Package calcgraph provides a one-shot evaluation engine for directed
// acyclic graphs of named computation nodes.
//
// # Overview
//
// Each node wraps an opaque function of the values produced by its
// declared input nodes, and exactly one node is designated as the
// graph's output. [Graph.Compute] determines a dependency-respecting
// order, removes nodes unreachable from the output before anything
// runs, invokes each surviving node's function exactly once, and
// returns the output value. Intermediate results are released as soon
// as their last consumer has run, which keeps peak memory proportional
// to the live frontier rather than the whole graph.
//
// # Basic Usage
//
// Build a graph with [Graph.InsertNode] and [Graph.SetInputs], mark the
// result node with [Graph.DesignateOutput], then evaluate:
//
//	g := calcgraph.New[int]()
//	a := g.InsertNode("a", func([]int) int { return 5 })
//	b := g.InsertNode("b", func([]int) int { return 4 })
//	mult := g.InsertNode("mult", func(in []int) int { return in[0] * in[1] })
//	g.SetInputs(mult, []calcgraph.Handle{a, b})
//	g.DesignateOutput(mult)
//	v, err := g.Compute(context.Background())
//
// Input order is significant: values reach a node's function in exactly
// the order declared via SetInputs.
//
// # Handles
//
// Nodes are referenced through opaque [Handle] values. A handle embeds
// the identity token of the graph that issued it and a generational
// arena key, so handles from another graph or handles to removed nodes
// are rejected instead of silently resolving to the wrong node.
//
// # Errors
//
// Construction and evaluation mistakes (wrong-graph handles, a second
// output designation, direct self-loops, cycles reachable from the
// output, reuse of a consumed graph) are reported as wrapped sentinel
// errors such as [ErrCycle] and [ErrForeignHandle]. Violations of the
// engine's own reference-accounting invariants panic: they indicate a
// bug in the engine, not in the caller.
//
// # Concurrency
//
// Evaluation is single-threaded and Graph is not safe for concurrent
// use. The shared-ownership bookkeeping around cached values models
// multiple downstream consumers of an already-finalized result, not
// parallel execution.
package calcgraph
