package calcgraph

import (
	"fmt"
	"io"
	"strings"
)

// DOT renders the graph as a Graphviz directed-graph description.
// Convenience wrapper around [Graph.WriteDOT].
func (g *Graph[T]) DOT() string {
	var b strings.Builder
	_ = g.WriteDOT(&b)
	return b.String()
}

// WriteDOT writes a Graphviz description of the graph to w without
// mutating the graph. Every node currently in storage is covered, one
// connected component at a time via breadth-first traversal, so the
// rendering is usable on graphs that have not been validated or
// evaluated yet and may still contain unreachable nodes. The designated
// output node, if any, is drawn as a box.
//
// Node ids are internal stable identifiers rather than names, since
// names may collide.
func (g *Graph[T]) WriteDOT(w io.Writer) error {
	consumers := make(map[Key][]Key)
	for _, k := range g.arena.keys() {
		n, _ := g.arena.get(k)
		for _, in := range n.inputs {
			consumers[in] = append(consumers[in], k)
		}
	}

	var nodes, edges []string
	visited := make(map[Key]bool)
	for _, start := range g.arena.keys() {
		if visited[start] {
			continue
		}
		visited[start] = true
		queue := []Key{start}
		for len(queue) > 0 {
			k := queue[0]
			queue = queue[1:]
			n, ok := g.arena.get(k)
			if !ok {
				continue
			}
			attrs := fmt.Sprintf("label=\"%s\"", escapeName(n.name))
			if g.hasOutput && k == g.output {
				attrs += ", shape=box"
			}
			nodes = append(nodes, fmt.Sprintf("%s [%s];", dotID(k), attrs))
			for _, in := range n.inputs {
				edges = append(edges, fmt.Sprintf("%s->%s;", dotID(in), dotID(k)))
				if !visited[in] {
					visited[in] = true
					queue = append(queue, in)
				}
			}
			for _, c := range consumers[k] {
				if !visited[c] {
					visited[c] = true
					queue = append(queue, c)
				}
			}
		}
	}

	if _, err := io.WriteString(w, "strict digraph {\n"); err != nil {
		return err
	}
	for _, line := range nodes {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	for _, line := range edges {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "}\n")
	return err
}

// dotID formats a stable identifier for a node. Index plus generation
// keeps ids unique even across slot reuse.
func dotID(k Key) string {
	return fmt.Sprintf("n%dv%d", k.index, k.generation)
}

// escapeName escapes characters unsafe inside a double-quoted DOT
// string. Only the quote character needs treatment; everything else
// passes through unchanged.
func escapeName(name string) string {
	return strings.ReplaceAll(name, `"`, `\"`)
}
