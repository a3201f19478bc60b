package calcgraph

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var (
	// ErrForeignHandle is returned when a handle is used against a graph
	// other than the one that issued it.
	ErrForeignHandle = errors.New("handle belongs to a different graph")

	// ErrNodeGone is returned when a handle references a node that has
	// been removed from the graph.
	ErrNodeGone = errors.New("node no longer exists")

	// ErrOutputDesignated is returned by [Graph.DesignateOutput] when an
	// output node was already designated. The first designation stands.
	ErrOutputDesignated = errors.New("output already designated")

	// ErrNoOutput is returned by [Graph.Compute] when no output node has
	// been designated.
	ErrNoOutput = errors.New("no output designated")

	// ErrSelfInput is returned by [Graph.SetInputs] when the input list
	// contains the node itself. Longer cycles are detected by [Graph.Compute].
	ErrSelfInput = errors.New("node cannot be its own input")

	// ErrCycle is returned by [Graph.Compute] when a cycle is reachable
	// from the output node. No node in the cycle's closure is evaluated.
	ErrCycle = errors.New("graph contains a cycle")

	// ErrConsumed is returned when a graph is used after [Graph.Compute]
	// has run. A graph is a one-shot resource.
	ErrConsumed = errors.New("graph already consumed")
)

// Func computes a node's value from the values of its declared inputs.
// The inputs slice has one entry per declared input, in declaration
// order, and must be treated as read-only. Any side effects are the
// function's own business and invisible to the engine.
type Func[T any] func(inputs []T) T

// Handle is an opaque, graph-scoped reference to a node. Handles are
// equality-comparable and valid only against the graph that issued them;
// using a handle with any other graph is a protocol error.
type Handle struct {
	key   Key
	graph uuid.UUID
}

// node is the arena record backing one computation node.
type node[T any] struct {
	name   string
	fn     Func[T]
	inputs []Key
	cache  *cell[T] // nil until evaluated
	refs   int      // not-yet-satisfied consumers of the future value
}

// Graph is a one-shot directed acyclic graph of named computation nodes.
// Build it with [Graph.InsertNode], [Graph.SetInputs] and
// [Graph.DesignateOutput], then call [Graph.Compute] exactly once to
// obtain the output value. Compute consumes the graph: nodes unreachable
// from the output are swept before anything runs, intermediate results
// are reclaimed as soon as their last consumer has run, and afterwards
// the graph is unusable.
//
// Graph is not safe for concurrent use.
type Graph[T any] struct {
	arena     arena[T]
	output    Key
	hasOutput bool
	id        uuid.UUID
	consumed  bool

	logger *log.Logger
	hooks  EvalHooks
}

// New creates an empty graph with a fresh instance identity token.
func New[T any]() *Graph[T] {
	return &Graph[T]{
		id:    uuid.New(),
		hooks: NopHooks{},
	}
}

// SetLogger attaches a logger used for per-node evaluation progress at
// debug level. A nil logger (the default) disables logging.
func (g *Graph[T]) SetLogger(l *log.Logger) { g.logger = l }

// SetHooks attaches evaluation hooks. Passing nil restores the no-op default.
func (g *Graph[T]) SetHooks(h EvalHooks) {
	if h == nil {
		h = NopHooks{}
	}
	g.hooks = h
}

// InsertNode allocates a new node with no inputs and no cached value and
// returns its handle. The name is diagnostic only; uniqueness is not
// enforced. Always succeeds.
func (g *Graph[T]) InsertNode(name string, fn Func[T]) Handle {
	key := g.arena.insert(&node[T]{name: name, fn: fn})
	return Handle{key: key, graph: g.id}
}

// NodeName returns the diagnostic name of the node behind h.
func (g *Graph[T]) NodeName(h Handle) (string, error) {
	n, err := g.resolve(h)
	if err != nil {
		return "", err
	}
	return n.name, nil
}

// NodeCount returns the number of nodes currently in storage.
func (g *Graph[T]) NodeCount() int { return g.arena.len() }

// DesignateOutput marks the node behind h as the graph's single output.
// The designation itself counts as a consumer of the node's future
// value, which is what keeps the output node alive through evaluation.
// Fails with ErrOutputDesignated if called twice; the first designation
// is left unchanged.
func (g *Graph[T]) DesignateOutput(h Handle) error {
	if g.consumed {
		return ErrConsumed
	}
	if g.hasOutput {
		return ErrOutputDesignated
	}
	n, err := g.resolve(h)
	if err != nil {
		return err
	}
	g.output = h.key
	g.hasOutput = true
	n.refs++
	return nil
}

// SetInputs replaces the declared inputs of the node behind h. Order is
// significant: it is the order in which values are passed to the node's
// function. Duplicate inputs are allowed and each occurrence counts as a
// separate consumer. A direct self-loop fails with ErrSelfInput; longer
// cycles are deferred to [Graph.Compute].
func (g *Graph[T]) SetInputs(h Handle, inputs []Handle) error {
	if g.consumed {
		return ErrConsumed
	}
	n, err := g.resolve(h)
	if err != nil {
		return err
	}
	keys := make([]Key, len(inputs))
	for i, in := range inputs {
		if in.key == h.key {
			return fmt.Errorf("input %d: %w", i, ErrSelfInput)
		}
		if _, err := g.resolve(in); err != nil {
			return fmt.Errorf("input %d: %w", i, err)
		}
		keys[i] = in.key
	}
	// Undo the consumer references of a previously declared list before
	// installing the replacement.
	for _, old := range n.inputs {
		if oldNode, ok := g.arena.get(old); ok {
			oldNode.refs--
		}
	}
	for _, k := range keys {
		inNode, _ := g.arena.get(k)
		inNode.refs++
	}
	n.inputs = keys
	return nil
}

// resolve checks h's owning-graph token and dereferences it.
func (g *Graph[T]) resolve(h Handle) (*node[T], error) {
	if h.graph != g.id {
		return nil, ErrForeignHandle
	}
	n, ok := g.arena.get(h.key)
	if !ok {
		return nil, ErrNodeGone
	}
	return n, nil
}
