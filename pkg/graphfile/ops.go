package graphfile

import (
	"math/rand"

	"github.com/hweiss/calcgraph/pkg/calcgraph"
	"github.com/hweiss/calcgraph/pkg/errors"
)

// Builtin op names.
const (
	OpConst     = "const"     // args: [n] or str: string literal
	OpAdd       = "add"       // sum of numeric inputs
	OpMul       = "mul"       // product of numeric inputs
	OpNeg       = "neg"       // numeric negation
	OpConcat    = "concat"    // concatenation of string inputs
	OpHistogram = "histogram" // character histogram of a string input
	OpNoise     = "noise"     // args: [count, amplitude, seed]: uniform noise buffer
	OpBoxcar    = "boxcar"    // args: [window]: moving average over a sample buffer
)

// variadic marks ops that accept any number of inputs.
const variadic = -1

// opDef describes a builtin op: its input arity and how to build the
// node function for a concrete NodeSpec.
type opDef struct {
	minInputs int
	maxInputs int
	build     func(n NodeSpec) calcgraph.Func[Value]
}

var ops = map[string]opDef{
	OpConst: {0, 0, func(n NodeSpec) calcgraph.Func[Value] {
		val := Number(0)
		if n.Str != "" {
			val = Text(n.Str)
		} else if len(n.Args) > 0 {
			val = Number(n.Args[0])
		}
		return func([]Value) Value { return val }
	}},
	OpAdd: {1, variadic, func(NodeSpec) calcgraph.Func[Value] {
		return func(in []Value) Value {
			sum := 0.0
			for _, v := range in {
				sum += asNumber(v)
			}
			return Number(sum)
		}
	}},
	OpMul: {1, variadic, func(NodeSpec) calcgraph.Func[Value] {
		return func(in []Value) Value {
			prod := 1.0
			for _, v := range in {
				prod *= asNumber(v)
			}
			return Number(prod)
		}
	}},
	OpNeg: {1, 1, func(NodeSpec) calcgraph.Func[Value] {
		return func(in []Value) Value { return Number(-asNumber(in[0])) }
	}},
	OpConcat: {1, variadic, func(NodeSpec) calcgraph.Func[Value] {
		return func(in []Value) Value {
			out := ""
			for _, v := range in {
				out += asText(v)
			}
			return Text(out)
		}
	}},
	OpHistogram: {1, 1, func(NodeSpec) calcgraph.Func[Value] {
		return func(in []Value) Value {
			hist := make(map[string]int)
			for _, r := range asText(in[0]) {
				hist[string(r)]++
			}
			return Histogram(hist)
		}
	}},
	OpNoise: {0, 0, func(n NodeSpec) calcgraph.Func[Value] {
		count, amplitude, seed := 48000.0, 0.25, 1.0
		if len(n.Args) > 0 {
			count = n.Args[0]
		}
		if len(n.Args) > 1 {
			amplitude = n.Args[1]
		}
		if len(n.Args) > 2 {
			seed = n.Args[2]
		}
		return func([]Value) Value {
			rng := rand.New(rand.NewSource(int64(seed)))
			samples := make([]float64, int(count))
			for i := range samples {
				samples[i] = (rng.Float64()*2 - 1) * amplitude
			}
			return SampleBuffer(samples)
		}
	}},
	OpBoxcar: {1, 1, func(n NodeSpec) calcgraph.Func[Value] {
		window := 96
		if len(n.Args) > 0 && n.Args[0] >= 1 {
			window = int(n.Args[0])
		}
		return func(in []Value) Value {
			return SampleBuffer(boxcar(asSamples(in[0]), window))
		}
	}},
}

// boxcar applies a trailing moving average of the given window length.
// The input is zero-padded on the left so the output has the same length.
func boxcar(samples []float64, window int) []float64 {
	padded := make([]float64, len(samples)+window-1)
	copy(padded[window-1:], samples)

	out := make([]float64, len(samples))
	sum := 0.0
	for i, v := range padded {
		sum += v
		if i >= window {
			sum -= padded[i-window]
		}
		if i >= window-1 {
			out[i-window+1] = sum / float64(window)
		}
	}
	return out
}

// checkOp validates the op name and input arity of a node spec.
func checkOp(n NodeSpec) error {
	def, ok := ops[n.Op]
	if !ok {
		return errors.New(errors.ErrCodeInvalidOp, "node %q: unknown op %q", n.ID, n.Op)
	}
	if len(n.Inputs) < def.minInputs {
		return errors.New(errors.ErrCodeInvalidGraph,
			"node %q: op %q needs at least %d inputs, got %d", n.ID, n.Op, def.minInputs, len(n.Inputs))
	}
	if def.maxInputs != variadic && len(n.Inputs) > def.maxInputs {
		return errors.New(errors.ErrCodeInvalidGraph,
			"node %q: op %q takes at most %d inputs, got %d", n.ID, n.Op, def.maxInputs, len(n.Inputs))
	}
	return nil
}
