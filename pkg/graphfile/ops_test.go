package graphfile

import (
	"context"
	"math"
	"testing"
)

// run compiles and computes a description, failing the test on error.
func run(t *testing.T, d Description) Value {
	t.Helper()
	g, err := Compile(d)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	v, err := g.Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return v
}

func TestNumericOps(t *testing.T) {
	tests := []struct {
		name string
		desc Description
		want float64
	}{
		{
			name: "add",
			desc: Description{Output: "out", Nodes: []NodeSpec{
				{ID: "x", Op: OpConst, Args: []float64{2}},
				{ID: "y", Op: OpConst, Args: []float64{4}},
				{ID: "out", Op: OpAdd, Inputs: []string{"x", "y"}},
			}},
			want: 6,
		},
		{
			name: "mul",
			desc: Description{Output: "out", Nodes: []NodeSpec{
				{ID: "x", Op: OpConst, Args: []float64{3}},
				{ID: "y", Op: OpConst, Args: []float64{7}},
				{ID: "out", Op: OpMul, Inputs: []string{"x", "y"}},
			}},
			want: 21,
		},
		{
			name: "neg",
			desc: Description{Output: "out", Nodes: []NodeSpec{
				{ID: "x", Op: OpConst, Args: []float64{9}},
				{ID: "out", Op: OpNeg, Inputs: []string{"x"}},
			}},
			want: -9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := run(t, tt.desc)
			if v.Kind != KindNumber || v.Num != tt.want {
				t.Errorf("got %v, want %v", v, tt.want)
			}
		})
	}
}

func TestHistogramOp(t *testing.T) {
	v := run(t, Description{Output: "hist", Nodes: []NodeSpec{
		{ID: "in", Op: OpConst, Str: "abba"},
		{ID: "hist", Op: OpHistogram, Inputs: []string{"in"}},
	}})
	if v.Kind != KindHistogram {
		t.Fatalf("kind = %v, want histogram", v.Kind)
	}
	if v.Hist["a"] != 2 || v.Hist["b"] != 2 {
		t.Errorf("hist = %v, want a:2 b:2", v.Hist)
	}
}

func TestNoiseOp(t *testing.T) {
	v := run(t, Description{Output: "n", Nodes: []NodeSpec{
		{ID: "n", Op: OpNoise, Args: []float64{1000, 0.25, 42}},
	}})
	if v.Kind != KindSamples {
		t.Fatalf("kind = %v, want samples", v.Kind)
	}
	if len(v.Samples) != 1000 {
		t.Fatalf("len = %d, want 1000", len(v.Samples))
	}
	for i, s := range v.Samples {
		if math.Abs(s) > 0.25 {
			t.Fatalf("sample %d = %f exceeds amplitude", i, s)
		}
	}

	// Same seed, same buffer.
	again := run(t, Description{Output: "n", Nodes: []NodeSpec{
		{ID: "n", Op: OpNoise, Args: []float64{1000, 0.25, 42}},
	}})
	for i := range v.Samples {
		if v.Samples[i] != again.Samples[i] {
			t.Fatal("noise not deterministic for fixed seed")
		}
	}
}

func TestBoxcarOp(t *testing.T) {
	// A boxcar over a constant signal converges to that constant once
	// the window is fully inside the signal.
	in := make([]float64, 16)
	for i := range in {
		in[i] = 2.0
	}
	out := boxcar(in, 4)
	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}
	// Leading edge ramps up from the zero padding.
	if math.Abs(out[0]-0.5) > 1e-9 {
		t.Errorf("out[0] = %f, want 0.5", out[0])
	}
	for i := 3; i < len(out); i++ {
		if math.Abs(out[i]-2.0) > 1e-9 {
			t.Errorf("out[%d] = %f, want 2.0", i, out[i])
		}
	}
}

func TestBoxcarPipeline(t *testing.T) {
	v := run(t, Description{Output: "filtered", Nodes: []NodeSpec{
		{ID: "noise", Op: OpNoise, Args: []float64{2048, 0.25, 7}},
		{ID: "filtered", Op: OpBoxcar, Args: []float64{96}, Inputs: []string{"noise"}},
	}})
	if v.Kind != KindSamples || len(v.Samples) != 2048 {
		t.Fatalf("got %v with %d samples, want 2048", v.Kind, len(v.Samples))
	}
	// Averaging must shrink the spread well below the raw amplitude.
	for i, s := range v.Samples {
		if math.Abs(s) > 0.25 {
			t.Fatalf("sample %d = %f exceeds raw amplitude after filtering", i, s)
		}
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"integer", Number(23), "23"},
		{"fraction", Number(1.5), "1.5"},
		{"text", Text("ab"), "ab"},
		{"samples", SampleBuffer(make([]float64, 3)), "3 samples"},
		{"histogram", Histogram(map[string]int{"b": 1, "a": 2}), "a: 2, b: 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
