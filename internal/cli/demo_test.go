package cli

import (
	"context"
	"testing"

	"github.com/hweiss/calcgraph/pkg/graphfile"
)

func TestDemoDescriptionsValidate(t *testing.T) {
	for name, build := range demos {
		t.Run(name, func(t *testing.T) {
			if err := build().Validate(); err != nil {
				t.Errorf("demo %s does not validate: %v", name, err)
			}
		})
	}
}

func TestDemoMathResult(t *testing.T) {
	g, err := graphfile.Compile(demoMath())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	value, err := g.Compute(context.Background())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if value.Kind != graphfile.KindNumber || value.Num != 23 {
		t.Errorf("math demo = %v, want 23", value)
	}
}

func TestDemoStringsResult(t *testing.T) {
	g, err := graphfile.Compile(demoStrings())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	value, err := g.Compute(context.Background())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if value.Str != "Hello, Graph!" {
		t.Errorf("strings demo = %q, want %q", value.Str, "Hello, Graph!")
	}
}

func TestDemoNoiseResult(t *testing.T) {
	g, err := graphfile.Compile(demoNoise())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	value, err := g.Compute(context.Background())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if value.Kind != graphfile.KindSamples {
		t.Fatalf("noise demo kind = %v, want samples", value.Kind)
	}
	if len(value.Samples) != noiseLength {
		t.Errorf("noise demo length = %d, want %d", len(value.Samples), noiseLength)
	}
	for i, s := range value.Samples {
		if s < -1 || s > 1 {
			t.Fatalf("sample %d = %f, outside [-1, 1]", i, s)
		}
	}
}

func TestDemoHistogramResult(t *testing.T) {
	g, err := graphfile.Compile(demoHistogram())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	value, err := g.Compute(context.Background())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if value.Kind != graphfile.KindHistogram {
		t.Fatalf("histogram demo kind = %v, want histogram", value.Kind)
	}
	// The pangram contains every letter at least once.
	for _, letter := range []string{"a", "e", "q", "z"} {
		if value.Hist[letter] == 0 {
			t.Errorf("histogram missing letter %q", letter)
		}
	}
	if value.Hist["o"] != 4 {
		t.Errorf("count for 'o' = %d, want 4", value.Hist["o"])
	}
}
