package graphfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hweiss/calcgraph/pkg/errors"
)

func mathDescription() Description {
	return Description{
		Name:   "math",
		Output: "add",
		Nodes: []NodeSpec{
			{ID: "a", Op: OpConst, Args: []float64{5}},
			{ID: "b", Op: OpConst, Args: []float64{4}},
			{ID: "c", Op: OpConst, Args: []float64{3}},
			{ID: "mult", Op: OpMul, Inputs: []string{"a", "b"}},
			{ID: "add", Op: OpAdd, Inputs: []string{"mult", "c"}},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Description)
		wantCode errors.Code
	}{
		{
			name:   "valid",
			mutate: func(*Description) {},
		},
		{
			name:     "empty",
			mutate:   func(d *Description) { d.Nodes = nil },
			wantCode: errors.ErrCodeInvalidGraph,
		},
		{
			name:     "empty id",
			mutate:   func(d *Description) { d.Nodes[0].ID = "" },
			wantCode: errors.ErrCodeInvalidGraph,
		},
		{
			name:     "duplicate id",
			mutate:   func(d *Description) { d.Nodes[1].ID = "a" },
			wantCode: errors.ErrCodeInvalidGraph,
		},
		{
			name:     "unknown op",
			mutate:   func(d *Description) { d.Nodes[0].Op = "frobnicate" },
			wantCode: errors.ErrCodeInvalidOp,
		},
		{
			name:     "const with inputs",
			mutate:   func(d *Description) { d.Nodes[0].Inputs = []string{"b"} },
			wantCode: errors.ErrCodeInvalidGraph,
		},
		{
			name:     "too few inputs",
			mutate:   func(d *Description) { d.Nodes[3].Inputs = nil },
			wantCode: errors.ErrCodeInvalidGraph,
		},
		{
			name:     "unknown input",
			mutate:   func(d *Description) { d.Nodes[3].Inputs = []string{"a", "ghost"} },
			wantCode: errors.ErrCodeNodeNotFound,
		},
		{
			name:     "self input",
			mutate:   func(d *Description) { d.Nodes[4].Inputs = []string{"add"} },
			wantCode: errors.ErrCodeInvalidGraph,
		},
		{
			name:     "no output",
			mutate:   func(d *Description) { d.Output = "" },
			wantCode: errors.ErrCodeOutputMissing,
		},
		{
			name:     "unknown output",
			mutate:   func(d *Description) { d.Output = "ghost" },
			wantCode: errors.ErrCodeNodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := mathDescription()
			tt.mutate(&d)
			err := d.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("Validate error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestCompileAndCompute(t *testing.T) {
	g, err := Compile(mathDescription())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	v, err := g.Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if v.Kind != KindNumber || v.Num != 23 {
		t.Errorf("Compute = %v, want 23", v)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := mathDescription()
	data, err := Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Output != d.Output || len(back.Nodes) != len(d.Nodes) {
		t.Errorf("round trip mismatch: %+v", back)
	}
	if back.Nodes[3].Inputs[0] != "a" || back.Nodes[3].Inputs[1] != "b" {
		t.Errorf("input order lost: %v", back.Nodes[3].Inputs)
	}
}

func TestReadFileTOML(t *testing.T) {
	src := `
name = "strings"
output = "S"

[[nodes]]
id = "R"
op = "const"
str = "a"

[[nodes]]
id = "S"
op = "concat"
inputs = ["R", "suffix"]

[[nodes]]
id = "suffix"
op = "const"
str = "b"
`
	path := filepath.Join(t.TempDir(), "strings.toml")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	d, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	g, err := Compile(d)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	v, err := g.Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if v.Str != "ab" {
		t.Errorf("Compute = %q, want %q", v.Str, "ab")
	}
}

func TestReadFileJSON(t *testing.T) {
	d := mathDescription()
	path := filepath.Join(t.TempDir(), "math.json")
	if err := WriteFile(d, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	back, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if back.Name != "math" || len(back.Nodes) != 5 {
		t.Errorf("ReadFile = %+v", back)
	}
}
