package graphfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/hweiss/calcgraph/pkg/errors"
)

// Description is the canonical serialization format for computation
// graphs. Used for CLI input files, API request bodies, storage and
// caching. JSON is the wire format; TOML is supported for hand-authored
// files.
type Description struct {
	Name   string     `json:"name,omitempty" bson:"name,omitempty" toml:"name"`
	Output string     `json:"output" bson:"output" toml:"output"`
	Nodes  []NodeSpec `json:"nodes" bson:"nodes" toml:"nodes"`
}

// NodeSpec describes one computation node.
type NodeSpec struct {
	ID     string    `json:"id" bson:"id" toml:"id"`
	Name   string    `json:"name,omitempty" bson:"name,omitempty" toml:"name"`
	Op     string    `json:"op" bson:"op" toml:"op"`
	Args   []float64 `json:"args,omitempty" bson:"args,omitempty" toml:"args"`
	Str    string    `json:"str,omitempty" bson:"str,omitempty" toml:"str"`
	Inputs []string  `json:"inputs,omitempty" bson:"inputs,omitempty" toml:"inputs"`
}

// DisplayName returns the node's name if set, otherwise its ID.
func (n NodeSpec) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal converts a description to indented JSON bytes.
func Marshal(d Description) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a JSON description.
func Unmarshal(data []byte) (Description, error) {
	return Read(bytes.NewReader(data))
}

// Write writes a description as JSON to an io.Writer.
func Write(d Description, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a JSON description from an io.Reader.
func Read(r io.Reader) (Description, error) {
	var d Description
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Description{}, fmt.Errorf("decode: %w", err)
	}
	return d, nil
}

// WriteFile writes a description to a JSON file with 0644 permissions.
func WriteFile(d Description, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(d, f)
}

// ReadFile reads a description from a file. The codec is chosen by
// extension: .toml is decoded as TOML, everything else as JSON.
func ReadFile(path string) (Description, error) {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var d Description
		if _, err := toml.DecodeFile(path, &d); err != nil {
			return Description{}, fmt.Errorf("decode %s: %w", path, err)
		}
		return d, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Description{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// DecodeTOML decodes a TOML description from a string.
func DecodeTOML(data string) (Description, error) {
	var d Description
	if _, err := toml.Decode(data, &d); err != nil {
		return Description{}, fmt.Errorf("decode toml: %w", err)
	}
	return d, nil
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks that the description can be compiled: non-empty
// unique node ids, known ops with acceptable arity, resolvable inputs,
// no direct self-loops and a declared, resolvable output.
func (d Description) Validate() error {
	if len(d.Nodes) == 0 {
		return errors.New(errors.ErrCodeInvalidGraph, "description has no nodes")
	}
	seen := make(map[string]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidGraph, "node with empty id")
		}
		if seen[n.ID] {
			return errors.New(errors.ErrCodeInvalidGraph, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
	}
	for _, n := range d.Nodes {
		if err := checkOp(n); err != nil {
			return err
		}
		for _, in := range n.Inputs {
			if !seen[in] {
				return errors.New(errors.ErrCodeNodeNotFound, "node %q: unknown input %q", n.ID, in)
			}
			if in == n.ID {
				return errors.New(errors.ErrCodeInvalidGraph, "node %q lists itself as input", n.ID)
			}
		}
	}
	if d.Output == "" {
		return errors.New(errors.ErrCodeOutputMissing, "description declares no output node")
	}
	if !seen[d.Output] {
		return errors.New(errors.ErrCodeNodeNotFound, "output %q is not a node", d.Output)
	}
	return nil
}
