package graphfile

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Kind discriminates the payload of a Value.
type Kind int

const (
	// KindNumber is a scalar numeric value.
	KindNumber Kind = iota
	// KindString is a text value.
	KindString
	// KindSamples is a buffer of signal samples.
	KindSamples
	// KindHistogram maps characters to occurrence counts.
	KindHistogram
)

// Value is the dynamic value type flowing through described graphs.
// Exactly one payload field is meaningful, selected by Kind. Values are
// immutable once produced by a node function.
type Value struct {
	Kind    Kind
	Num     float64
	Str     string
	Samples []float64
	Hist    map[string]int
}

// Number wraps a scalar in a Value.
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// Text wraps a string in a Value.
func Text(s string) Value { return Value{Kind: KindString, Str: s} }

// SampleBuffer wraps a signal buffer in a Value.
func SampleBuffer(s []float64) Value { return Value{Kind: KindSamples, Samples: s} }

// Histogram wraps character counts in a Value.
func Histogram(h map[string]int) Value { return Value{Kind: KindHistogram, Hist: h} }

// String formats the value for human display.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", v.Num), "0"), ".")
	case KindString:
		return v.Str
	case KindSamples:
		return fmt.Sprintf("%d samples", len(v.Samples))
	case KindHistogram:
		keys := make([]string, 0, len(v.Hist))
		for k := range v.Hist {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s: %d", k, v.Hist[k])
		}
		return b.String()
	}
	return fmt.Sprintf("unknown value kind %d", v.Kind)
}

// MarshalJSON encodes the payload directly: numbers as numbers, strings
// as strings, sample buffers as arrays and histograms as objects.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		return json.Marshal(v.Num)
	case KindString:
		return json.Marshal(v.Str)
	case KindSamples:
		return json.Marshal(v.Samples)
	case KindHistogram:
		return json.Marshal(v.Hist)
	}
	return nil, fmt.Errorf("unknown value kind %d", v.Kind)
}

// UnmarshalJSON decodes the payload by inspecting the JSON shape:
// numbers, strings, arrays and objects map back to the four kinds.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimLeft(string(data), " \t\r\n")
	if trimmed == "" {
		return fmt.Errorf("empty value")
	}
	switch trimmed[0] {
	case '"':
		v.Kind = KindString
		return json.Unmarshal(data, &v.Str)
	case '[':
		v.Kind = KindSamples
		return json.Unmarshal(data, &v.Samples)
	case '{':
		v.Kind = KindHistogram
		return json.Unmarshal(data, &v.Hist)
	default:
		v.Kind = KindNumber
		return json.Unmarshal(data, &v.Num)
	}
}

// asNumber extracts a scalar or panics. Node functions are opaque to
// the engine and cannot return errors; a kind mismatch that slipped
// past Validate is a bug in the op table's arity/kind declarations.
func asNumber(v Value) float64 {
	if v.Kind != KindNumber {
		panic(fmt.Sprintf("graphfile: expected number, got %v kind", v.Kind))
	}
	return v.Num
}

func asText(v Value) string {
	if v.Kind != KindString {
		panic(fmt.Sprintf("graphfile: expected string, got %v kind", v.Kind))
	}
	return v.Str
}

func asSamples(v Value) []float64 {
	if v.Kind != KindSamples {
		panic(fmt.Sprintf("graphfile: expected samples, got %v kind", v.Kind))
	}
	return v.Samples
}
