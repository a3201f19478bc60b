package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hweiss/calcgraph/pkg/graphfile"
)

// demoCommand creates the demo command with one builtin example per subject.
func (c *CLI) demoCommand() *cobra.Command {
	var (
		save    string
		wavPath string
	)

	cmd := &cobra.Command{
		Use:   "demo <math|strings|noise|histogram>",
		Short: "Run a builtin example graph",
		Long: `Run a builtin example graph.

Available demos:
  math       arithmetic over constants (5*4+3)
  strings    string concatenation
  noise      seeded noise through a boxcar filter, written as WAV
  histogram  character counts of a sample string

The noise demo writes its sample buffer to a WAV file (default
noise.wav, override with --wav). Use --save to write the demo's
description file for use with eval and dot.`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: demoNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDemo(cmd.Context(), args[0], save, wavPath)
		},
	}

	cmd.Flags().StringVar(&save, "save", "", "write the demo's description file to this path")
	cmd.Flags().StringVar(&wavPath, "wav", "noise.wav", "output WAV path for the noise demo")

	return cmd
}

// demos maps demo names to description builders.
var demos = map[string]func() graphfile.Description{
	"math":      demoMath,
	"strings":   demoStrings,
	"noise":     demoNoise,
	"histogram": demoHistogram,
}

func demoNames() []string {
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *CLI) runDemo(ctx context.Context, name, save, wavPath string) error {
	build, ok := demos[name]
	if !ok {
		return fmt.Errorf("unknown demo %q (want %s)", name, strings.Join(demoNames(), ", "))
	}
	desc := build()

	if save != "" {
		if err := graphfile.WriteFile(desc, save); err != nil {
			return fmt.Errorf("save description: %w", err)
		}
		printFile(save)
	}

	g, err := graphfile.Compile(desc)
	if err != nil {
		return err
	}
	g.SetLogger(c.Logger)
	hooks := &countingHooks{}
	g.SetHooks(hooks)

	p := newProgress(c.Logger)
	value, err := g.Compute(ctx)
	if err != nil {
		return fmt.Errorf("evaluate demo %s: %w", name, err)
	}
	p.done(fmt.Sprintf("Evaluated %d nodes", hooks.nodes))

	if name == "noise" {
		if err := writeWAV(wavPath, value.Samples, noiseSampleRate); err != nil {
			return fmt.Errorf("write wav: %w", err)
		}
		printSuccess("Wrote %d samples", len(value.Samples))
		printFile(wavPath)
		return nil
	}

	fmt.Println(value.String())
	printStats(len(desc.Nodes), hooks.nodes, false)
	return nil
}

// demoMath computes 5*4+3.
func demoMath() graphfile.Description {
	return graphfile.Description{
		Name:   "math",
		Output: "sum",
		Nodes: []graphfile.NodeSpec{
			{ID: "five", Op: graphfile.OpConst, Args: []float64{5}},
			{ID: "four", Op: graphfile.OpConst, Args: []float64{4}},
			{ID: "three", Op: graphfile.OpConst, Args: []float64{3}},
			{ID: "product", Op: graphfile.OpMul, Inputs: []string{"five", "four"}},
			{ID: "sum", Op: graphfile.OpAdd, Inputs: []string{"product", "three"}},
		},
	}
}

// demoStrings concatenates two string constants.
func demoStrings() graphfile.Description {
	return graphfile.Description{
		Name:   "strings",
		Output: "combined",
		Nodes: []graphfile.NodeSpec{
			{ID: "greeting", Op: graphfile.OpConst, Str: "Hello, "},
			{ID: "subject", Op: graphfile.OpConst, Str: "Graph!"},
			{ID: "combined", Op: graphfile.OpConcat, Inputs: []string{"greeting", "subject"}},
		},
	}
}

const (
	noiseSampleRate = 48000
	noiseLength     = 48000
	noiseSeed       = 42
	boxcarWindow    = 441
)

// demoNoise feeds seeded noise through a boxcar filter.
func demoNoise() graphfile.Description {
	return graphfile.Description{
		Name:   "noise",
		Output: "filtered",
		Nodes: []graphfile.NodeSpec{
			{ID: "source", Op: graphfile.OpNoise, Args: []float64{noiseLength, 0.8, noiseSeed}},
			{ID: "filtered", Op: graphfile.OpBoxcar, Args: []float64{boxcarWindow}, Inputs: []string{"source"}},
		},
	}
}

// demoHistogram counts characters of a sample string.
func demoHistogram() graphfile.Description {
	return graphfile.Description{
		Name:   "histogram",
		Output: "counts",
		Nodes: []graphfile.NodeSpec{
			{ID: "text", Op: graphfile.OpConst, Str: "the quick brown fox jumps over the lazy dog"},
			{ID: "counts", Op: graphfile.OpHistogram, Inputs: []string{"text"}},
		},
	}
}
