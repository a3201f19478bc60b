package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hweiss/calcgraph/pkg/cache"
	"github.com/hweiss/calcgraph/pkg/calcgraph"
	"github.com/hweiss/calcgraph/pkg/graphfile"
)

// evalCommand creates the eval command for evaluating a graph description.
func (c *CLI) evalCommand() *cobra.Command {
	var (
		noCache bool
		asJSON  bool
		dotPath string
	)

	cmd := &cobra.Command{
		Use:   "eval <graph.toml|graph.json>",
		Short: "Evaluate a graph description and print the result",
		Long: `Evaluate a graph description and print the result.

The eval command reads a description file (TOML or JSON), compiles it
into a computation graph, and evaluates the designated output node.
Intermediate results are freed as soon as their last consumer has run.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEval(cmd.Context(), args[0], noCache, asJSON, dotPath)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result caching")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&dotPath, "dot", "", "also write the graph structure as DOT to this path")

	return cmd
}

// evalOutput is the JSON shape printed by eval --json.
type evalOutput struct {
	Name  string          `json:"name,omitempty"`
	Value graphfile.Value `json:"value"`
}

func (c *CLI) runEval(ctx context.Context, input string, noCache, asJSON bool, dotPath string) error {
	desc, err := graphfile.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load description %s: %w", input, err)
	}

	resultCache, err := newCache(noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer resultCache.Close()

	canonical, err := graphfile.Marshal(desc)
	if err != nil {
		return fmt.Errorf("canonicalize description: %w", err)
	}
	key := cache.ResultKey(canonical)

	g, err := graphfile.Compile(desc)
	if err != nil {
		return err
	}
	if dotPath != "" {
		if err := os.WriteFile(dotPath, []byte(g.DOT()), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dotPath, err)
		}
		printFile(dotPath)
	}

	if data, hit, err := resultCache.Get(ctx, key); err == nil && hit {
		var value graphfile.Value
		if err := json.Unmarshal(data, &value); err == nil {
			c.printResult(desc, value, 0, true, asJSON)
			return nil
		}
	}

	g.SetLogger(c.Logger)
	hooks := &countingHooks{}
	g.SetHooks(hooks)

	p := newProgress(c.Logger)
	value, err := g.Compute(ctx)
	if err != nil {
		return fmt.Errorf("evaluate %s: %w", input, err)
	}
	p.done(fmt.Sprintf("Evaluated %d nodes", hooks.nodes))

	if data, err := json.Marshal(value); err == nil {
		_ = resultCache.Set(ctx, key, data, cache.DefaultTTL)
	}

	c.printResult(desc, value, hooks.nodes, false, asJSON)
	return nil
}

func (c *CLI) printResult(desc graphfile.Description, value graphfile.Value, evaluated int, cached, asJSON bool) {
	if asJSON {
		_ = json.NewEncoder(os.Stdout).Encode(evalOutput{Name: desc.Name, Value: value})
		return
	}
	fmt.Println(value.String())
	printStats(len(desc.Nodes), evaluated, cached)
}

// countingHooks counts node invocations during an evaluation.
type countingHooks struct {
	calcgraph.NopHooks
	nodes int
}

func (h *countingHooks) OnNodeDone(string, time.Duration) { h.nodes++ }
