package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hweiss/calcgraph/pkg/graphfile"
	"github.com/hweiss/calcgraph/pkg/render"
)

// Output formats supported by the dot command.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
)

// dotCommand creates the dot command for exporting a description as a diagram.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "dot <graph.toml|graph.json>",
		Short: "Export a graph description as DOT, SVG, or PNG",
		Long: `Export a graph description as a Graphviz diagram.

The dot command compiles a description file and emits the structure of
the resulting computation graph. The default output is DOT text on
stdout; --format svg or --format png renders the diagram with Graphviz
and requires --output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDot(cmd.Context(), args[0], format, output)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatDOT, "output format: dot, svg, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout for dot)")

	return cmd
}

func (c *CLI) runDot(ctx context.Context, input, format, output string) error {
	desc, err := graphfile.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load description %s: %w", input, err)
	}

	g, err := graphfile.Compile(desc)
	if err != nil {
		return err
	}
	dot := g.DOT()
	loggerFromContext(ctx).Debug("compiled description", "name", desc.Name, "nodes", len(desc.Nodes))

	switch format {
	case formatDOT:
		if output == "" {
			fmt.Print(dot)
			return nil
		}
		if err := os.WriteFile(output, []byte(dot), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
	case formatSVG, formatPNG:
		if output == "" {
			output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
		}
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", format))
		spinner.Start()
		data, err := c.renderDiagram(ctx, dot, format)
		if err != nil {
			spinner.StopWithError("Rendering failed")
			return err
		}
		spinner.Stop()
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
	default:
		return fmt.Errorf("unknown format %q (want dot, svg, or png)", format)
	}

	printSuccess("Exported %s", desc.Name)
	printFile(output)
	return nil
}

func (c *CLI) renderDiagram(ctx context.Context, dot, format string) ([]byte, error) {
	switch format {
	case formatSVG:
		return render.SVG(ctx, dot)
	case formatPNG:
		return render.PNG(ctx, dot)
	}
	return nil, fmt.Errorf("unknown format %q", format)
}
