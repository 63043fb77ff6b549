package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mfujita/budgetflow/pkg/errors"
	"github.com/mfujita/budgetflow/pkg/flow"
	"github.com/mfujita/budgetflow/pkg/render"
)

// Output formats for the render command.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path; derived from input when empty
	format   string // dot, svg, or png
	detailed bool   // annotate nodes with amounts and ranks
}

// newRenderCmd creates the render command for visualizing a generated flow
// graph with Graphviz.
func newRenderCmd() *cobra.Command {
	opts := renderOpts{format: formatSVG}

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render a flow graph to DOT, SVG, or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch opts.format {
			case formatDOT, formatSVG, formatPNG:
			default:
				return errors.New(errors.ErrCodeInvalidParams, "unknown format %q (use dot, svg, or png)", opts.format)
			}
			return runRenderCmd(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default input name with new extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatSVG, "output format (dot, svg, png)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "annotate nodes with amounts and ranks")

	return cmd
}

func runRenderCmd(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	data, err := os.ReadFile(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "read %s", input)
	}
	g, err := flow.Unmarshal(data)
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + opts.format
	}

	prog := newProgress(logger)
	dot := render.ToDOT(g, render.Options{Detailed: opts.detailed})

	var out []byte
	switch opts.format {
	case formatDOT:
		out = []byte(dot)
	case formatSVG:
		out, err = render.SVG(ctx, dot)
	case formatPNG:
		out, err = render.PNG(ctx, dot)
	}
	if err != nil {
		return err
	}
	prog.done("Rendered " + opts.format)

	if err := os.WriteFile(output, out, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", output)
	}
	printSuccess("Rendered %d nodes, %d edges", len(g.Nodes), len(g.Edges))
	printFile(output)
	return nil
}
