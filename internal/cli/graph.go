package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattlianje/pipeviz-sub000/pkg/render"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output   string // output file path; empty means stdout (DOT only)
	format   string // "dot" or "svg"
	detailed bool   // include schedule/owner/cluster in node labels
}

// newGraphCmd creates the graph command, which exports the derived estate
// graph as Graphviz DOT or a laid-out SVG. Layout is delegated entirely to
// Graphviz; the engine itself computes no coordinates.
func newGraphCmd() *cobra.Command {
	opts := graphOpts{format: "dot"}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the estate graph as DOT or SVG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != "dot" && opts.format != "svg" {
				return fmt.Errorf("invalid format: %s (must be 'dot' or 'svg')", opts.format)
			}
			return runGraph(cmd, &opts)
		},
	}

	addFileFlag(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout for DOT)")
	cmd.Flags().StringVar(&opts.format, "format", opts.format, "output format: dot (default), svg")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include schedule, owner, and cluster in labels")
	return cmd
}

func runGraph(cmd *cobra.Command, opts *graphOpts) error {
	logger := loggerFromContext(cmd.Context())

	e, err := loadEngine(cmd)
	if err != nil {
		return err
	}
	m := e.Model()
	dot := render.ToDOT(m, render.Options{Detailed: opts.detailed})
	logger.Debugf("Generated DOT: %d nodes, %d edges", m.NodeCount(), len(m.Edges()))

	if opts.format == "dot" {
		if opts.output == "" {
			fmt.Print(dot)
			return nil
		}
		if err := os.WriteFile(opts.output, []byte(dot), 0o644); err != nil {
			return err
		}
		printSuccess("Exported DOT")
		printFile(opts.output)
		return nil
	}

	spin := newSpinner(cmd.Context(), "Laying out graph with Graphviz")
	spin.Start()
	svg, err := render.RenderSVG(cmd.Context(), dot)
	if err != nil {
		spin.StopWithError("Rendering failed")
		return err
	}
	spin.Stop()

	out := opts.output
	if out == "" {
		path, _ := cmd.Flags().GetString(fileFlag)
		out = strings.TrimSuffix(path, ".json") + ".svg"
	}
	if err := os.WriteFile(out, svg, 0o644); err != nil {
		return err
	}
	printSuccess("Rendered SVG (%d bytes)", len(svg))
	printFile(out)
	return nil
}
