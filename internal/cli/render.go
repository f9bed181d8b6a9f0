package cli

import (
	"github.com/spf13/cobra"

	"github.com/styx-api/styxgraph/pkg/graph"
	"github.com/styx-api/styxgraph/pkg/pipeline"
)

// renderCommand creates the render command, which draws a graph saved by
// "run --format json" without running anything.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts   cacheOptions
		style  string
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "render <graph.json>",
		Short: "Draw a saved graph in another format",
		Long: `Render reads a node-link graph written by "styxgraph run --format json"
and writes it as Mermaid, DOT, SVG or JSON. Edges are inferred again from
the recorded paths. The saved orientation is kept unless --style is given.`,
		Example: `  styxgraph render graph.json
  styxgraph render graph.json -s LR --format svg -o graph.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}
			g, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return err
			}
			snap, err := g.Snapshot()
			if err != nil {
				return err
			}
			if style != "" {
				if snap.Style, err = graph.ParseStyle(style); err != nil {
					return err
				}
			}
			c.Logger.Debug("loaded graph", "file", args[0], "nodes", len(snap.Nodes), "style", snap.Style)

			rc := c.newCache(cmd.Context(), opts)
			defer rc.Close()
			return writeDiagram(cmd.Context(), cmd.OutOrStdout(), rc, snap, format, output)
		},
	}

	cmd.Flags().StringVarP(&style, "style", "s", "", "diagram direction (TD, LR, BT, RL; default: as saved)")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatMermaid, "output format (mermaid, dot, svg, json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	opts.addFlags(cmd)

	return cmd
}
