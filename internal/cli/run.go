package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/styx-api/styxgraph/pkg/cache"
	"github.com/styx-api/styxgraph/pkg/graph"
	"github.com/styx-api/styxgraph/pkg/pipeline"
	"github.com/styx-api/styxgraph/pkg/runner/dry"
)

// runCommand creates the run command for executing a pipeline and writing its diagram.
func (c *CLI) runCommand() *cobra.Command {
	var (
		opts   runnerOptions
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "run <pipeline.toml>",
		Short: "Run a pipeline and write its dependency diagram",
		Long: `Run executes every step of a pipeline file in order and writes the
dependency diagram of the recorded executions.

The diagram is written even when a step fails, so the partial graph can be
inspected. With --dry-run no tool is started; paths are resolved and
command lines are listed. A graph saved with --format json can be drawn
again later with "styxgraph render".`,
		Example: `  styxgraph run pipeline.toml
  styxgraph run pipeline.toml --dry-run -s LR -o diagram.mmd
  styxgraph run pipeline.toml --format svg -o graph.svg
  styxgraph run pipeline.toml --format json -o graph.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}
			p, err := pipeline.Load(args[0])
			if err != nil {
				return err
			}
			r, err := c.newRunner(opts)
			if err != nil {
				return err
			}

			printInfo("Running %d steps from %s", len(p.Steps), args[0])
			sw := startStopwatch(c.Logger, "pipeline", "file", args[0])
			res, runErr := pipeline.Run(cmd.Context(), r, p, c.Logger)
			sw.stop(runErr)

			if format == pipeline.FormatJSON && output != "" {
				if err := graph.WriteGraphFile(r.Graph(), output); err != nil {
					return err
				}
				printSuccess("Wrote %s graph", format)
				printFile(output)
			} else {
				rc := c.newCache(cmd.Context(), opts.cacheOptions)
				defer rc.Close()
				if err := writeDiagram(cmd.Context(), cmd.OutOrStdout(), rc, r, format, output); err != nil {
					return err
				}
			}

			for _, s := range res.Steps {
				printDetail("%-28s %s", s.Tool, s.Duration.Round(time.Millisecond))
			}
			if d, ok := r.Base().(*dry.Runner); ok {
				for _, cl := range d.Commands() {
					printDetail("$ %s", cl)
				}
			}
			printStats(len(r.Nodes()), r.Dependencies().Len(), opts.dryRun)

			if runErr != nil {
				if failed, ok := res.Failed(); ok {
					printError("Step %s failed", failed.Tool)
				}
				return runErr
			}
			if opts.dryRun {
				printNextStep("Run the tools", appName+" run "+args[0])
			}
			return nil
		},
	}

	opts.addFlags(cmd, false)
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatMermaid, "output format (mermaid, dot, svg, json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

// writeDiagram renders src in format to output, or to stdout when output is empty.
func writeDiagram(ctx context.Context, stdout io.Writer, rc cache.Cache, src pipeline.Source, format, output string) error {
	data, err := pipeline.RenderCached(ctx, rc, src, format)
	if err != nil {
		return err
	}
	if output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Wrote %s diagram", format)
	printFile(output)
	return nil
}
