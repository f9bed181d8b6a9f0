// Package pkg provides the libraries behind styxgraph.
//
// # Overview
//
// Styxgraph records the tool executions of a pipeline and infers which
// execution feeds which from the files they read and write. The result is a
// dependency diagram in Mermaid, Graphviz DOT, SVG or JSON form.
//
// # Architecture
//
//	pipeline.toml
//	      ↓
//	 [pipeline] (load, validate, run steps in order)
//	      ↓
//	 [graph.Runner] (records every execution, forwards to the base runner)
//	      ↓
//	 [runner/local] or [runner/dry] (spawn the tool, or only resolve paths)
//	      ↓
//	 [graph] (infer edges by path containment, format the diagram)
//
// # Quick Start
//
//	base := local.New(dataDir, logger)
//	r := graph.NewRunner(base, graph.TopDown)
//
//	bet := r.StartExecution(runner.Metadata{Package: "fsl", Name: "bet"})
//	in := bet.InputFile("t1.nii.gz", runner.InputOptions{})
//	brain := bet.OutputFile("brain", false)
//	_ = bet.Run(ctx, []string{"bet", in, brain}, runner.Handlers{})
//
//	fmt.Println(r.GenerateDiagram())
//
// # Main Packages
//
// [runner] - The execution contract: a Runner hands out Executions that
// resolve paths and run a command line.
//
// [graph] - The recording decorator, the dependency resolver and the
// Mermaid, DOT and JSON exporters.
//
// [pipeline] - TOML pipeline files with "@step:n" output references.
//
// [cache] - File, Redis and no-op caches for rendered SVG.
//
// [errors] - Coded errors shared by all packages.
//
// [observability] - Hooks for execution, graph and pipeline events.
//
// [runner]: https://pkg.go.dev/github.com/styx-api/styxgraph/pkg/runner
// [runner/local]: https://pkg.go.dev/github.com/styx-api/styxgraph/pkg/runner/local
// [runner/dry]: https://pkg.go.dev/github.com/styx-api/styxgraph/pkg/runner/dry
// [graph]: https://pkg.go.dev/github.com/styx-api/styxgraph/pkg/graph
// [graph.Runner]: https://pkg.go.dev/github.com/styx-api/styxgraph/pkg/graph#Runner
// [pipeline]: https://pkg.go.dev/github.com/styx-api/styxgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/styx-api/styxgraph/pkg/cache
// [errors]: https://pkg.go.dev/github.com/styx-api/styxgraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/styx-api/styxgraph/pkg/observability
package pkg
