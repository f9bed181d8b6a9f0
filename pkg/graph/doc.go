// Package graph records command executions and renders them as a dependency graph.
//
// # Overview
//
// A [Runner] wraps any [runner.Runner]. Every execution that goes through it
// is observed: the input paths handed to InputFile and the resolved output
// paths returned by OutputFile are collected, and when Run is called a [Node]
// is appended to the runner's node list. The wrapped runner sees every call
// unchanged.
//
//	base := local.New(dataDir, logger)
//	r := graph.NewRunner(base, graph.LeftRight)
//	// ... run tools through r exactly as through base ...
//	fmt.Println(r.GenerateDiagram())
//
// # Dependency Inference
//
// Edges are never declared. [BuildDependencies] derives them after the fact:
// the first output of each node is its root output directory, and a node
// depends on another when one of its inputs lies at or beneath that root.
// Containment is tested per path segment, so "/out/ab/x" is not under
// "/out/a". Nodes never depend on themselves, and the edge set is
// deduplicated.
//
// # Output Formats
//
//   - Mermaid: [MermaidFormatter], the primary diagram format
//   - Graphviz DOT: [ToDOT], rendered to SVG with [RenderSVG]
//   - JSON node-link document: [Export], [WriteGraph], [ReadGraph]; a saved
//     graph becomes drawable again through [Graph.Snapshot]
//
// # Limitations
//
// Node IDs are package + "_" + name. Two executions of the same tool share an
// ID and both appear in the diagram with colliding IDs. Labels are emitted
// without escaping, so a double quote in a package or tool name breaks the
// Mermaid syntax.
//
// # Concurrency
//
// [Runner] guards its node list with a mutex, so executions may be started
// and run from several goroutines. The resolver and formatters are pure
// functions.
package graph
