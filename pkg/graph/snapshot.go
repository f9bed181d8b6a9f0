package graph

import (
	"time"

	"github.com/styx-api/styxgraph/pkg/observability"
)

// Snapshot is a fixed list of nodes with the orientation to draw them in.
// [Runner.Snapshot] captures the recorded executions; [Graph.Snapshot]
// rebuilds one from a saved JSON document.
type Snapshot struct {
	Style Style
	Nodes []Node
}

// Dependencies resolves the edges between the snapshot's nodes.
func (s Snapshot) Dependencies() Dependencies {
	return BuildDependencies(s.Nodes)
}

// GenerateDiagram returns the Mermaid form of the snapshot.
func (s Snapshot) GenerateDiagram() string {
	start := time.Now()
	out := MermaidFormatter{Style: s.Style}.GenerateDiagram(s.Nodes, s.Dependencies())
	observability.Graph().OnRender("mermaid", len(out), time.Since(start), nil)
	return out
}

// GenerateDOT returns the Graphviz form of the snapshot.
func (s Snapshot) GenerateDOT() string {
	start := time.Now()
	out := ToDOT(s.Nodes, s.Dependencies(), s.Style)
	observability.Graph().OnRender("dot", len(out), time.Since(start), nil)
	return out
}

// Graph returns the serializable form of the snapshot.
func (s Snapshot) Graph() Graph {
	return Export(s.Nodes, s.Dependencies(), s.Style)
}
