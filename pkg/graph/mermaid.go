package graph

import (
	"fmt"
	"strings"
)

// MermaidFormatter renders nodes and edges as a Mermaid flowchart.
type MermaidFormatter struct {
	Style Style
}

// FormatNode renders a node declaration: id["label"].
// The label is not escaped.
func (f MermaidFormatter) FormatNode(n Node) string {
	return fmt.Sprintf(`  %s["%s"]`, n.ID(), n.Label())
}

// FormatEdge renders an edge: source --> target.
func (f MermaidFormatter) FormatEdge(source, target string) string {
	return fmt.Sprintf("  %s --> %s", source, target)
}

// GenerateDiagram returns the full diagram. Nodes keep their insertion order;
// edges are sorted by (source, target) so the output is reproducible.
// Lines are separated by "\n" without a trailing newline.
func (f MermaidFormatter) GenerateDiagram(nodes []Node, deps Dependencies) string {
	lines := make([]string, 0, 1+len(nodes)+len(deps))
	lines = append(lines, "graph "+f.Style.String())

	for _, n := range nodes {
		lines = append(lines, f.FormatNode(n))
	}
	for _, e := range deps.Sorted() {
		lines = append(lines, f.FormatEdge(e.From, e.To))
	}

	return strings.Join(lines, "\n")
}
