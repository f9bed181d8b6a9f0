package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/styx-api/styxgraph/pkg/errors"
)

// Graph is the JSON node-link form of a recorded execution graph.
//
//	{
//	  "nodes": [{"id": "fsl_bet", "label": "fsl/bet", ...}],
//	  "edges": [{"from": "fsl_bet", "to": "fsl_fast"}]
//	}
type Graph struct {
	Style string      `json:"style"`
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// GraphNode is the serialized form of a [Node].
type GraphNode struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Package string   `json:"package"`
	Name    string   `json:"name"`
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`
}

// GraphEdge is the serialized form of an [Edge].
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Export converts nodes and edges to their serialization form.
// Nodes keep insertion order and edges are sorted, matching the diagram output.
func Export(nodes []Node, deps Dependencies, style Style) Graph {
	out := Graph{
		Style: style.String(),
		Nodes: make([]GraphNode, len(nodes)),
		Edges: make([]GraphEdge, 0, len(deps)),
	}

	for i, n := range nodes {
		out.Nodes[i] = GraphNode{
			ID:      n.ID(),
			Label:   n.Label(),
			Package: n.Package,
			Name:    n.Name,
			Inputs:  nonNil(n.Inputs),
			Outputs: nonNil(n.Outputs),
		}
	}
	for _, e := range deps.Sorted() {
		out.Edges = append(out.Edges, GraphEdge{From: e.From, To: e.To})
	}

	return out
}

// Snapshot rebuilds the nodes and orientation of a saved graph.
// Edges are not read back; they are resolved again from the node paths.
func (g Graph) Snapshot() (Snapshot, error) {
	style, err := ParseStyle(g.Style)
	if err != nil {
		return Snapshot{}, err
	}
	nodes := make([]Node, len(g.Nodes))
	for i, n := range g.Nodes {
		nodes[i] = newNode(n.Package, n.Name, n.Inputs, n.Outputs)
	}
	return Snapshot{Style: style, Nodes: nodes}, nil
}

// WriteGraph writes g as indented JSON to w.
func WriteGraph(g Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(g)
}

// WriteGraphFile writes g to a JSON file with 0644 permissions.
func WriteGraphFile(g Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteGraph(g, f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// ReadGraph decodes a graph written by [WriteGraph]. Unknown fields are
// rejected so a file of another kind is not silently read as empty.
func ReadGraph(r io.Reader) (Graph, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var g Graph
	if err := dec.Decode(&g); err != nil {
		return Graph{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode graph")
	}
	return g, nil
}

// ReadGraphFile reads a graph from a JSON file.
func ReadGraphFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Graph{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file %s", path)
	}
	if err != nil {
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
