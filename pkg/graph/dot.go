package graph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/styx-api/styxgraph/pkg/errors"
)

// ToDOT converts nodes and edges to Graphviz DOT format.
// IDs and labels are quoted, so unlike the Mermaid output any label is safe.
// The result can be rendered with [RenderSVG].
func ToDOT(nodes []Node, deps Dependencies, style Style) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", style.RankDir())
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range nodes {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", n.ID(), n.Label())
	}

	buf.WriteString("\n")
	for _, e := range deps.Sorted() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG lays out a DOT graph with the embedded Graphviz and returns SVG
// sized in pixels (see [pixelSize]).
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var out bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &out); err != nil {
		return nil, fmt.Errorf("graphviz render: %w", err)
	}
	return pixelSize(out.Bytes()), nil
}

var (
	viewBoxAttr = regexp.MustCompile(`viewBox="[-0-9.]+ [-0-9.]+ ([0-9.]+) ([0-9.]+)"`)
	sizeAttr    = regexp.MustCompile(`\s(width|height)="[^"]*"`)
)

// pixelSize replaces the point-based width and height Graphviz puts on the
// root <svg> element with the viewBox size in pixels, so a browser shows the
// diagram at its natural size. Other elements are left alone.
func pixelSize(svg []byte) []byte {
	open := bytes.Index(svg, []byte("<svg"))
	if open < 0 {
		return svg
	}
	end := bytes.IndexByte(svg[open:], '>')
	if end < 0 {
		return svg
	}
	end += open
	tag := svg[open:end]

	m := viewBoxAttr.FindSubmatch(tag)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[1]), 64)
	h, _ := strconv.ParseFloat(string(m[2]), 64)
	if w <= 0 || h <= 0 {
		return svg
	}

	var out bytes.Buffer
	out.Write(svg[:open])
	out.Write(sizeAttr.ReplaceAll(tag, nil))
	fmt.Fprintf(&out, ` width="%.0fpx" height="%.0fpx"`, w, h)
	out.Write(svg[end:])
	return out.Bytes()
}
