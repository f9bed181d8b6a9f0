package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/styx-api/styxgraph/pkg/cache"
	"github.com/styx-api/styxgraph/pkg/errors"
	"github.com/styx-api/styxgraph/pkg/graph"
	"github.com/styx-api/styxgraph/pkg/observability"
)

// Output formats.
const (
	FormatMermaid = "mermaid"
	FormatDOT     = "dot"
	FormatSVG     = "svg"
	FormatJSON    = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatMermaid: true,
	FormatDOT:     true,
	FormatSVG:     true,
	FormatJSON:    true,
}

// ContentTypes maps each format to its HTTP content type.
var ContentTypes = map[string]string{
	FormatMermaid: "text/vnd.mermaid; charset=utf-8",
	FormatDOT:     "text/vnd.graphviz; charset=utf-8",
	FormatSVG:     "image/svg+xml",
	FormatJSON:    "application/json",
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: mermaid, dot, svg, json)", format)
	}
	return nil
}

// Source is a graph that can be rendered: a live *graph.Runner or a
// graph.Snapshot read back from JSON.
type Source interface {
	GenerateDiagram() string
	GenerateDOT() string
	Graph() graph.Graph
}

// Render produces src in the given format.
// Mermaid output gets a trailing newline so it can be written straight to a file.
func Render(ctx context.Context, src Source, format string) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}

	start := time.Now()
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatMermaid:
		data = []byte(src.GenerateDiagram() + "\n")
	case FormatDOT:
		data = []byte(src.GenerateDOT())
	case FormatSVG:
		data, err = graph.RenderSVG(ctx, src.GenerateDOT())
	case FormatJSON:
		var buf bytes.Buffer
		err = graph.WriteGraph(src.Graph(), &buf)
		data = buf.Bytes()
	}
	if format == FormatSVG || format == FormatJSON {
		observability.Graph().OnRender(format, len(data), time.Since(start), err)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}

// svgTTL bounds how long a rendered SVG is reused.
const svgTTL = 7 * 24 * time.Hour

// RenderCached is [Render] with SVG output stored in c, keyed by the DOT
// source. Other formats are cheap and always rendered. Cache failures are
// ignored; the diagram is rendered as if no cache were configured.
func RenderCached(ctx context.Context, c cache.Cache, src Source, format string) ([]byte, error) {
	if c == nil || format != FormatSVG {
		return Render(ctx, src, format)
	}

	key := cache.Key(FormatSVG, src.GenerateDOT())
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		return data, nil
	}

	data, err := Render(ctx, src, format)
	if err != nil {
		return nil, err
	}
	_ = c.Set(ctx, key, data, svgTTL)
	return data, nil
}
