package graph

import (
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/styx-api/styxgraph/pkg/observability"
)

// Edge is a directed producer → consumer relationship between two node IDs.
type Edge struct {
	From string
	To   string
}

// Dependencies is a deduplicated set of edges.
type Dependencies map[Edge]struct{}

// Add inserts the edge from → to.
func (d Dependencies) Add(from, to string) { d[Edge{From: from, To: to}] = struct{}{} }

// Has reports whether the edge from → to is present.
func (d Dependencies) Has(from, to string) bool {
	_, ok := d[Edge{From: from, To: to}]
	return ok
}

// Len returns the number of edges.
func (d Dependencies) Len() int { return len(d) }

// Sorted returns the edges ordered by (From, To).
func (d Dependencies) Sorted() []Edge {
	edges := make([]Edge, 0, len(d))
	for e := range d {
		edges = append(edges, e)
	}
	slices.SortFunc(edges, func(a, b Edge) int {
		if c := strings.Compare(a.From, b.From); c != 0 {
			return c
		}
		return strings.Compare(a.To, b.To)
	})
	return edges
}

// IsDependent reports whether input is equal to or nested under root.
//
// Both paths are made absolute against the working directory and compared
// segment by segment, so "/a/bb" is not under "/a/b". Paths that cannot be
// compared (for example on different volumes) are not contained.
func IsDependent(input, root string) bool {
	in, err := filepath.Abs(input)
	if err != nil {
		return false
	}
	r, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(r, in)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// BuildDependencies infers producer → consumer edges from path containment.
//
// Each node's first output is its root output directory. When several nodes
// share the same root, the last one wins. A node depends on a producer when
// any of its inputs lies at or beneath the producer's root; self-edges are
// dropped.
func BuildDependencies(nodes []Node) Dependencies {
	start := time.Now()

	roots := make(map[string]string, len(nodes)) // root output -> producer ID
	for _, n := range nodes {
		if root, ok := n.RootOutput(); ok {
			roots[root] = n.ID()
		}
	}

	deps := make(Dependencies)
	for _, n := range nodes {
		id := n.ID()
		for _, input := range n.Inputs {
			for root, source := range roots {
				if source != id && IsDependent(input, root) {
					deps.Add(source, id)
				}
			}
		}
	}

	observability.Graph().OnResolve(len(nodes), len(deps), time.Since(start))
	return deps
}
