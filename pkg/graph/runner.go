package graph

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/styx-api/styxgraph/pkg/observability"
	"github.com/styx-api/styxgraph/pkg/runner"
)

// Runner is a [runner.Runner] that records every execution as a [Node].
//
// The zero value is not usable; create one with [NewRunner].
type Runner struct {
	base   runner.Runner
	style  Style
	logger *log.Logger

	mu    sync.RWMutex
	nodes []Node
}

var _ runner.Runner = (*Runner)(nil)

// NewRunner wraps base. The style is fixed for the lifetime of the runner;
// pass [TopDown] for the default orientation.
func NewRunner(base runner.Runner, style Style) *Runner {
	return &Runner{
		base:   base,
		style:  style,
		logger: log.Default(),
	}
}

// SetLogger replaces the logger used for debug output. Nil is ignored.
func (r *Runner) SetLogger(l *log.Logger) {
	if l != nil {
		r.logger = l
	}
}

// Base returns the wrapped runner.
func (r *Runner) Base() runner.Runner { return r.base }

// Style returns the configured diagram orientation.
func (r *Runner) Style() Style { return r.style }

// StartExecution starts an execution on the wrapped runner and returns a
// handle that records file registrations. It always succeeds.
func (r *Runner) StartExecution(md runner.Metadata) runner.Execution {
	observability.Execution().OnExecutionStart(md.Package, md.Name)
	return &execution{
		base:     r.base.StartExecution(md),
		recorder: r,
		metadata: md,
	}
}

// Nodes returns a copy of the recorded nodes in execution order.
func (r *Runner) Nodes() []Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Node(nil), r.nodes...)
}

// Snapshot captures the nodes recorded so far.
func (r *Runner) Snapshot() Snapshot {
	return Snapshot{Style: r.style, Nodes: r.Nodes()}
}

// Dependencies resolves edges over the current node list.
func (r *Runner) Dependencies() Dependencies {
	return r.Snapshot().Dependencies()
}

// GenerateDiagram returns the Mermaid diagram of all executions recorded so far.
// Each call recomputes the edges; nothing is cached or mutated.
func (r *Runner) GenerateDiagram() string {
	return r.Snapshot().GenerateDiagram()
}

// GenerateDOT returns the Graphviz form of the recorded graph.
func (r *Runner) GenerateDOT() string {
	return r.Snapshot().GenerateDOT()
}

// Graph returns the serializable form of the recorded graph.
func (r *Runner) Graph() Graph {
	return r.Snapshot().Graph()
}

func (r *Runner) record(n Node) {
	r.mu.Lock()
	r.nodes = append(r.nodes, n)
	count := len(r.nodes)
	r.mu.Unlock()

	r.logger.Debug("recorded execution",
		"id", n.ID(),
		"inputs", len(n.Inputs),
		"outputs", len(n.Outputs),
		"nodes", count)
}

// execution wraps a base execution and collects its file registrations.
// Like the base execution it is meant to be used by a single goroutine.
type execution struct {
	base     runner.Execution
	recorder *Runner
	metadata runner.Metadata
	inputs   []string
	outputs  []string
}

// InputFile records hostFile as given, then forwards.
func (e *execution) InputFile(hostFile string, opts runner.InputOptions) string {
	e.inputs = append(e.inputs, hostFile)
	return e.base.InputFile(hostFile, opts)
}

// OutputFile forwards first and records the resolved path.
func (e *execution) OutputFile(localFile string, optional bool) string {
	out := e.base.OutputFile(localFile, optional)
	e.outputs = append(e.outputs, out)
	return out
}

func (e *execution) Params(params map[string]any) map[string]any {
	return e.base.Params(params)
}

// Run records the node before forwarding. A failing base run leaves the node
// in place.
func (e *execution) Run(ctx context.Context, args []string, handlers runner.Handlers) error {
	node := newNode(e.metadata.Package, e.metadata.Name, e.inputs, e.outputs)
	e.recorder.record(node)
	observability.Execution().OnExecutionRecorded(ctx, node.Package, node.Name, len(node.Inputs), len(node.Outputs))

	start := time.Now()
	err := e.base.Run(ctx, args, handlers)
	observability.Execution().OnExecutionComplete(ctx, node.Package, node.Name, time.Since(start), err)
	return err
}
