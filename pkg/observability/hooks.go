// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about tool executions, graph resolution, and pipeline steps.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetExecutionHooks(&myExecutionHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Execution().OnExecutionRecorded(ctx, pkg, name, len(inputs), len(outputs))
//	err := base.Run(ctx, args, handlers)
//	observability.Execution().OnExecutionComplete(ctx, pkg, name, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Execution Hooks
// =============================================================================

// ExecutionHooks receives events from the graph-tracking runner.
type ExecutionHooks interface {
	// OnExecutionStart is called when an execution handle is created.
	OnExecutionStart(pkg, name string)

	// OnExecutionRecorded is called when a node is appended to the graph,
	// right before the wrapped runner is invoked.
	OnExecutionRecorded(ctx context.Context, pkg, name string, inputs, outputs int)

	// OnExecutionComplete is called after the wrapped runner returns.
	OnExecutionComplete(ctx context.Context, pkg, name string, duration time.Duration, err error)
}

// =============================================================================
// Graph Hooks
// =============================================================================

// GraphHooks receives events from dependency resolution and rendering.
type GraphHooks interface {
	// OnResolve records one dependency resolution pass.
	OnResolve(nodeCount, edgeCount int, duration time.Duration)

	// OnRender records one diagram rendering in the given format.
	OnRender(format string, size int, duration time.Duration, err error)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from pipeline-file execution.
type PipelineHooks interface {
	OnStepStart(ctx context.Context, step string)
	OnStepComplete(ctx context.Context, step string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopExecutionHooks is a no-op implementation of ExecutionHooks.
type NoopExecutionHooks struct{}

func (NoopExecutionHooks) OnExecutionStart(string, string)                               {}
func (NoopExecutionHooks) OnExecutionRecorded(context.Context, string, string, int, int) {}
func (NoopExecutionHooks) OnExecutionComplete(context.Context, string, string, time.Duration, error) {
}

// NoopGraphHooks is a no-op implementation of GraphHooks.
type NoopGraphHooks struct{}

func (NoopGraphHooks) OnResolve(int, int, time.Duration)          {}
func (NoopGraphHooks) OnRender(string, int, time.Duration, error) {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStepStart(context.Context, string)                          {}
func (NoopPipelineHooks) OnStepComplete(context.Context, string, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	executionHooks ExecutionHooks = NoopExecutionHooks{}
	graphHooks     GraphHooks     = NoopGraphHooks{}
	pipelineHooks  PipelineHooks  = NoopPipelineHooks{}
	hooksMu        sync.RWMutex
)

// SetExecutionHooks registers custom execution hooks.
// This should be called once at application startup before any executions.
func SetExecutionHooks(h ExecutionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		executionHooks = h
	}
}

// SetGraphHooks registers custom graph hooks.
func SetGraphHooks(h GraphHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		graphHooks = h
	}
}

// SetPipelineHooks registers custom pipeline hooks.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// Execution returns the registered execution hooks.
func Execution() ExecutionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return executionHooks
}

// Graph returns the registered graph hooks.
func Graph() GraphHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return graphHooks
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	executionHooks = NoopExecutionHooks{}
	graphHooks = NoopGraphHooks{}
	pipelineHooks = NoopPipelineHooks{}
}
