// Package runner defines the command-execution contract that styxgraph decorates.
//
// A [Runner] hands out one [Execution] per tool invocation. The caller registers
// the files the tool reads ([Execution.InputFile]) and writes
// ([Execution.OutputFile]), then launches it with [Execution.Run]. Concrete
// runners decide what "registering" means: the local runner resolves host
// paths and spawns a process, the dry runner only resolves paths.
//
// # Usage
//
//	exec := r.StartExecution(runner.Metadata{Package: "fsl", Name: "bet"})
//	in := exec.InputFile("data/t1.nii.gz", runner.InputOptions{})
//	out := exec.OutputFile("brain", false)
//	err := exec.Run(ctx, []string{"bet", in, out}, runner.Handlers{})
//
// An Execution is single-use: call Run once.
package runner

import "context"

// Metadata identifies the tool being executed.
// Package and Name are opaque strings; runners use them verbatim.
type Metadata struct {
	ID                string // Optional stable tool identifier
	Package           string // Tool package (e.g. "fsl")
	Name              string // Tool name within the package (e.g. "bet")
	ContainerImageTag string // Optional container image the tool ships in
}

// InputOptions controls how an input path is resolved.
type InputOptions struct {
	// ResolveParent makes the runner expose the parent directory of the file
	// instead of the file itself.
	ResolveParent bool
	// Mutable marks the input as writable by the tool.
	Mutable bool
}

// Handlers receives output lines of a running command.
// A nil handler leaves the stream to the runner's default handling.
type Handlers struct {
	Stdout func(line string)
	Stderr func(line string)
}

// Runner starts executions.
type Runner interface {
	StartExecution(md Metadata) Execution
}

// Execution is a single tool invocation.
type Execution interface {
	// InputFile registers a host file as input and returns the path the tool
	// should be given on its command line.
	InputFile(hostFile string, opts InputOptions) string

	// OutputFile registers an output by its local name and returns the
	// resolved path the tool will write to.
	OutputFile(localFile string, optional bool) string

	// Params gives the runner a chance to rewrite tool parameters.
	Params(params map[string]any) map[string]any

	// Run launches the command. It blocks until the command exits.
	Run(ctx context.Context, args []string, handlers Handlers) error
}
