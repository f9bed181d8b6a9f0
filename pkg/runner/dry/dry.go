// Package dry provides a runner that resolves paths but never spawns processes.
//
// It is useful for previewing the dependency graph of a pipeline without
// running any tool: every Run succeeds and the command line is recorded.
package dry

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/styx-api/styxgraph/pkg/runner"
)

// Command is one recorded invocation.
type Command struct {
	Package string
	Name    string
	Args    []string
}

// String returns the command line joined with spaces.
func (c Command) String() string { return strings.Join(c.Args, " ") }

// Runner resolves inputs to absolute host paths and outputs to
// <DataDir>/<Session>_<n>_<name>/<local>, like the local runner.
type Runner struct {
	DataDir string
	Session string
	Logger  *log.Logger

	mu       sync.Mutex
	count    int
	commands []Command
}

var _ runner.Runner = (*Runner)(nil)

// New creates a dry runner with a random session ID.
// If logger is nil, log.Default() is used.
func New(dataDir string, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		DataDir: dataDir,
		Session: uuid.NewString(),
		Logger:  logger,
	}
}

// StartExecution allocates the next execution directory.
func (r *Runner) StartExecution(md runner.Metadata) runner.Execution {
	r.mu.Lock()
	n := r.count
	r.count++
	r.mu.Unlock()

	return &execution{
		runner: r,
		md:     md,
		dir:    runner.ExecutionDir(r.DataDir, r.Session, n, md.Name),
	}
}

// Commands returns the recorded invocations in order.
func (r *Runner) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Command(nil), r.commands...)
}

type execution struct {
	runner *Runner
	md     runner.Metadata
	dir    string
}

func (e *execution) InputFile(hostFile string, opts runner.InputOptions) string {
	return runner.ResolveInput(hostFile, opts)
}

func (e *execution) OutputFile(localFile string, optional bool) string {
	return runner.OutputPath(e.dir, localFile)
}

func (e *execution) Params(params map[string]any) map[string]any { return params }

func (e *execution) Run(ctx context.Context, args []string, handlers runner.Handlers) error {
	cmd := Command{Package: e.md.Package, Name: e.md.Name, Args: append([]string(nil), args...)}

	e.runner.mu.Lock()
	e.runner.commands = append(e.runner.commands, cmd)
	e.runner.mu.Unlock()

	e.runner.Logger.Info("dry run", "tool", e.md.Package+"/"+e.md.Name, "cmd", cmd.String())
	return ctx.Err()
}
