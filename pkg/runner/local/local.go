// Package local provides a runner that executes tools as host processes.
//
// Each execution writes into its own directory below the data directory:
//
//	<DataDir>/<Session>_<n>_<name>/
//
// The directory is created when the execution runs and is also the working
// directory of the spawned process. Stdout and stderr are streamed line by
// line to the caller's handlers, or to the logger when no handler is set.
package local

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/styx-api/styxgraph/pkg/errors"
	"github.com/styx-api/styxgraph/pkg/runner"
)

// Runner spawns tools with os/exec.
type Runner struct {
	DataDir string
	Session string
	Logger  *log.Logger
	// Env is appended to the current process environment. Optional.
	Env []string

	mu    sync.Mutex
	count int
}

var _ runner.Runner = (*Runner)(nil)

// New creates a local runner with a random session ID.
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

// Run creates the execution directory and runs args[0] with the remaining
// arguments. A non-zero exit is returned as an EXECUTION_FAILED error.
func (e *execution) Run(ctx context.Context, args []string, handlers runner.Handlers) error {
	tool := e.md.Package + "/" + e.md.Name
	if len(args) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s: empty command line", tool)
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeExecutionFailed, err, "%s: create output directory", tool)
	}

	logger := e.runner.Logger.With("tool", tool)
	stdout, stderr := handlers.Stdout, handlers.Stderr
	if stdout == nil {
		stdout = func(line string) { logger.Info(line) }
	}
	if stderr == nil {
		stderr = func(line string) { logger.Warn(line) }
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = e.dir
	if len(e.runner.Env) > 0 {
		cmd.Env = append(os.Environ(), e.runner.Env...)
	}

	outPipe, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "%s: stdout pipe", tool)
	}
	errPipe, err := cmd.StderrPipe()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "%s: stderr pipe", tool)
	}

	logger.Debug("running", "args", args, "dir", e.dir)
	if err := cmd.Start(); err != nil {
		return errors.Wrap(errors.ErrCodeExecutionFailed, err, "%s: start", tool)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); scanLines(outPipe, stdout) }()
	go func() { defer wg.Done(); scanLines(errPipe, stderr) }()
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		return errors.Wrap(errors.ErrCodeExecutionFailed, err, "%s", tool)
	}
	return nil
}

// scanLines must drain r completely before cmd.Wait is called.
func scanLines(r io.Reader, emit func(string)) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		emit(sc.Text())
	}
	_, _ = io.Copy(io.Discard, r)
}
