package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/styx-api/styxgraph/pkg/errors"
	"github.com/styx-api/styxgraph/pkg/observability"
	"github.com/styx-api/styxgraph/pkg/runner"
)

// Result summarizes a pipeline run.
type Result struct {
	Steps    []StepResult
	Duration time.Duration
}

// StepResult describes one executed step.
type StepResult struct {
	Key      string
	Tool     string // package/name
	Args     []string
	Outputs  []string // Resolved output paths
	Duration time.Duration
	Err      error
}

// Failed returns the first failed step, if any.
func (r *Result) Failed() (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Err != nil {
			return s, true
		}
	}
	return StepResult{}, false
}

// Run executes the steps of p in order through r.
//
// Run stops at the first failing step and returns its error; tool failures
// carry the EXECUTION_FAILED code. The partial Result is returned alongside.
// Tool output is left to r's default handling. If logger is nil,
// log.Default() is used.
func Run(ctx context.Context, r runner.Runner, p *Pipeline, logger *log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.Default()
	}
	start := time.Now()
	res := &Result{}
	defer func() { res.Duration = time.Since(start) }()

	resolved := make(map[string][]string) // step key -> resolved outputs
	for i, step := range p.Steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		sr, err := runStep(ctx, r, step, resolved, logger)
		res.Steps = append(res.Steps, sr)
		if err != nil {
			logger.Error("step failed", "step", i+1, "tool", sr.Tool, "err", err)
			return res, fmt.Errorf("step %d (%s): %w", i+1, step.Key(), err)
		}
		resolved[step.Key()] = sr.Outputs
		logger.Info("step complete", "step", i+1, "tool", sr.Tool, "duration", sr.Duration.Round(time.Millisecond))
	}
	return res, nil
}

func runStep(ctx context.Context, r runner.Runner, step Step, resolved map[string][]string, logger *log.Logger) (StepResult, error) {
	sr := StepResult{Key: step.Key(), Tool: step.Package + "/" + step.Name}
	observability.Pipeline().OnStepStart(ctx, sr.Key)
	start := time.Now()

	exec := r.StartExecution(runner.Metadata{ID: step.ID, Package: step.Package, Name: step.Name})

	inputs := make([]string, len(step.Inputs))
	for i, in := range step.Inputs {
		host, err := resolveInput(in, resolved)
		if err != nil {
			sr.Err = err
			observability.Pipeline().OnStepComplete(ctx, sr.Key, time.Since(start), err)
			return sr, err
		}
		inputs[i] = exec.InputFile(host, runner.InputOptions{})
	}

	outputs := make([]string, len(step.Outputs))
	for i, out := range step.Outputs {
		outputs[i] = exec.OutputFile(out, false)
	}
	sr.Outputs = outputs
	sr.Args = expandArgs(step.Args, inputs, outputs)

	logger.Debug("running step", "tool", sr.Tool, "args", sr.Args)
	err := exec.Run(ctx, sr.Args, runner.Handlers{})
	if err != nil && errors.GetCode(err) == "" {
		err = errors.Wrap(errors.ErrCodeExecutionFailed, err, "%s", sr.Tool)
	}

	sr.Duration = time.Since(start)
	sr.Err = err
	observability.Pipeline().OnStepComplete(ctx, sr.Key, sr.Duration, err)
	return sr, err
}

// resolveInput maps "@step:n/subpath" references to resolved output paths and
// returns plain host paths unchanged.
func resolveInput(in string, resolved map[string][]string) (string, error) {
	ref, ok, err := parseRef(in)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidStep, err, "input %q", in)
	}
	if !ok {
		return in, nil
	}
	outs, found := resolved[ref.step]
	if !found || ref.index >= len(outs) {
		return "", errors.New(errors.ErrCodeStepNotFound, "input %q: no output %d from step %q", in, ref.index, ref.step)
	}
	if ref.subpath == "" {
		return outs[ref.index], nil
	}
	return filepath.Join(outs[ref.index], filepath.FromSlash(ref.subpath)), nil
}
