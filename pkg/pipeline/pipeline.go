// Package pipeline runs tool pipelines described in TOML files.
//
// A pipeline is an ordered list of steps. Each step names a tool
// (package + name), the host files it reads, the outputs it writes and its
// command line. Steps run one after another through any [runner.Runner];
// wrapping that runner in a graph.Runner yields the dependency diagram of the
// whole pipeline.
//
// # File Format
//
//	[[step]]
//	package = "fsl"
//	name    = "bet"
//	inputs  = ["subjects/01/t1.nii.gz"]
//	outputs = ["brain"]
//	args    = ["bet", "{in0}", "{out0}"]
//
//	[[step]]
//	package = "fsl"
//	name    = "fast"
//	inputs  = ["@bet:0/brain.nii.gz"]
//	outputs = ["seg"]
//	args    = ["fast", "-o", "{out0}", "{in0}"]
//
// An input of the form "@<step>:<n>" refers to the resolved n-th output of the
// most recent earlier step with that key (its id, or its name when no id is
// set). A "/<subpath>" suffix is joined onto the resolved path. In args,
// "{inN}" and "{outN}" are replaced with the resolved N-th input and output.
//
// # Usage
//
//	p, err := pipeline.Load("pipeline.toml")
//	if err != nil {
//	    return err
//	}
//	r := graph.NewRunner(local.New(dataDir, logger), graph.TopDown)
//	res, err := pipeline.Run(ctx, r, p, logger)
//	fmt.Println(r.GenerateDiagram())
package pipeline

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/styx-api/styxgraph/pkg/errors"
)

// Pipeline is an ordered list of steps.
type Pipeline struct {
	Steps []Step `toml:"step"`
}

// Step is one tool invocation.
type Step struct {
	ID      string   `toml:"id"`      // Optional reference key; defaults to Name
	Package string   `toml:"package"` // Tool package
	Name    string   `toml:"name"`    // Tool name
	Inputs  []string `toml:"inputs"`  // Host paths or "@step:n" references
	Outputs []string `toml:"outputs"` // Local output names
	Args    []string `toml:"args"`    // Command line with {inN}/{outN} placeholders
}

// Key returns the name other steps use to reference this one.
func (s Step) Key() string {
	if s.ID != "" {
		return s.ID
	}
	return s.Name
}

// Load reads and validates a pipeline file.
func Load(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "pipeline file %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a pipeline from TOML.
func Parse(data []byte) (*Pipeline, error) {
	var p Pipeline
	md, err := toml.Decode(string(data), &p)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPipeline, err, "decode pipeline")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidPipeline, "unknown key %q", undecoded[0].String())
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks every step and every reference.
// References must point to an earlier step and an existing output index;
// placeholders must stay within the step's inputs and outputs.
func (p *Pipeline) Validate() error {
	if len(p.Steps) == 0 {
		return errors.New(errors.ErrCodeInvalidPipeline, "pipeline has no steps")
	}

	outputs := make(map[string]int) // step key -> output count
	for i, s := range p.Steps {
		where := fmt.Sprintf("step %d (%s)", i+1, s.Key())

		if err := errors.ValidateIdentifier("package", s.Package); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidStep, err, "%s", where)
		}
		if err := errors.ValidateIdentifier("name", s.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidStep, err, "%s", where)
		}
		if len(s.Args) == 0 {
			return errors.New(errors.ErrCodeInvalidStep, "%s: args must not be empty", where)
		}

		for _, in := range s.Inputs {
			ref, ok, err := parseRef(in)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidStep, err, "%s", where)
			}
			if !ok {
				continue
			}
			n, found := outputs[ref.step]
			if !found {
				return errors.New(errors.ErrCodeStepNotFound, "%s: input %q references unknown or later step %q", where, in, ref.step)
			}
			if ref.index >= n {
				return errors.New(errors.ErrCodeInvalidStep, "%s: input %q references output %d, step %q has %d", where, in, ref.index, ref.step, n)
			}
		}

		for _, arg := range s.Args {
			for _, m := range placeholderRe.FindAllStringSubmatch(arg, -1) {
				idx, _ := strconv.Atoi(m[2])
				limit := len(s.Inputs)
				if m[1] == "out" {
					limit = len(s.Outputs)
				}
				if idx >= limit {
					return errors.New(errors.ErrCodeInvalidStep, "%s: placeholder %s out of range", where, m[0])
				}
			}
		}

		outputs[s.Key()] = len(s.Outputs)
	}
	return nil
}

var placeholderRe = regexp.MustCompile(`\{(in|out)(\d+)\}`)

// ref is a parsed "@step:n/subpath" input.
type ref struct {
	step    string
	index   int
	subpath string
}

// parseRef reports ok=false for plain host paths.
func parseRef(s string) (ref, bool, error) {
	if !strings.HasPrefix(s, "@") {
		return ref{}, false, nil
	}
	body := s[1:]
	step, rest, found := strings.Cut(body, ":")
	if !found || step == "" {
		return ref{}, false, fmt.Errorf("malformed reference %q (want @step:index)", s)
	}
	idxStr, subpath, _ := strings.Cut(rest, "/")
	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 0 {
		return ref{}, false, fmt.Errorf("malformed reference %q: bad output index", s)
	}
	return ref{step: step, index: idx, subpath: subpath}, true, nil
}

// expandArgs replaces {inN} and {outN} placeholders. Validate guarantees the
// indexes are in range.
func expandArgs(args, inputs, outputs []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = placeholderRe.ReplaceAllStringFunc(arg, func(m string) string {
			sub := placeholderRe.FindStringSubmatch(m)
			idx, _ := strconv.Atoi(sub[2])
			if sub[1] == "in" {
				return inputs[idx]
			}
			return outputs[idx]
		})
	}
	return out
}
