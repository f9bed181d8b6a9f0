package runner

import (
	"fmt"
	"path/filepath"
	"regexp"
)

// ResolveInput returns the absolute host path for an input file.
// With ResolveParent set, the parent directory is returned instead.
// If the path cannot be made absolute it is returned cleaned.
func ResolveInput(hostFile string, opts InputOptions) string {
	p, err := filepath.Abs(hostFile)
	if err != nil {
		p = filepath.Clean(hostFile)
	}
	if opts.ResolveParent {
		return filepath.Dir(p)
	}
	return p
}

var unsafeNameRe = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ExecutionDir returns the output directory for the n-th execution of a session.
// The layout is <dataDir>/<session>_<n>_<name>, with unsafe name characters
// replaced by underscores. A relative dataDir is made absolute against the
// working directory, because tools run with the execution directory as their
// working directory and must receive paths that do not depend on it.
func ExecutionDir(dataDir, session string, n int, name string) string {
	if abs, err := filepath.Abs(dataDir); err == nil {
		dataDir = abs
	}
	safe := unsafeNameRe.ReplaceAllString(name, "_")
	return filepath.Join(dataDir, fmt.Sprintf("%s_%d_%s", session, n, safe))
}

// OutputPath joins a local output name onto an execution directory.
// An empty name or "." refers to the directory itself.
func OutputPath(dir, local string) string {
	if local == "" || local == "." {
		return dir
	}
	return filepath.Join(dir, local)
}
