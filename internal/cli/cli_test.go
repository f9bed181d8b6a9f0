package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/styx-api/styxgraph/pkg/cache"
	"github.com/styx-api/styxgraph/pkg/errors"
)

const testPipeline = `
[[step]]
package = "fsl"
name    = "bet"
inputs  = ["/subjects/01/t1.nii.gz"]
outputs = ["brain"]
args    = ["bet", "{in0}", "{out0}"]

[[step]]
package = "fsl"
name    = "fast"
inputs  = ["@bet:0/brain.nii.gz"]
outputs = ["seg"]
args    = ["fast", "-o", "{out0}", "{in0}"]
`

func quietUI(t *testing.T) {
	t.Helper()
	old := uiOut
	uiOut = io.Discard
	t.Cleanup(func() { uiOut = old })
}

func writePipeline(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	quietUI(t)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()

	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestRunDryToFile(t *testing.T) {
	p := writePipeline(t, testPipeline)
	out := filepath.Join(t.TempDir(), "diagram.mmd")

	if _, err := execute(t, "run", p, "--dry-run", "--data-dir", t.TempDir(), "-s", "LR", "-o", out); err != nil {
		t.Fatalf("run error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("diagram not written: %v", err)
	}
	want := "graph LR\n  fsl_bet[\"fsl/bet\"]\n  fsl_fast[\"fsl/fast\"]\n  fsl_bet --> fsl_fast\n"
	if string(data) != want {
		t.Errorf("diagram =\n%s\nwant\n%s", data, want)
	}
}

func TestRunDryJSONToStdout(t *testing.T) {
	p := writePipeline(t, testPipeline)

	stdout, err := execute(t, "run", p, "--dry-run", "--data-dir", t.TempDir(), "--format", "json")
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	var g struct {
		Nodes []struct{ ID string }
		Edges []struct{ From, To string }
	}
	if err := json.Unmarshal([]byte(stdout), &g); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout)
	}
	if len(g.Nodes) != 2 || len(g.Edges) != 1 || g.Edges[0].From != "fsl_bet" {
		t.Errorf("graph = %+v, want 2 nodes and edge from fsl_bet", g)
	}
}

func TestRunErrors(t *testing.T) {
	p := writePipeline(t, testPipeline)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"invalid style", []string{"run", p, "--dry-run", "-s", "diagonal"}, errors.ErrCodeInvalidStyle},
		{"invalid format", []string{"run", p, "--dry-run", "--format", "png"}, errors.ErrCodeInvalidFormat},
		{"missing file", []string{"run", filepath.Join(t.TempDir(), "nope.toml")}, errors.ErrCodeFileNotFound},
		{"invalid pipeline", []string{"run", writePipeline(t, "[[step]]\nname = \"x\"\n")}, errors.ErrCodeInvalidStep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append(tt.args, "--data-dir", t.TempDir())...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestRunWritesDiagramOnFailure(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	p := writePipeline(t, `
[[step]]
package = "test"
name    = "make"
outputs = ["out"]
args    = ["sh", "-c", "mkdir -p {out0}"]

[[step]]
package = "test"
name    = "fail"
inputs  = ["@make:0"]
args    = ["sh", "-c", "exit 2"]

[[step]]
package = "test"
name    = "never"
args    = ["true"]
`)
	out := filepath.Join(t.TempDir(), "diagram.mmd")

	_, err := execute(t, "run", p, "--data-dir", t.TempDir(), "-o", out)
	if !errors.Is(err, errors.ErrCodeExecutionFailed) {
		t.Fatalf("run error = %v, want %v", err, errors.ErrCodeExecutionFailed)
	}

	data, readErr := os.ReadFile(out)
	if readErr != nil {
		t.Fatalf("diagram not written after failure: %v", readErr)
	}
	got := string(data)
	if !strings.Contains(got, "test_make --> test_fail") {
		t.Errorf("diagram missing edge:\n%s", got)
	}
	if strings.Contains(got, "test_never") {
		t.Errorf("diagram contains step after failure:\n%s", got)
	}
}

func TestDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg")
	got, err := dataDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/xdg", appName); got != want {
		t.Errorf("dataDir() = %q, want %q", got, want)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/xdg-cache")
	got, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/xdg-cache", appName); got != want {
		t.Errorf("cacheDir() = %q, want %q", got, want)
	}
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()
	c := New(&bytes.Buffer{}, LogInfo)
	if _, ok := c.newCache(ctx, cacheOptions{noCache: true}).(cache.NullCache); !ok {
		t.Error("newCache with --no-cache should return a NullCache")
	}

	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	if _, ok := c.newCache(ctx, cacheOptions{}).(*cache.FileCache); !ok {
		t.Error("newCache without options should return a FileCache")
	}
}

func TestNewCacheRedisFallback(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"unreachable", "redis://127.0.0.1:1/0"},
		{"malformed", "mysql://localhost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			c := New(&logs, LogInfo)
			rc := c.newCache(context.Background(), cacheOptions{redisURL: tt.url})
			defer rc.Close()

			if _, ok := rc.(cache.NullCache); !ok {
				t.Errorf("newCache(%s) = %T, want NullCache", tt.url, rc)
			}
			if !strings.Contains(logs.String(), "render cache disabled") {
				t.Errorf("missing fallback warning in logs: %q", logs.String())
			}
		})
	}
}

func TestRedisURLFromEnv(t *testing.T) {
	t.Setenv(redisURLEnv, "redis://cache.internal:6379/2")
	cmd := New(&bytes.Buffer{}, LogInfo).runCommand()
	if got := cmd.Flags().Lookup("redis-url").DefValue; got != "redis://cache.internal:6379/2" {
		t.Errorf("--redis-url default = %q, want value of %s", got, redisURLEnv)
	}
}

func TestRunSVGWithUnreachableRedis(t *testing.T) {
	p := writePipeline(t, testPipeline)
	stdout, err := execute(t, "run", p, "--dry-run", "--data-dir", t.TempDir(),
		"--format", "svg", "--redis-url", "redis://127.0.0.1:1/0")
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if !strings.Contains(stdout, "<svg") {
		t.Errorf("stdout is not SVG:\n%s", stdout)
	}
}

func TestRootSilencesErrors(t *testing.T) {
	quietUI(t)
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	var stderr bytes.Buffer
	root.SetOut(io.Discard)
	root.SetErr(&stderr)
	root.SetArgs([]string{"run", filepath.Join(t.TempDir(), "missing.toml")})

	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Fatal("run of missing file should fail")
	}
	if stderr.Len() != 0 {
		t.Errorf("root command printed the error itself: %q", stderr.String())
	}
}

func TestRunJSONToFileThenRender(t *testing.T) {
	p := writePipeline(t, testPipeline)
	saved := filepath.Join(t.TempDir(), "graph.json")

	if _, err := execute(t, "run", p, "--dry-run", "--data-dir", t.TempDir(), "-s", "LR", "-f", "json", "-o", saved); err != nil {
		t.Fatalf("run error: %v", err)
	}
	data, err := os.ReadFile(saved)
	if err != nil {
		t.Fatalf("graph not written: %v", err)
	}
	if !strings.HasSuffix(string(data), "}\n") || !strings.Contains(string(data), `"style": "LR"`) {
		t.Errorf("saved graph =\n%s", data)
	}

	stdout, err := execute(t, "render", saved)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	want := "graph LR\n  fsl_bet[\"fsl/bet\"]\n  fsl_fast[\"fsl/fast\"]\n  fsl_bet --> fsl_fast\n"
	if stdout != want {
		t.Errorf("render =\n%s\nwant\n%s", stdout, want)
	}

	stdout, err = execute(t, "render", saved, "-s", "BT", "-f", "dot")
	if err != nil {
		t.Fatalf("render -f dot error: %v", err)
	}
	if !strings.Contains(stdout, "rankdir=BT") || !strings.Contains(stdout, `"fsl_bet" -> "fsl_fast"`) {
		t.Errorf("render -f dot =\n%s", stdout)
	}
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"nodes": 3}`), 0o644); err != nil {
		t.Fatal(err)
	}
	good := filepath.Join(dir, "good.json")
	if err := os.WriteFile(good, []byte(`{"style":"TD","nodes":[],"edges":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing file", []string{"render", filepath.Join(dir, "nope.json")}, errors.ErrCodeFileNotFound},
		{"malformed graph", []string{"render", bad}, errors.ErrCodeInvalidInput},
		{"invalid style", []string{"render", good, "-s", "up"}, errors.ErrCodeInvalidStyle},
		{"invalid format", []string{"render", good, "-f", "png"}, errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestRunDryListsCommands(t *testing.T) {
	p := writePipeline(t, testPipeline)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	var ui bytes.Buffer
	old := uiOut
	t.Cleanup(func() { uiOut = old })

	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"run", p, "--dry-run", "--data-dir", t.TempDir()})
	uiOut = &ui
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("run error: %v", err)
	}

	out := ui.String()
	for _, want := range []string{"Running 2 steps from " + p, "$ bet /subjects/01/t1.nii.gz", "$ fast -o"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestCompletion(t *testing.T) {
	stdout, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion error: %v", err)
	}
	if !strings.Contains(stdout, appName) {
		t.Error("bash completion should mention the command name")
	}

	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
}
