package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Mgabr90/bpmn-to-visio/internal/fixtures"
	"github.com/Mgabr90/bpmn-to-visio/pkg/errors"
	"github.com/Mgabr90/bpmn-to-visio/pkg/pipeline"
)

// run executes the CLI with args and a config file that disables the cache.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte("[cache]\ndisabled = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.Out = &out
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFixture(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommandTree(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"convert", "inspect", "watch", "cache", "config", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag missing")
	}
}

func TestConvertSingle(t *testing.T) {
	dir := t.TempDir()
	in := writeFixture(t, dir, "order.bpmn", fixtures.Collaboration)
	outDir := filepath.Join(dir, "out")

	out, err := run(t, "convert", in, "-o", outDir, "-f", "vsdx,json")
	if err != nil {
		t.Fatalf("convert error: %v", err)
	}
	for _, ext := range []string{".vsdx", ".json"} {
		if _, err := os.Stat(filepath.Join(outDir, "order"+ext)); err != nil {
			t.Errorf("missing output order%s: %v", ext, err)
		}
	}
	if !strings.Contains(out, "order.bpmn") || !strings.Contains(out, "connectors") {
		t.Errorf("output = %q", out)
	}
}

func TestConvertSingleFailure(t *testing.T) {
	dir := t.TempDir()
	in := writeFixture(t, dir, "broken.bpmn", fixtures.Malformed)

	out, err := run(t, "convert", in)
	if !errors.Is(err, errors.ErrCodeMalformedXML) {
		t.Errorf("convert error = %v, want %s", err, errors.ErrCodeMalformedXML)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "broken.vsdx")); !os.IsNotExist(statErr) {
		t.Error("failed conversion left an output behind")
	}
	if !strings.Contains(out, "broken.bpmn") {
		t.Errorf("output = %q", out)
	}
}

func TestConvertBatch(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	if err := os.Mkdir(src, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFixture(t, src, "a.bpmn", fixtures.Minimal)
	writeFixture(t, src, "b.bpmn", fixtures.Malformed)
	writeFixture(t, src, "c.bpmn", fixtures.Collaboration)
	outDir := filepath.Join(dir, "out")
	reportPath := filepath.Join(dir, "report.json")

	out, err := run(t, "convert", "--batch", src, "-o", outDir, "--workers", "2", "--report", reportPath)
	if err == nil {
		t.Fatal("batch with a malformed file should fail")
	}
	if !strings.Contains(err.Error(), "1 of 3 files failed") {
		t.Errorf("error = %v", err)
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
	for _, name := range []string{"a.vsdx", "c.vsdx"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if !strings.Contains(out, "Summary") {
		t.Errorf("output has no summary: %q", out)
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	var rep struct {
		Succeeded int `json:"succeeded"`
		Failed    int `json:"failed"`
	}
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("unmarshal report: %v", err)
	}
	if rep.Succeeded != 2 || rep.Failed != 1 {
		t.Errorf("report = %+v, want 2 succeeded, 1 failed", rep)
	}
}

func TestConvertBatchNestedSameNames(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	for _, sub := range []string{"emea", "apac"} {
		if err := os.MkdirAll(filepath.Join(src, sub), 0o755); err != nil {
			t.Fatal(err)
		}
		writeFixture(t, filepath.Join(src, sub), "order.bpmn", fixtures.Minimal)
	}
	outDir := filepath.Join(dir, "out")

	if _, err := run(t, "convert", "--batch", src, "-o", outDir); err != nil {
		t.Fatalf("convert --batch error: %v", err)
	}
	for _, sub := range []string{"emea", "apac"} {
		if _, err := os.Stat(filepath.Join(outDir, sub, "order.vsdx")); err != nil {
			t.Errorf("missing %s/order.vsdx: %v", sub, err)
		}
	}
}

func TestConvertOutputConflictIsNotInputDefect(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"a", "b"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	first := writeFixture(t, filepath.Join(dir, "a"), "order.bpmn", fixtures.Minimal)
	second := writeFixture(t, filepath.Join(dir, "b"), "order.bpmn", fixtures.Minimal)

	_, err := run(t, "convert", first, second, "-o", filepath.Join(dir, "out"))
	if err == nil {
		t.Fatal("two inputs writing the same output should fail")
	}
	if errors.IsInputDefect(err) {
		t.Errorf("error %v classified as input defect", err)
	}
}

func TestBatchFailureCode(t *testing.T) {
	malformed := pipeline.FileResult{Err: errors.New(errors.ErrCodeMalformedXML, "x")}
	noDiagram := pipeline.FileResult{Err: errors.New(errors.ErrCodeMissingDiagram, "x")}
	conflict := pipeline.FileResult{Err: errors.New(errors.ErrCodeInvalidPath, "x")}

	tests := []struct {
		name     string
		failures []pipeline.FileResult
		want     errors.Code
	}{
		{"input defects only", []pipeline.FileResult{malformed, noDiagram}, errors.ErrCodeInvalidInput},
		{"write failure", []pipeline.FileResult{conflict}, errors.ErrCodeInternal},
		{"mixed", []pipeline.FileResult{malformed, conflict}, errors.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := batchFailureCode(tt.failures); got != tt.want {
				t.Errorf("batchFailureCode() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestConvertArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"no input", []string{"convert"}, errors.ErrCodeInvalidInput},
		{"bad format", []string{"convert", "x.bpmn", "-f", "docx"}, errors.ErrCodeInvalidFormat},
		{"missing file", []string{"convert", "does-not-exist.bpmn"}, errors.ErrCodeFileNotFound},
		{"missing batch dir", []string{"convert", "--batch", "does-not-exist"}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	in := writeFixture(t, dir, "order.bpmn", fixtures.Collaboration)

	out, err := run(t, "inspect", in)
	if err != nil {
		t.Fatalf("inspect error: %v", err)
	}
	for _, want := range []string{"Order handling", "Pool: 2", "Lane: 2", "MessageFlow: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}

	dot, err := run(t, "inspect", in, "--dot")
	if err != nil {
		t.Fatalf("inspect --dot error: %v", err)
	}
	if !strings.HasPrefix(dot, "digraph G {") {
		t.Errorf("--dot output = %q", dot)
	}

	js, err := run(t, "inspect", in, "--json")
	if err != nil {
		t.Fatalf("inspect --json error: %v", err)
	}
	var model struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(js), &model); err != nil || model.Name != "Order handling" {
		t.Errorf("--json output: name %q, err %v", model.Name, err)
	}
}

func TestInspectGraphFormat(t *testing.T) {
	dir := t.TempDir()
	in := writeFixture(t, dir, "order.bpmn", fixtures.Minimal)

	_, err := run(t, "inspect", in, "--graph", filepath.Join(dir, "graph.gif"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestCachePath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("cache:\n  dir: "+dir+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.Out = &out
	root := c.RootCommand()
	root.SetArgs([]string{"--config", cfgPath, "cache", "path"})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != dir {
		t.Errorf("cache path = %q, want %q", got, dir)
	}
}

func TestConfigShow(t *testing.T) {
	out, err := run(t, "config", "show")
	if err != nil {
		t.Fatalf("config show error: %v", err)
	}
	if !strings.Contains(out, "disabled = true") || !strings.Contains(out, "[palette]") {
		t.Errorf("config show output:\n%s", out)
	}
}

func TestBadConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte("[output]\nformats = [\"gif\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"--config", cfgPath, "cache", "path"})
	if err := root.Execute(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
}
