package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetVersion(t *testing.T) {
	SetVersion("1.0.0", "abc123", "2026-01-01")

	if version != "1.0.0" {
		t.Errorf("version = %q, want %q", version, "1.0.0")
	}
	if commit != "abc123" {
		t.Errorf("commit = %q, want %q", commit, "abc123")
	}
	if date != "2026-01-01" {
		t.Errorf("date = %q, want %q", date, "2026-01-01")
	}
}

func TestRootCommandRegistration(t *testing.T) {
	root := newRootCmd()

	want := []string{
		"validate", "graph", "lineage", "cycles", "impact",
		"backfill", "paths", "attributes", "datasource",
		"explore", "serve", "completion",
	}
	registered := make(map[string]bool)
	for _, cmd := range root.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

// writeEstate writes an estate config to a temp file and returns its path.
func writeEstate(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "estate.json")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(os.Stderr)
	root.SetErr(os.Stderr)
	return root.ExecuteContext(context.Background())
}

const testEstate = `{
	"pipelines": [
		{"name": "ingest", "output_sources": ["raw"], "duration": 3},
		{"name": "transform", "input_sources": ["raw"], "output_sources": ["clean"], "duration": 2}
	]
}`

func TestValidateCommand(t *testing.T) {
	path := writeEstate(t, testEstate)
	if err := runCommand(t, "validate", "-f", path); err != nil {
		t.Errorf("validate error = %v", err)
	}
}

func TestValidateCommandRejectsInvalid(t *testing.T) {
	path := writeEstate(t, `{"datasources": []}`)
	if err := runCommand(t, "validate", "-f", path); err == nil {
		t.Error("validate should fail on a document without pipelines")
	}
}

func TestCyclesCommandFailsOnCycle(t *testing.T) {
	path := writeEstate(t, `{
		"pipelines": [
			{"name": "a", "upstream_pipelines": ["b"]},
			{"name": "b", "upstream_pipelines": ["a"]}
		]
	}`)
	err := runCommand(t, "cycles", "-f", path)
	if err == nil || !strings.Contains(err.Error(), "cycles found") {
		t.Errorf("cycles error = %v, want cycle failure", err)
	}
}

func TestCyclesCommandCleanEstate(t *testing.T) {
	path := writeEstate(t, testEstate)
	if err := runCommand(t, "cycles", "-f", path); err != nil {
		t.Errorf("cycles error = %v", err)
	}
}

func TestLineageCommandUnknownNode(t *testing.T) {
	path := writeEstate(t, testEstate)
	if err := runCommand(t, "lineage", "phantom", "-f", path); err == nil {
		t.Error("lineage should fail for an unknown node")
	}
}

func TestPathsCommandRejectsBadWeight(t *testing.T) {
	path := writeEstate(t, testEstate)
	if err := runCommand(t, "paths", "--by", "latency", "-f", path); err == nil {
		t.Error("paths should reject an unknown weight")
	}
}

func TestBackfillCommand(t *testing.T) {
	path := writeEstate(t, testEstate)
	if err := runCommand(t, "backfill", "ingest", "-f", path); err != nil {
		t.Errorf("backfill error = %v", err)
	}
}

func TestGraphCommandRejectsBadFormat(t *testing.T) {
	path := writeEstate(t, testEstate)
	if err := runCommand(t, "graph", "--format", "png", "-f", path); err == nil {
		t.Error("graph should reject an unsupported format")
	}
}
