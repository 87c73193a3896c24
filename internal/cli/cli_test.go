package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const demoSnapshotYAML = `components:
  - id: api
    name: API
  - id: web
    name: Web
interfaces:
  - id: rest
    name: REST
    offered_by: api
    consumed_by: [web]
locations:
  - id: api
    issues: {BUG: 2}
`

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	var logs bytes.Buffer
	root := New(&logs, LogInfo).RootCommand()
	root.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "none.toml")))
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.ExecuteContext(context.Background())
}

func TestRootCommandRegistersCommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	for _, name := range []string{"render", "layout", "positions", "watch", "serve", "explore", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestRenderDOTKeepsPositions(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "demo.yaml")
	if err := os.WriteFile(input, []byte(demoSnapshotYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	store := filepath.Join(dir, "positions")

	render := func(out string) string {
		t.Helper()
		cfg := filepath.Join(dir, "config.toml")
		if err := os.WriteFile(cfg, []byte("[store]\nbackend = \"file\"\ndir = \""+store+"\"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		var logs bytes.Buffer
		root := New(&logs, LogInfo).RootCommand()
		root.SetArgs([]string{"render", input, "-f", "dot", "-o", out, "--config", cfg, "--project", "demo"})
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("render: %v\n%s", err, logs.String())
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}

	first := render(filepath.Join(dir, "first.dot"))
	second := render(filepath.Join(dir, "second.dot"))
	if !strings.Contains(first, `"api__BUG"`) {
		t.Errorf("missing folder in DOT:\n%s", first)
	}
	if first != second {
		t.Errorf("second render moved nodes:\n%s\n---\n%s", first, second)
	}
	if _, err := os.Stat(filepath.Join(store, "demo.json")); err != nil {
		t.Errorf("positions were not saved: %v", err)
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"render", "x.yaml", "-f", "pdf"}},
		{"stdout with several formats", []string{"render", "x.yaml", "-f", "svg,dot", "-o", "-"}},
		{"missing file", []string{"render", filepath.Join(os.TempDir(), "no-such-snapshot.yaml"), "--store", "memory"}},
		{"bad project", []string{"positions", "show", "../etc", "--store", "memory"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runCLI(t, tt.args...); err == nil {
				t.Error("want an error")
			}
		})
	}
}
