package hostconfig

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/artifactsplus/artifactsplus/internal/errs"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultPath(t *testing.T) {
	p, err := DefaultPath("darwin", "/Users/ada", "")
	if err != nil {
		t.Fatalf("darwin: %v", err)
	}
	if want := filepath.Join("/Users/ada", "Library", "Application Support", "Claude", FileName); p != want {
		t.Errorf("darwin path = %q, want %q", p, want)
	}

	p, err = DefaultPath("windows", `C:\Users\ada`, "/appdata")
	if err != nil {
		t.Fatalf("windows: %v", err)
	}
	if want := filepath.Join("/appdata", "Claude", FileName); p != want {
		t.Errorf("windows path = %q, want %q", p, want)
	}

	if _, err = DefaultPath("linux", "/home/ada", ""); err == nil || !strings.Contains(err.Error(), "unsupported platform") {
		t.Errorf("linux: err = %v, want unsupported platform", err)
	}
}

func TestInstall_FreshFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Claude", FileName)

	kept, err := Install(path, "mcp-artifacts-plus", Entry{
		Command: "/usr/local/bin/artifactsplus",
		Args:    []string{"serve"},
		Env:     map[string]string{"PROJECTS_PATH": "/p"},
	})
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if kept {
		t.Error("kept = true for a missing file")
	}

	e, err := Lookup(path, "mcp-artifacts-plus")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if e.Command != "/usr/local/bin/artifactsplus" {
		t.Errorf("command = %q", e.Command)
	}
	if !reflect.DeepEqual(e.Args, []string{"serve"}) {
		t.Errorf("args = %v", e.Args)
	}
	if e.Env["PROJECTS_PATH"] != "/p" {
		t.Errorf("env = %v", e.Env)
	}
}

func TestInstall_PreservesOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, `{
  "theme": "dark",
  "mcpServers": {
    "filesystem": {"command": "npx", "args": ["-y", "@modelcontextprotocol/server-filesystem"]},
    "mcp-artifacts-plus": {"command": "old"}
  }
}`)

	kept, err := Install(path, "mcp-artifacts-plus", Entry{Command: "new", Args: []string{"serve"}})
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if !kept {
		t.Error("kept = false for a valid file")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Theme   string                    `json:"theme"`
		Servers map[string]map[string]any `json:"mcpServers"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("result is not JSON: %v\n%s", err, data)
	}
	if doc.Theme != "dark" {
		t.Errorf("theme = %q, want dark", doc.Theme)
	}
	if _, ok := doc.Servers["filesystem"]; !ok {
		t.Error("filesystem server was dropped")
	}
	if got := doc.Servers["mcp-artifacts-plus"]["command"]; got != "new" {
		t.Errorf("command = %v, want new", got)
	}
	if !strings.Contains(string(data), "\n  \"mcpServers\"") {
		t.Errorf("output is not indented:\n%s", data)
	}
}

func TestInstall_KeepsKeyOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, `{"zeta": 1, "mcpServers": {"zz": {"command": "z"}, "aa": {"command": "a"}}, "alpha": {"nested": true}}`)

	if _, err := Install(path, "mcp-artifacts-plus", Entry{Command: "x"}); err != nil {
		t.Fatalf("Install: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	order := []string{`"zeta"`, `"mcpServers"`, `"zz"`, `"aa"`, `"mcp-artifacts-plus"`, `"alpha"`}
	last := -1
	for _, key := range order {
		i := strings.Index(out, key)
		if i < 0 {
			t.Fatalf("%s missing from:\n%s", key, out)
		}
		if i < last {
			t.Errorf("%s moved before an earlier key:\n%s", key, out)
		}
		last = i
	}
}

func TestInstall_ReplacesUnparsableFile(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"broken", "{not json"},
		{"truncated", `{"a": 1`},
		{"not an object", `["a"]`},
		{"trailing data", `{"a": 1} {"b": 2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			writeFile(t, path, tt.data)

			kept, err := Install(path, "srv", Entry{Command: "x"})
			if err != nil {
				t.Fatalf("Install: %v", err)
			}
			if kept {
				t.Error("kept = true for an unparsable file")
			}
			e, err := Lookup(path, "srv")
			if err != nil {
				t.Fatalf("Lookup: %v", err)
			}
			if e.Command != "x" {
				t.Errorf("command = %q, want x", e.Command)
			}
		})
	}
}

func TestInstall_ServersNotAnObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, `{"mcpServers": [], "keep": 1}`)

	if _, err := Install(path, "srv", Entry{Command: "x"}); err != nil {
		t.Fatalf("Install: %v", err)
	}
	e, err := Lookup(path, "srv")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if e.Command != "x" {
		t.Errorf("command = %q, want x", e.Command)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"keep": 1`) {
		t.Errorf("other key dropped:\n%s", data)
	}
}

func TestLookup_Missing(t *testing.T) {
	dir := t.TempDir()
	if _, err := Lookup(filepath.Join(dir, FileName), "srv"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("missing file: err = %v, want not found", err)
	}

	path := filepath.Join(dir, "other.json")
	writeFile(t, path, `{"mcpServers":{}}`)
	if _, err := Lookup(path, "srv"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("unregistered server: err = %v, want not found", err)
	}
}
