package miniscript

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// End-to-end fixtures: whole scripts described in YAML with their expected
// output or fault.

type scriptFixture struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Output string `yaml:"output"`
	Fault  string `yaml:"fault"` // expected FaultKind name, empty for clean runs
}

func loadFixtures(t *testing.T, path string) []scriptFixture {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("cannot read fixtures: %v", err)
	}
	var fixtures []scriptFixture
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		t.Fatalf("cannot decode fixtures: %v", err)
	}
	return fixtures
}

func Test_Scripts(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	if err != nil || len(files) == 0 {
		t.Fatalf("no fixture files found: %v", err)
	}
	for _, file := range files {
		for _, fx := range loadFixtures(t, file) {
			fx := fx
			t.Run(fx.Name, func(t *testing.T) {
				ip := NewInterpreter()
				var out bytes.Buffer
				ip.Stdout = &out
				env := NewEnv(ip.Globals)

				stmts, perr := Parse(fx.Source)
				if perr != nil {
					t.Fatalf("parse error: %v", perr)
				}
				sig := ip.Interpret(stmts, env)

				if fx.Fault != "" {
					if sig.Kind != SigFault {
						t.Fatalf("expected %s fault, run succeeded with output %q", fx.Fault, out.String())
					}
					if sig.Err.Kind.String() != fx.Fault {
						t.Fatalf("want %s, got %s (%s)", fx.Fault, sig.Err.Kind, sig.Err.Msg)
					}
					return
				}
				if sig.Kind == SigFault {
					t.Fatalf("unexpected fault: %v", sig.Err)
				}
				if got := out.String(); got != fx.Output {
					t.Fatalf("output mismatch\nwant:\n%s\ngot:\n%s", fx.Output, got)
				}
			})
		}
	}
}

func Test_Scripts_FaultNamesAreValid(t *testing.T) {
	known := make(map[string]bool)
	for _, name := range faultNames {
		known[name] = true
	}
	files, _ := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	for _, file := range files {
		for _, fx := range loadFixtures(t, file) {
			if fx.Fault != "" && !known[fx.Fault] {
				t.Fatalf("%s: fixture %q names unknown fault %q", file, fx.Name, fx.Fault)
			}
			if strings.TrimSpace(fx.Source) == "" {
				t.Fatalf("%s: fixture %q has no source", file, fx.Name)
			}
		}
	}
}
