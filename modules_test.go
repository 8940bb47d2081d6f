package miniscript

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeScript(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runFileEnv(t *testing.T, path string) (*Env, error) {
	t.Helper()
	ip := NewInterpreter()
	ip.Stdout = &bytes.Buffer{}
	env := NewEnv(ip.Globals)
	return env, ip.RunFile(path, env)
}

func Test_Import_BindsIntoCallerEnvironment(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "lib.ms", `
var shared = 41;
function bump(n) { return n + 1; }
`)
	main := writeScript(t, dir, "main.ms", `
import "lib";
var r = bump(shared);
`)
	env, err := runFileEnv(t, main)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	wantNum(t, globalVal(t, env, "r"), 42)
	// the module's own bindings are visible too: no isolation
	wantNum(t, globalVal(t, env, "shared"), 41)
}

func Test_Import_ExtensionIsOptional(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "lib.ms", `var fromLib = 1;`)
	main := writeScript(t, dir, "main.ms", `import "lib.ms"; var ok = fromLib;`)
	if _, err := runFileEnv(t, main); err != nil {
		t.Fatalf("explicit extension failed: %v", err)
	}
}

func Test_Import_SearchesImporterDirFirst(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeScript(t, sub, "helper.ms", `var where = "sub";`)
	main := writeScript(t, sub, "main.ms", `import "helper"; var w = where;`)
	env, err := runFileEnv(t, main)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	wantStr(t, globalVal(t, env, "w"), "sub")
}

func Test_Import_UsesModulesPath(t *testing.T) {
	libDir := t.TempDir()
	writeScript(t, libDir, "remote.ms", `var fromPath = "yes";`)
	t.Setenv(ModulesPathEnv, libDir)

	mainDir := t.TempDir()
	main := writeScript(t, mainDir, "main.ms", `import "remote"; var ok = fromPath;`)
	env, err := runFileEnv(t, main)
	if err != nil {
		t.Fatalf("MODULESPATH lookup failed: %v", err)
	}
	wantStr(t, globalVal(t, env, "ok"), "yes")
}

func Test_Import_ReimportReexecutes(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "counter.ms", `hits = hits + 1;`)
	main := writeScript(t, dir, "main.ms", `
var hits = 0;
import "counter";
import "counter";
`)
	env, err := runFileEnv(t, main)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	wantNum(t, globalVal(t, env, "hits"), 2)
}

func Test_Import_CycleIsReported(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "a.ms", `import "b";`)
	writeScript(t, dir, "b.ms", `import "a";`)
	main := writeScript(t, dir, "main.ms", `import "a";`)
	_, err := runFileEnv(t, main)
	if err == nil {
		t.Fatalf("import cycle must fail")
	}
	if !strings.Contains(err.Error(), "import cycle") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func Test_Import_MissingModule(t *testing.T) {
	dir := t.TempDir()
	main := writeScript(t, dir, "main.ms", `import "nowhere";`)
	_, err := runFileEnv(t, main)
	if err == nil || !strings.Contains(err.Error(), "cannot resolve module") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func Test_Import_ModuleParseErrorSurfaces(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "bad.ms", `var = ;`)
	main := writeScript(t, dir, "main.ms", `import "bad";`)
	_, err := runFileEnv(t, main)
	if err == nil || !strings.Contains(err.Error(), "bad") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func Test_Import_FaultInModulePropagates(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "boom.ms", `assert false, "from module";`)
	main := writeScript(t, dir, "main.ms", `import "boom";`)
	_, err := runFileEnv(t, main)
	if err == nil || !strings.Contains(err.Error(), "from module") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func Test_ResolveModule_AbsolutePath(t *testing.T) {
	dir := t.TempDir()
	lib := writeScript(t, dir, "abs.ms", `var ok = 1;`)
	got, ok := resolveModule(lib, "")
	if !ok || got != lib {
		t.Fatalf("absolute spec: got %q ok=%v", got, ok)
	}
	if _, ok := resolveModule(filepath.Join(dir, "missing"), ""); ok {
		t.Fatalf("missing absolute spec must not resolve")
	}
}
