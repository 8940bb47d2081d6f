package miniscript

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func Test_Builtin_FileWriteReadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	env, _ := runProgram(t, fmt.Sprintf(`
var f = fopen(%q, "w");
fwriteline(f, "first");
fwrite(f, "sec");
fwrite(f, "ond");
fclose(f);
var g = fopen(%q, "r");
var all = fread(g);
fclose(g);
`, path, path))
	wantStr(t, globalVal(t, env, "all"), "first\nsecond")
}

func Test_Builtin_Freadline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.txt")
	if err := os.WriteFile(path, []byte("one\ntwo\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	env, _ := runProgram(t, fmt.Sprintf(`
var f = fopen(%q, "r");
var a = freadline(f);
var b = freadline(f);
var c = freadline(f);
fclose(f);
`, path))
	wantStr(t, globalVal(t, env, "a"), "one")
	wantStr(t, globalVal(t, env, "b"), "two")
	wantNil(t, globalVal(t, env, "c")) // nil at end of file
}

func Test_Builtin_AppendMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	_, _ = runProgram(t, fmt.Sprintf(`
var f = fopen(%q, "w");
fwriteline(f, "a");
fclose(f);
var g = fopen(%q, "a");
fwriteline(g, "b");
fclose(g);
`, path, path))
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "a\nb\n" {
		t.Fatalf("append produced %q", data)
	}
}

func Test_Builtin_Fexists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "here.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	env, _ := runProgram(t, fmt.Sprintf(`
var yes = fexists(%q);
var no = fexists(%q);
`, path, filepath.Join(dir, "absent.txt")))
	wantBool(t, globalVal(t, env, "yes"), true)
	wantBool(t, globalVal(t, env, "no"), false)
}

func Test_Builtin_ClosedHandleFaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.txt")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	runFault(t, fmt.Sprintf(`
var f = fopen(%q, "r");
fclose(f);
fread(f);
`, path), FaultIO)
}

func Test_Builtin_HandleIsSharedAcrossBindings(t *testing.T) {
	// handles are shared, not copied: closing through one binding
	// invalidates the other
	path := filepath.Join(t.TempDir(), "x.txt")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	runFault(t, fmt.Sprintf(`
var f = fopen(%q, "r");
var g = f;
fclose(g);
fread(f);
`, path), FaultIO)
}

func Test_Builtin_FopenErrors(t *testing.T) {
	runFault(t, `fopen("/no/such/dir/file.txt", "r");`, FaultIO)
	path := filepath.Join(t.TempDir(), "x.txt")
	runFault(t, fmt.Sprintf(`fopen(%q, "rw");`, path), FaultIO)
	runFault(t, `fread("not a handle");`, FaultTypeMismatch)
}
