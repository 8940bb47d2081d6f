package miniscript

import (
	"os"
	"path/filepath"
	"strings"
)

// ModulesPathEnv names the environment variable holding extra module
// search directories, in filepath.ListSeparator-joined form.
const ModulesPathEnv = "MODULESPATH"

const defaultModuleExt = ".ms"

// importModule resolves and runs a module in the importing environment:
// its top-level bindings land directly in env. Completed imports are never
// cached, so importing the same file twice executes it twice; only an
// import cycle (the module is still executing) is rejected.
func (ip *Interpreter) importModule(spec string, line int, env *Env) *RuntimeError {
	importer := ""
	if n := len(ip.scriptStack); n > 0 {
		importer = ip.scriptStack[n-1]
	}
	path, ok := resolveModule(spec, importer)
	if !ok {
		return newFault(FaultImport, line, "cannot resolve module %q", spec)
	}
	for _, active := range ip.loadStack {
		if active == path {
			return newFault(FaultImport, line,
				"import cycle: %s", joinCyclePath(ip.loadStack, path))
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return newFault(FaultImport, line, "cannot read module %q: %v", spec, err)
	}
	stmts, perr := Parse(string(data))
	if perr != nil {
		return newFault(FaultImport, line, "module %q: %v", spec, perr)
	}

	ip.loadStack = append(ip.loadStack, path)
	ip.scriptStack = append(ip.scriptStack, path)
	defer func() {
		ip.loadStack = ip.loadStack[:len(ip.loadStack)-1]
		ip.scriptStack = ip.scriptStack[:len(ip.scriptStack)-1]
	}()

	sig := ip.Interpret(stmts, env)
	if sig.Kind == SigFault {
		return sig.Err
	}
	// a top-level return just ends the module
	return nil
}

// resolveModule finds the file for an import spec. Search order: the
// importing script's directory, the working directory, then each entry of
// MODULESPATH. Each base tries the spec verbatim, then with the ".ms"
// extension appended.
func resolveModule(spec, importer string) (string, bool) {
	if filepath.IsAbs(spec) {
		if p, ok := tryModuleFile(spec); ok {
			return p, true
		}
		return "", false
	}

	var dirs []string
	if importer != "" {
		dirs = append(dirs, filepath.Dir(importer))
	}
	dirs = append(dirs, ".")
	if env := os.Getenv(ModulesPathEnv); env != "" {
		dirs = append(dirs, filepath.SplitList(env)...)
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if p, ok := tryModuleFile(filepath.Join(dir, spec)); ok {
			return p, true
		}
	}
	return "", false
}

func tryModuleFile(base string) (string, bool) {
	for _, cand := range []string{base, base + defaultModuleExt} {
		if fi, err := os.Stat(cand); err == nil && fi.Mode().IsRegular() {
			return absPath(cand), true
		}
	}
	return "", false
}

func joinCyclePath(stack []string, repeat string) string {
	parts := make([]string, 0, len(stack)+1)
	for _, p := range stack {
		parts = append(parts, filepath.Base(p))
	}
	parts = append(parts, filepath.Base(repeat))
	return strings.Join(parts, " -> ")
}

func absPath(p string) string {
	if a, err := filepath.Abs(p); err == nil {
		return a
	}
	return p
}
