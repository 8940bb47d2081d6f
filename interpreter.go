package miniscript

import (
	"io"
	"os"
)

// SignalKind classifies the outcome of executing a statement.
type SignalKind int

const (
	// SigNormal: execution fell through; continue with the next statement.
	SigNormal SignalKind = iota
	// SigReturn: a return statement is unwinding to the nearest call.
	SigReturn
	// SigFault: a runtime error is unwinding to the top level.
	SigFault
)

// Signal is the result of statement execution. Return and fault are
// distinct: a return carries a Value, a fault carries the error. Faults are
// not catchable from the language.
type Signal struct {
	Kind  SignalKind
	Value Value
	Err   *RuntimeError
}

func normalSig() Signal               { return Signal{Kind: SigNormal} }
func returnSig(v Value) Signal        { return Signal{Kind: SigReturn, Value: v} }
func faultSig(e *RuntimeError) Signal { return Signal{Kind: SigFault, Err: e} }

// Nested statement/expression entries before the interpreter gives up with
// a StackExhausted fault. Well inside Go's growable stack.
const maxDepth = 10000

// Interpreter evaluates a program tree. One Interpreter may run many
// sources against shared or separate environments; it is not safe for
// concurrent use.
type Interpreter struct {
	Globals *Env
	Stdout  io.Writer

	depth       int
	scriptStack []string // absolute paths of sources being run, for import resolution
	loadStack   []string // modules currently executing, for cycle detection
}

// NewInterpreter builds an interpreter whose global environment has every
// builtin pre-bound by name.
func NewInterpreter() *Interpreter {
	ip := &Interpreter{Stdout: os.Stdout}
	ip.Globals = NewEnv(nil)
	for name := range builtinRegistry {
		ip.Globals.Define(name, BuiltinRef(name))
	}
	return ip
}

// Interpret executes statements against env, stopping at the first
// non-normal signal. This is the single evaluation entry point; run, the
// REPL and import all funnel through it.
func (ip *Interpreter) Interpret(stmts []Stmt, env *Env) Signal {
	for _, s := range stmts {
		if sig := ip.exec(s, env); sig.Kind != SigNormal {
			return sig
		}
	}
	return normalSig()
}

// Evaluate computes a single expression against env. Used by the REPL to
// echo results.
func (ip *Interpreter) Evaluate(expr Expr, env *Env) (Value, *RuntimeError) {
	return ip.eval(expr, env)
}

// RunSource lexes, parses and interprets src against env. name labels
// error snippets. A top-level return is tolerated and ends the run.
func (ip *Interpreter) RunSource(src, name string, env *Env) error {
	stmts, err := Parse(src)
	if err != nil {
		return WrapErrorWithSource(err, name, src)
	}
	sig := ip.Interpret(stmts, env)
	if sig.Kind == SigFault {
		return WrapErrorWithSource(sig.Err, name, src)
	}
	return nil
}

// RunFile reads and runs a script file against env. The file's directory
// becomes the first stop for imports it performs.
func (ip *Interpreter) RunFile(path string, env *Env) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	abs := absPath(path)
	ip.scriptStack = append(ip.scriptStack, abs)
	defer func() { ip.scriptStack = ip.scriptStack[:len(ip.scriptStack)-1] }()
	return ip.RunSource(string(data), path, env)
}
