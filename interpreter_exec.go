package miniscript

import (
	"fmt"
	"strings"
)

// exec runs one statement. Every path that can recurse is guarded by the
// shared depth counter.
func (ip *Interpreter) exec(s Stmt, env *Env) Signal {
	ip.depth++
	defer func() { ip.depth-- }()
	if ip.depth > maxDepth {
		return faultSig(newFault(FaultStackExhausted, s.Pos(),
			"nesting exceeds %d levels", maxDepth))
	}

	switch st := s.(type) {
	case *ExprStmt:
		if _, err := ip.eval(st.Expr, env); err != nil {
			return faultSig(err)
		}
		return normalSig()

	case *PrintStmt:
		args := make([]Value, 0, len(st.Args))
		for _, a := range st.Args {
			v, err := ip.eval(a, env)
			if err != nil {
				return faultSig(err)
			}
			args = append(args, v)
		}
		if _, err, _ := ip.CallBuiltin("print", args, st.Line); err != nil {
			return faultSig(err)
		}
		return normalSig()

	case *VarStmt:
		v := NilVal()
		if st.Init != nil {
			var err *RuntimeError
			v, err = ip.eval(st.Init, env)
			if err != nil {
				return faultSig(err)
			}
		}
		env.Define(st.Name, v.Clone())
		return normalSig()

	case *BlockStmt:
		return ip.Interpret(st.Body, NewEnv(env))

	case *IfStmt:
		cond, err := ip.eval(st.Cond, env)
		if err != nil {
			return faultSig(err)
		}
		if cond.Truthy() {
			return ip.exec(st.Then, env)
		}
		if st.Else != nil {
			return ip.exec(st.Else, env)
		}
		return normalSig()

	case *WhileStmt:
		for {
			cond, err := ip.eval(st.Cond, env)
			if err != nil {
				return faultSig(err)
			}
			if !cond.Truthy() {
				return normalSig()
			}
			if sig := ip.exec(st.Body, env); sig.Kind != SigNormal {
				return sig
			}
		}

	case *FunctionStmt:
		env.Define(st.Name, FunVal(&Fun{Decl: st, Env: env}))
		return normalSig()

	case *ReturnStmt:
		v := NilVal()
		if st.Value != nil {
			var err *RuntimeError
			v, err = ip.eval(st.Value, env)
			if err != nil {
				return faultSig(err)
			}
		}
		return returnSig(v)

	case *AssertStmt:
		cond, err := ip.eval(st.Cond, env)
		if err != nil {
			return faultSig(err)
		}
		if cond.Truthy() {
			return normalSig()
		}
		msg := "assertion failed"
		if st.Message != nil {
			mv, err := ip.eval(st.Message, env)
			if err != nil {
				return faultSig(err)
			}
			if mv.Tag != VTStr {
				return faultSig(newFault(FaultTypeMismatch, st.Line,
					"assert message must be a string, got %s", mv.TypeName()))
			}
			msg = mv.AsStr()
		}
		return faultSig(newFault(FaultAssertionFailed, st.Line, "%s", msg))

	case *ImportStmt:
		if err := ip.importModule(st.Path, st.Line, env); err != nil {
			return faultSig(err)
		}
		return normalSig()

	default:
		return faultSig(newFault(FaultUnknownOperator, s.Pos(),
			"unhandled statement %T", s))
	}
}

// printLine is the shared print implementation: stringified operands joined
// by single spaces, then a newline.
func (ip *Interpreter) printLine(args []Value) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Stringify()
	}
	fmt.Fprintln(ip.Stdout, strings.Join(parts, " "))
}
