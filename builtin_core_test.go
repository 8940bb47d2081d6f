package miniscript

import (
	"bytes"
	"testing"
)

func Test_Builtin_Len(t *testing.T) {
	wantNum(t, evalExpr(t, `len("hello")`), 5)
	wantNum(t, evalExpr(t, `len("")`), 0)
	wantNum(t, evalExpr(t, `len([1, 2, 3])`), 3)
	wantNum(t, evalExpr(t, `len([])`), 0)
	runFault(t, `len(42);`, FaultTypeMismatch)
	runFault(t, `len("a", "b");`, FaultArityMismatch)
}

func Test_Builtin_Str(t *testing.T) {
	wantStr(t, evalExpr(t, `str(120)`), "120")
	wantStr(t, evalExpr(t, `str(2.5)`), "2.5")
	wantStr(t, evalExpr(t, `str(nil)`), "nil")
	wantStr(t, evalExpr(t, `str([1, "a"])`), "[1, a]")
}

func Test_Builtin_Type(t *testing.T) {
	wantStr(t, evalExpr(t, `type(1)`), "number")
	wantStr(t, evalExpr(t, `type("x")`), "string")
	wantStr(t, evalExpr(t, `type(nil)`), "nil")
	wantStr(t, evalExpr(t, `type([])`), "list")
	wantStr(t, evalExpr(t, `type(len)`), "builtin")
}

func Test_Builtin_PrintViaCall(t *testing.T) {
	ip := NewInterpreter()
	var out bytes.Buffer
	ip.Stdout = &out
	_, fault, found := ip.CallBuiltin("print", []Value{Str("a"), Num(2)}, 1)
	if !found || fault != nil {
		t.Fatalf("print dispatch failed: %v %v", fault, found)
	}
	if out.String() != "a 2\n" {
		t.Fatalf("print wrote %q", out.String())
	}
}

func Test_CallBuiltin_NotFound(t *testing.T) {
	ip := NewInterpreter()
	_, _, found := ip.CallBuiltin("no_such_builtin", nil, 1)
	if found {
		t.Fatalf("unknown builtin must report not-found")
	}
}

func Test_Builtins_AreBoundInGlobals(t *testing.T) {
	ip := NewInterpreter()
	for _, name := range []string{"print", "len", "str", "type", "time_now", "fopen", "fexists"} {
		v, ok := ip.Globals.Get(name)
		if !ok || v.Tag != VTBuiltin {
			t.Fatalf("builtin %q not bound in globals", name)
		}
	}
}

func Test_Builtin_RefsAreValues(t *testing.T) {
	env, _ := runProgram(t, `
var f = len;
var r = f("abcd");
`)
	wantNum(t, globalVal(t, env, "r"), 4)
}
