package miniscript

// The builtin catalog is fixed. Each builtin is bound in the global
// environment as a BuiltinRef value and invoked through CallBuiltin, which
// owns arity checking.

type builtinFn func(ip *Interpreter, args []Value, line int) (Value, *RuntimeError)

type builtinEntry struct {
	arity int // -1 means variadic
	impl  builtinFn
}

var builtinRegistry = map[string]builtinEntry{}

func registerBuiltin(name string, arity int, impl builtinFn) {
	builtinRegistry[name] = builtinEntry{arity: arity, impl: impl}
}

// CallBuiltin dispatches a builtin by name. The third return is false when
// no builtin of that name exists.
func (ip *Interpreter) CallBuiltin(name string, args []Value, line int) (Value, *RuntimeError, bool) {
	b, ok := builtinRegistry[name]
	if !ok {
		return Value{}, nil, false
	}
	if b.arity >= 0 && len(args) != b.arity {
		return Value{}, newFault(FaultArityMismatch, line,
			"%s expects %d argument(s), got %d", name, b.arity, len(args)), true
	}
	v, fault := b.impl(ip, args, line)
	return v, fault, true
}

// ----- argument helpers -----

func wantNumArg(name string, args []Value, i, line int) (float64, *RuntimeError) {
	if args[i].Tag != VTNum {
		return 0, newFault(FaultTypeMismatch, line,
			"%s: argument %d must be a number, got %s", name, i+1, args[i].TypeName())
	}
	return args[i].AsNum(), nil
}

func wantStrArg(name string, args []Value, i, line int) (string, *RuntimeError) {
	if args[i].Tag != VTStr {
		return "", newFault(FaultTypeMismatch, line,
			"%s: argument %d must be a string, got %s", name, i+1, args[i].TypeName())
	}
	return args[i].AsStr(), nil
}

func init() {
	registerBuiltin("print", -1, func(ip *Interpreter, args []Value, line int) (Value, *RuntimeError) {
		ip.printLine(args)
		return NilVal(), nil
	})

	registerBuiltin("len", 1, func(ip *Interpreter, args []Value, line int) (Value, *RuntimeError) {
		switch args[0].Tag {
		case VTStr:
			return Num(float64(len(args[0].AsStr()))), nil
		case VTList:
			return Num(float64(len(args[0].AsList().Elems))), nil
		default:
			return Value{}, newFault(FaultTypeMismatch, line,
				"len: argument must be a string or list, got %s", args[0].TypeName())
		}
	})

	registerBuiltin("str", 1, func(ip *Interpreter, args []Value, line int) (Value, *RuntimeError) {
		return Str(args[0].Stringify()), nil
	})

	registerBuiltin("type", 1, func(ip *Interpreter, args []Value, line int) (Value, *RuntimeError) {
		return Str(args[0].TypeName()), nil
	})
}
