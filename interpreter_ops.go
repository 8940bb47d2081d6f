package miniscript

import "math"

// eval computes one expression. Faults carry the line of the innermost
// expression that raised them.
func (ip *Interpreter) eval(e Expr, env *Env) (Value, *RuntimeError) {
	ip.depth++
	defer func() { ip.depth-- }()
	if ip.depth > maxDepth {
		return Value{}, newFault(FaultStackExhausted, e.Pos(),
			"nesting exceeds %d levels", maxDepth)
	}

	switch ex := e.(type) {
	case *LiteralExpr:
		return ex.Value, nil

	case *VariableExpr:
		v, ok := env.Get(ex.Name)
		if !ok {
			return Value{}, newFault(FaultUndefinedVariable, ex.Line,
				"undefined variable %q", ex.Name)
		}
		return v, nil

	case *AssignExpr:
		v, err := ip.eval(ex.Value, env)
		if err != nil {
			return Value{}, err
		}
		env.Assign(ex.Name, v.Clone())
		return v, nil

	case *GroupingExpr:
		return ip.eval(ex.Inner, env)

	case *ListExpr:
		elems := make([]Value, 0, len(ex.Elems))
		for _, el := range ex.Elems {
			v, err := ip.eval(el, env)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, v.Clone())
		}
		return List(elems...), nil

	case *UnaryExpr:
		return ip.evalUnary(ex, env)

	case *BinaryExpr:
		return ip.evalBinary(ex, env)

	case *LogicalExpr:
		return ip.evalLogical(ex, env)

	case *IndexExpr:
		target, err := ip.eval(ex.Target, env)
		if err != nil {
			return Value{}, err
		}
		idx, err := ip.eval(ex.Index, env)
		if err != nil {
			return Value{}, err
		}
		list, i, fault := checkIndex(target, idx, ex.Line)
		if fault != nil {
			return Value{}, fault
		}
		return list.Elems[i].Clone(), nil

	case *IndexAssignExpr:
		target, err := ip.eval(ex.Target, env)
		if err != nil {
			return Value{}, err
		}
		idx, err := ip.eval(ex.Index, env)
		if err != nil {
			return Value{}, err
		}
		v, err := ip.eval(ex.Value, env)
		if err != nil {
			return Value{}, err
		}
		list, i, fault := checkIndex(target, idx, ex.Line)
		if fault != nil {
			return Value{}, fault
		}
		list.Elems[i] = v.Clone()
		return v, nil

	case *CallExpr:
		return ip.evalCall(ex, env)

	default:
		return Value{}, newFault(FaultUnknownOperator, e.Pos(),
			"unhandled expression %T", e)
	}
}

func (ip *Interpreter) evalUnary(ex *UnaryExpr, env *Env) (Value, *RuntimeError) {
	v, err := ip.eval(ex.Right, env)
	if err != nil {
		return Value{}, err
	}
	switch ex.Op {
	case MINUS:
		if v.Tag != VTNum {
			return Value{}, newFault(FaultTypeMismatch, ex.Line,
				"operand of '-' must be a number, got %s", v.TypeName())
		}
		return Num(-v.AsNum()), nil
	case BANG:
		return Bool(!v.Truthy()), nil
	default:
		return Value{}, newFault(FaultUnknownOperator, ex.Line,
			"unknown unary operator")
	}
}

func (ip *Interpreter) evalBinary(ex *BinaryExpr, env *Env) (Value, *RuntimeError) {
	left, err := ip.eval(ex.Left, env)
	if err != nil {
		return Value{}, err
	}
	right, err := ip.eval(ex.Right, env)
	if err != nil {
		return Value{}, err
	}

	switch ex.Op {
	case PLUS:
		if left.Tag == VTNum && right.Tag == VTNum {
			return Num(left.AsNum() + right.AsNum()), nil
		}
		// either side a string: stringify both and concatenate
		if left.Tag == VTStr || right.Tag == VTStr {
			return Str(left.Stringify() + right.Stringify()), nil
		}
		return Value{}, newFault(FaultTypeMismatch, ex.Line,
			"'+' needs numbers or a string operand, got %s and %s",
			left.TypeName(), right.TypeName())

	case MINUS, STAR, SLASH:
		a, b, fault := numOperands(left, right, ex.Line, ex.Op)
		if fault != nil {
			return Value{}, fault
		}
		switch ex.Op {
		case MINUS:
			return Num(a - b), nil
		case STAR:
			return Num(a * b), nil
		default:
			// IEEE-754 semantics: x/0 is +-Inf, 0/0 is NaN, never a fault
			return Num(a / b), nil
		}

	case LESS, LESS_EQ, GREATER, GREATER_EQ:
		a, b, fault := numOperands(left, right, ex.Line, ex.Op)
		if fault != nil {
			return Value{}, fault
		}
		switch ex.Op {
		case LESS:
			return Bool(a < b), nil
		case LESS_EQ:
			return Bool(a <= b), nil
		case GREATER:
			return Bool(a > b), nil
		default:
			return Bool(a >= b), nil
		}

	case EQ:
		return Bool(left.Equal(right)), nil
	case NEQ:
		return Bool(!left.Equal(right)), nil

	default:
		return Value{}, newFault(FaultUnknownOperator, ex.Line,
			"unknown binary operator")
	}
}

// evalLogical short-circuits and yields operand values, not coerced
// booleans: "a || b" is a when a is truthy, else b.
func (ip *Interpreter) evalLogical(ex *LogicalExpr, env *Env) (Value, *RuntimeError) {
	left, err := ip.eval(ex.Left, env)
	if err != nil {
		return Value{}, err
	}
	if ex.Op == OR_OR {
		if left.Truthy() {
			return left, nil
		}
	} else {
		if !left.Truthy() {
			return left, nil
		}
	}
	return ip.eval(ex.Right, env)
}

func (ip *Interpreter) evalCall(ex *CallExpr, env *Env) (Value, *RuntimeError) {
	callee, err := ip.eval(ex.Callee, env)
	if err != nil {
		return Value{}, err
	}
	args := make([]Value, 0, len(ex.Args))
	for _, a := range ex.Args {
		v, err := ip.eval(a, env)
		if err != nil {
			return Value{}, err
		}
		args = append(args, v)
	}

	switch callee.Tag {
	case VTFun:
		return ip.callFunction(callee.AsFun(), args, ex.Line)
	case VTBuiltin:
		name := callee.AsBuiltin()
		v, fault, found := ip.CallBuiltin(name, args, ex.Line)
		if !found {
			return Value{}, newFault(FaultUndefinedVariable, ex.Line,
				"unknown builtin %q", name)
		}
		return v, fault
	default:
		return Value{}, newFault(FaultTypeMismatch, ex.Line,
			"cannot call a %s value", callee.TypeName())
	}
}

// callFunction binds arguments into a fresh child of the function's
// captured environment, so closures see their declaration scope and not
// the caller's.
func (ip *Interpreter) callFunction(f *Fun, args []Value, line int) (Value, *RuntimeError) {
	if len(args) != len(f.Decl.Params) {
		return Value{}, newFault(FaultArityMismatch, line,
			"%s expects %d argument(s), got %d",
			f.Decl.Name, len(f.Decl.Params), len(args))
	}
	callEnv := NewEnv(f.Env)
	for i, p := range f.Decl.Params {
		callEnv.Define(p, args[i].Clone())
	}
	sig := ip.Interpret(f.Decl.Body, callEnv)
	switch sig.Kind {
	case SigReturn:
		return sig.Value, nil
	case SigFault:
		return Value{}, sig.Err
	default:
		return NilVal(), nil
	}
}

// ----- operand checks -----

func numOperands(l, r Value, line int, op TokenType) (float64, float64, *RuntimeError) {
	if l.Tag != VTNum || r.Tag != VTNum {
		return 0, 0, newFault(FaultTypeMismatch, line,
			"operands of %q must be numbers, got %s and %s",
			opLexeme(op), l.TypeName(), r.TypeName())
	}
	return l.AsNum(), r.AsNum(), nil
}

func opLexeme(op TokenType) string {
	switch op {
	case MINUS:
		return "-"
	case STAR:
		return "*"
	case SLASH:
		return "/"
	case LESS:
		return "<"
	case LESS_EQ:
		return "<="
	case GREATER:
		return ">"
	case GREATER_EQ:
		return ">="
	default:
		return "?"
	}
}

// checkIndex validates list indexing: the target must be a list, the index
// an integral number within [0, len). Negative indices are out of range.
func checkIndex(target, idx Value, line int) (*ListObject, int, *RuntimeError) {
	if target.Tag != VTList {
		return nil, 0, newFault(FaultTypeMismatch, line,
			"cannot index a %s value", target.TypeName())
	}
	if idx.Tag != VTNum {
		return nil, 0, newFault(FaultTypeMismatch, line,
			"list index must be a number, got %s", idx.TypeName())
	}
	f := idx.AsNum()
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, 0, newFault(FaultTypeMismatch, line,
			"list index must be an integer, got %s", stringifyNumber(f))
	}
	list := target.AsList()
	i := int(f)
	if i < 0 || i >= len(list.Elems) {
		return nil, 0, newFault(FaultIndexOutOfRange, line,
			"index %d out of range for list of length %d", i, len(list.Elems))
	}
	return list, i, nil
}
