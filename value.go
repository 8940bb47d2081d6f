package miniscript

import (
	"math"
	"strconv"
	"strings"
)

// ValueTag discriminates runtime values.
type ValueTag int

const (
	VTNil ValueTag = iota
	VTBool
	VTNum
	VTStr
	VTList
	VTFun
	VTBuiltin
	VTHandle
)

var tagNames = map[ValueTag]string{
	VTNil:     "nil",
	VTBool:    "boolean",
	VTNum:     "number",
	VTStr:     "string",
	VTList:    "list",
	VTFun:     "function",
	VTBuiltin: "builtin",
	VTHandle:  "handle",
}

// Value is a tagged runtime value. Data holds, per tag: nothing (nil),
// bool, float64, string, *ListObject, *Fun, the builtin name (string), or
// *Handle.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// ListObject is the mutable backing store of a list value. Bindings that
// share a ListObject see index writes through each other; Clone severs the
// sharing.
type ListObject struct {
	Elems []Value
}

// Fun is a user-defined function: its declaration plus the environment
// captured at declaration time. The captured environment stays reachable
// for as long as the function value is.
type Fun struct {
	Decl *FunctionStmt
	Env  *Env
}

// Handle is an opaque external resource, e.g. an open file. Handles are
// shared rather than copied; closing one binding invalidates all of them.
type Handle struct {
	Kind   string
	Data   interface{}
	Closed bool
}

// constructors

func NilVal() Value             { return Value{Tag: VTNil} }
func Bool(b bool) Value         { return Value{Tag: VTBool, Data: b} }
func Num(f float64) Value       { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value        { return Value{Tag: VTStr, Data: s} }
func FunVal(f *Fun) Value       { return Value{Tag: VTFun, Data: f} }
func BuiltinRef(n string) Value { return Value{Tag: VTBuiltin, Data: n} }
func HandleVal(h *Handle) Value { return Value{Tag: VTHandle, Data: h} }
func List(elems ...Value) Value { return Value{Tag: VTList, Data: &ListObject{Elems: elems}} }

// accessors, valid only for the matching tag

func (v Value) AsBool() bool        { return v.Data.(bool) }
func (v Value) AsNum() float64      { return v.Data.(float64) }
func (v Value) AsStr() string       { return v.Data.(string) }
func (v Value) AsList() *ListObject { return v.Data.(*ListObject) }
func (v Value) AsFun() *Fun         { return v.Data.(*Fun) }
func (v Value) AsBuiltin() string   { return v.Data.(string) }
func (v Value) AsHandle() *Handle   { return v.Data.(*Handle) }

// TypeName reports the user-visible kind name.
func (v Value) TypeName() string { return tagNames[v.Tag] }

// Truthy: nil is false, booleans are themselves, numbers are true when
// nonzero, strings when non-empty; lists, functions, builtins and handles
// are always true.
func (v Value) Truthy() bool {
	switch v.Tag {
	case VTNil:
		return false
	case VTBool:
		return v.AsBool()
	case VTNum:
		return v.AsNum() != 0
	case VTStr:
		return v.AsStr() != ""
	default:
		return true
	}
}

// Clone performs the logical copy applied on assignment, parameter binding
// and list element read/write. Lists copy deeply; handles stay shared.
func (v Value) Clone() Value {
	if v.Tag != VTList {
		return v
	}
	src := v.AsList()
	elems := make([]Value, len(src.Elems))
	for i, e := range src.Elems {
		elems[i] = e.Clone()
	}
	return Value{Tag: VTList, Data: &ListObject{Elems: elems}}
}

// Equal is structural: numbers by value, strings by content, lists
// element-wise, nil only to nil. Functions compare by identity, builtins by
// name, handles never compare equal.
func (v Value) Equal(o Value) bool {
	if v.Tag != o.Tag {
		return false
	}
	switch v.Tag {
	case VTNil:
		return true
	case VTBool:
		return v.AsBool() == o.AsBool()
	case VTNum:
		return v.AsNum() == o.AsNum()
	case VTStr:
		return v.AsStr() == o.AsStr()
	case VTList:
		a, b := v.AsList(), o.AsList()
		if len(a.Elems) != len(b.Elems) {
			return false
		}
		for i := range a.Elems {
			if !a.Elems[i].Equal(b.Elems[i]) {
				return false
			}
		}
		return true
	case VTFun:
		return v.AsFun() == o.AsFun()
	case VTBuiltin:
		return v.AsBuiltin() == o.AsBuiltin()
	default:
		return false
	}
}

// Stringify renders a value the way print does: bare strings, "nil",
// "true"/"false", numbers without a trailing ".0" when integral.
func (v Value) Stringify() string {
	switch v.Tag {
	case VTNil:
		return "nil"
	case VTBool:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case VTNum:
		return stringifyNumber(v.AsNum())
	case VTStr:
		return v.AsStr()
	case VTList:
		var b strings.Builder
		b.WriteByte('[')
		for i, e := range v.AsList().Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(e.Stringify())
		}
		b.WriteByte(']')
		return b.String()
	case VTFun:
		return "<function " + v.AsFun().Decl.Name + ">"
	case VTBuiltin:
		return "<builtin " + v.AsBuiltin() + ">"
	case VTHandle:
		return "<" + v.AsHandle().Kind + " handle>"
	default:
		return "<unknown>"
	}
}

func stringifyNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == math.Trunc(f) && math.Abs(f) < 1e15:
		return strconv.FormatFloat(f, 'f', 0, 64)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}
