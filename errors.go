package miniscript

import (
	"fmt"
	"strings"
)

// FaultKind classifies runtime failures.
type FaultKind int

const (
	FaultUndefinedVariable FaultKind = iota
	FaultTypeMismatch
	FaultArityMismatch
	FaultIndexOutOfRange
	FaultAssertionFailed
	FaultUnknownOperator
	FaultStackExhausted
	FaultIO
	FaultImport
)

var faultNames = map[FaultKind]string{
	FaultUndefinedVariable: "UndefinedVariable",
	FaultTypeMismatch:      "TypeMismatch",
	FaultArityMismatch:     "ArityMismatch",
	FaultIndexOutOfRange:   "IndexOutOfRange",
	FaultAssertionFailed:   "AssertionFailed",
	FaultUnknownOperator:   "UnknownOperator",
	FaultStackExhausted:    "StackExhausted",
	FaultIO:                "IOError",
	FaultImport:            "ImportError",
}

func (k FaultKind) String() string {
	if s, ok := faultNames[k]; ok {
		return s
	}
	return "RuntimeError"
}

// RuntimeError is an evaluation fault. It aborts the run; there is no
// catch construct in the language.
type RuntimeError struct {
	Kind FaultKind
	Msg  string
	Line int
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("RUNTIME ERROR [%s] at line %d: %s", e.Kind, e.Line, e.Msg)
}

func newFault(kind FaultKind, line int, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Msg: fmt.Sprintf(format, args...), Line: line}
}

// ParseError is the first syntax error met by the parser; parsing stops
// there. Incomplete marks errors caused by running out of input, which the
// REPL uses to keep reading lines.
type ParseError struct {
	Line       int
	Msg        string
	Incomplete bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at line %d: %s", e.Line, e.Msg)
}

// IsIncomplete reports whether err is a ParseError caused by premature end
// of input.
func IsIncomplete(err error) bool {
	pe, ok := err.(*ParseError)
	return ok && pe.Incomplete
}

// WrapErrorWithSource decorates a lex/parse/runtime error with a labeled
// source snippet around the offending line. Unknown error types pass
// through unchanged.
func WrapErrorWithSource(err error, name, src string) error {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case *ParseError:
		return fmt.Errorf("%s\n%s", e.Error(), snippetAround(src, name, e.Line))
	case *RuntimeError:
		return fmt.Errorf("%s\n%s", e.Error(), snippetAround(src, name, e.Line))
	default:
		return err
	}
}

// snippetAround renders up to two lines of context before the target line,
// the target line itself, and a marker column, in the form
//
//	  --> script.ms:7
//	   5 | var n = 0;
//	   6 | while (n < 3) {
//	   7 |     n = n + "x";
func snippetAround(src, name string, line int) string {
	lines := strings.Split(src, "\n")
	if line < 1 || line > len(lines) {
		return fmt.Sprintf("  --> %s:%d", name, line)
	}
	first := line - 2
	if first < 1 {
		first = 1
	}
	var b strings.Builder
	fmt.Fprintf(&b, "  --> %s:%d\n", name, line)
	for n := first; n <= line; n++ {
		fmt.Fprintf(&b, "%4d | %s", n, strings.TrimRight(lines[n-1], "\r"))
		if n != line {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
