package miniscript

import (
	"strconv"
	"strings"
)

// FormatValue renders a value for the REPL: strings quoted, lists
// bracketed with quoted string elements, everything else as print shows
// it. print itself uses Stringify, which leaves strings bare.
func FormatValue(v Value) string {
	switch v.Tag {
	case VTStr:
		return strconv.Quote(v.AsStr())
	case VTList:
		var b strings.Builder
		b.WriteByte('[')
		for i, e := range v.AsList().Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(FormatValue(e))
		}
		b.WriteByte(']')
		return b.String()
	default:
		return v.Stringify()
	}
}
