package miniscript

import (
	"strings"
	"time"
)

// Time values are plain numbers: seconds since the Unix epoch, fractional
// part included. Formatting accepts strftime-style layouts.

func timeFromNum(f float64) time.Time {
	sec := int64(f)
	nsec := int64((f - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

// strftimeLayout translates the strftime directives the catalog documents
// into a Go reference layout. Unrecognized directives pass through
// literally.
func strftimeLayout(f string) string {
	var b strings.Builder
	for i := 0; i < len(f); i++ {
		if f[i] != '%' || i+1 >= len(f) {
			b.WriteByte(f[i])
			continue
		}
		i++
		switch f[i] {
		case 'Y':
			b.WriteString("2006")
		case 'y':
			b.WriteString("06")
		case 'm':
			b.WriteString("01")
		case 'd':
			b.WriteString("02")
		case 'H':
			b.WriteString("15")
		case 'I':
			b.WriteString("03")
		case 'M':
			b.WriteString("04")
		case 'S':
			b.WriteString("05")
		case 'b':
			b.WriteString("Jan")
		case 'B':
			b.WriteString("January")
		case 'a':
			b.WriteString("Mon")
		case 'A':
			b.WriteString("Monday")
		case 'p':
			b.WriteString("PM")
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte('%')
			b.WriteByte(f[i])
		}
	}
	return b.String()
}

func timeArg(name string, args []Value, i, line int) (time.Time, *RuntimeError) {
	f, fault := wantNumArg(name, args, i, line)
	if fault != nil {
		return time.Time{}, fault
	}
	return timeFromNum(f), nil
}

func init() {
	registerBuiltin("time_now", 0, func(ip *Interpreter, args []Value, line int) (Value, *RuntimeError) {
		return Num(float64(time.Now().UnixNano()) / 1e9), nil
	})

	registerBuiltin("time_format", 2, func(ip *Interpreter, args []Value, line int) (Value, *RuntimeError) {
		t, fault := timeArg("time_format", args, 0, line)
		if fault != nil {
			return Value{}, fault
		}
		layout, fault := wantStrArg("time_format", args, 1, line)
		if fault != nil {
			return Value{}, fault
		}
		return Str(t.Format(strftimeLayout(layout))), nil
	})

	registerBuiltin("time_parse", 2, func(ip *Interpreter, args []Value, line int) (Value, *RuntimeError) {
		s, fault := wantStrArg("time_parse", args, 0, line)
		if fault != nil {
			return Value{}, fault
		}
		layout, fault := wantStrArg("time_parse", args, 1, line)
		if fault != nil {
			return Value{}, fault
		}
		t, err := time.ParseInLocation(strftimeLayout(layout), s, time.Local)
		if err != nil {
			return Value{}, newFault(FaultIO, line, "time_parse: %v", err)
		}
		return Num(float64(t.UnixNano()) / 1e9), nil
	})

	registerBuiltin("time_diff", 2, func(ip *Interpreter, args []Value, line int) (Value, *RuntimeError) {
		a, fault := wantNumArg("time_diff", args, 0, line)
		if fault != nil {
			return Value{}, fault
		}
		b, fault := wantNumArg("time_diff", args, 1, line)
		if fault != nil {
			return Value{}, fault
		}
		return Num(a - b), nil
	})

	registerBuiltin("time_add", 2, func(ip *Interpreter, args []Value, line int) (Value, *RuntimeError) {
		t, fault := wantNumArg("time_add", args, 0, line)
		if fault != nil {
			return Value{}, fault
		}
		secs, fault := wantNumArg("time_add", args, 1, line)
		if fault != nil {
			return Value{}, fault
		}
		return Num(t + secs), nil
	})

	fields := map[string]func(time.Time) int{
		"time_year":    func(t time.Time) int { return t.Year() },
		"time_month":   func(t time.Time) int { return int(t.Month()) },
		"time_day":     func(t time.Time) int { return t.Day() },
		"time_hour":    func(t time.Time) int { return t.Hour() },
		"time_minute":  func(t time.Time) int { return t.Minute() },
		"time_second":  func(t time.Time) int { return t.Second() },
		"time_weekday": func(t time.Time) int { return int(t.Weekday()) }, // Sunday = 0
	}
	for name, get := range fields {
		name, get := name, get
		registerBuiltin(name, 1, func(ip *Interpreter, args []Value, line int) (Value, *RuntimeError) {
			t, fault := timeArg(name, args, 0, line)
			if fault != nil {
				return Value{}, fault
			}
			return Num(float64(get(t))), nil
		})
	}

	registerBuiltin("sleep", 1, func(ip *Interpreter, args []Value, line int) (Value, *RuntimeError) {
		secs, fault := wantNumArg("sleep", args, 0, line)
		if fault != nil {
			return Value{}, fault
		}
		if secs > 0 {
			time.Sleep(time.Duration(secs * float64(time.Second)))
		}
		return NilVal(), nil
	})
}
