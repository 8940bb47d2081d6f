package miniscript

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// File handles are OpaqueHandle values: shared between bindings, never
// copied, so closing a handle through one binding invalidates every other
// binding of it.

type fileData struct {
	f *os.File
	r *bufio.Reader
}

func wantFileArg(name string, args []Value, i, line int) (*Handle, *fileData, *RuntimeError) {
	if args[i].Tag != VTHandle {
		return nil, nil, newFault(FaultTypeMismatch, line,
			"%s: argument %d must be a file handle, got %s", name, i+1, args[i].TypeName())
	}
	h := args[i].AsHandle()
	if h.Kind != "file" {
		return nil, nil, newFault(FaultTypeMismatch, line,
			"%s: argument %d is a %s handle, not a file", name, i+1, h.Kind)
	}
	if h.Closed {
		return nil, nil, newFault(FaultIO, line, "%s: file handle is closed", name)
	}
	return h, h.Data.(*fileData), nil
}

func init() {
	registerBuiltin("fopen", 2, func(ip *Interpreter, args []Value, line int) (Value, *RuntimeError) {
		path, fault := wantStrArg("fopen", args, 0, line)
		if fault != nil {
			return Value{}, fault
		}
		mode, fault := wantStrArg("fopen", args, 1, line)
		if fault != nil {
			return Value{}, fault
		}
		var flags int
		switch mode {
		case "r":
			flags = os.O_RDONLY
		case "w":
			flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
		case "a":
			flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
		default:
			return Value{}, newFault(FaultIO, line,
				"fopen: invalid mode %q (want \"r\", \"w\" or \"a\")", mode)
		}
		f, err := os.OpenFile(path, flags, 0o644)
		if err != nil {
			return Value{}, newFault(FaultIO, line, "fopen: %v", err)
		}
		fd := &fileData{f: f, r: bufio.NewReader(f)}
		return HandleVal(&Handle{Kind: "file", Data: fd}), nil
	})

	registerBuiltin("fclose", 1, func(ip *Interpreter, args []Value, line int) (Value, *RuntimeError) {
		h, fd, fault := wantFileArg("fclose", args, 0, line)
		if fault != nil {
			return Value{}, fault
		}
		h.Closed = true
		if err := fd.f.Close(); err != nil {
			return Value{}, newFault(FaultIO, line, "fclose: %v", err)
		}
		return NilVal(), nil
	})

	registerBuiltin("fread", 1, func(ip *Interpreter, args []Value, line int) (Value, *RuntimeError) {
		_, fd, fault := wantFileArg("fread", args, 0, line)
		if fault != nil {
			return Value{}, fault
		}
		data, err := io.ReadAll(fd.r)
		if err != nil {
			return Value{}, newFault(FaultIO, line, "fread: %v", err)
		}
		return Str(string(data)), nil
	})

	registerBuiltin("freadline", 1, func(ip *Interpreter, args []Value, line int) (Value, *RuntimeError) {
		_, fd, fault := wantFileArg("freadline", args, 0, line)
		if fault != nil {
			return Value{}, fault
		}
		s, err := fd.r.ReadString('\n')
		if err == io.EOF && s == "" {
			return NilVal(), nil // end of file
		}
		if err != nil && err != io.EOF {
			return Value{}, newFault(FaultIO, line, "freadline: %v", err)
		}
		return Str(strings.TrimRight(s, "\r\n")), nil
	})

	registerBuiltin("fwrite", 2, func(ip *Interpreter, args []Value, line int) (Value, *RuntimeError) {
		_, fd, fault := wantFileArg("fwrite", args, 0, line)
		if fault != nil {
			return Value{}, fault
		}
		s, fault := wantStrArg("fwrite", args, 1, line)
		if fault != nil {
			return Value{}, fault
		}
		if _, err := fd.f.WriteString(s); err != nil {
			return Value{}, newFault(FaultIO, line, "fwrite: %v", err)
		}
		return NilVal(), nil
	})

	registerBuiltin("fwriteline", 2, func(ip *Interpreter, args []Value, line int) (Value, *RuntimeError) {
		_, fd, fault := wantFileArg("fwriteline", args, 0, line)
		if fault != nil {
			return Value{}, fault
		}
		s, fault := wantStrArg("fwriteline", args, 1, line)
		if fault != nil {
			return Value{}, fault
		}
		if _, err := fd.f.WriteString(s + "\n"); err != nil {
			return Value{}, newFault(FaultIO, line, "fwriteline: %v", err)
		}
		return NilVal(), nil
	})

	registerBuiltin("fexists", 1, func(ip *Interpreter, args []Value, line int) (Value, *RuntimeError) {
		path, fault := wantStrArg("fexists", args, 0, line)
		if fault != nil {
			return Value{}, fault
		}
		_, err := os.Stat(path)
		return Bool(err == nil), nil
	})
}
