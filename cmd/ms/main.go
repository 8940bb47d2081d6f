package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	miniscript "github.com/dakoner/mini-script-sub001"
)

const (
	appName     = "ms"
	historyFile = ".ms_history"
	promptMain  = "ms> "
	promptCont  = "..> "
)

var banner = fmt.Sprintf("Mini Script %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", miniscript.Version)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl())
	case "version":
		fmt.Println(miniscript.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`Mini Script %s (built %s)

Usage:
  %s run <file.ms> [args...]   Run a script.
  %s repl                      Start the REPL.
  %s version                   Print the version.

`, miniscript.Version, miniscript.BuildDate, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.ms> [args...]\n", appName)
		return 2
	}
	file := args[0]

	ip := miniscript.NewInterpreter()
	env := miniscript.NewEnv(ip.Globals)
	env.Define("argv", argvList(args[1:]))

	if err := ip.RunFile(file, env); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	return 0
}

func argvList(xs []string) miniscript.Value {
	vals := make([]miniscript.Value, 0, len(xs))
	for _, s := range xs {
		vals = append(vals, miniscript.Str(s))
	}
	return miniscript.List(vals...)
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl() int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := miniscript.NewInterpreter()
	env := miniscript.NewEnv(ip.Globals)

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if strings.EqualFold(trimmed, ":quit") {
				return 0
			}
			fmt.Println("unknown command. Type :quit to exit.")
			continue
		}

		evalLine(ip, env, code)
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	return 0
}

// evalLine runs one REPL input. A lone expression statement gets its value
// echoed; anything else just executes.
func evalLine(ip *miniscript.Interpreter, env *miniscript.Env, code string) {
	// a trailing semicolon is optional at the prompt
	probe := code
	if !strings.HasSuffix(strings.TrimSpace(probe), ";") && !strings.HasSuffix(strings.TrimSpace(probe), "}") {
		probe += ";"
	}
	stmts, err := miniscript.Parse(probe)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(miniscript.WrapErrorWithSource(err, "repl", probe).Error()))
		return
	}
	if len(stmts) == 1 {
		if es, isExpr := stmts[0].(*miniscript.ExprStmt); isExpr {
			v, fault := ip.Evaluate(es.Expr, env)
			if fault != nil {
				fmt.Fprintln(os.Stderr, red(fault.Error()))
				return
			}
			fmt.Println(blue(miniscript.FormatValue(v)))
			return
		}
	}
	sig := ip.Interpret(stmts, env)
	if sig.Kind == miniscript.SigFault {
		fmt.Fprintln(os.Stderr, red(sig.Err.Error()))
	}
}

// readByParseProbe accumulates lines until the input parses or fails with a
// hard (non-incomplete) error, so blocks can span prompts.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, perr := miniscript.Parse(src + ";"); perr == nil {
			return src, true
		}
		if _, perr := miniscript.Parse(src); perr == nil || !miniscript.IsIncomplete(perr) {
			return src, true
		}
	}
}
