// Command rainbowc is a minimal, non-interactive runner for Rainbow
// expressions: one compile+run per invocation, source supplied by -e, -f,
// the remaining arguments, or stdin. A first argument that is not a
// command name is run as eval. There is no REPL loop, history, or tab-completion here — just
// the handful of commands a host needs to inspect a script from the
// outside: run it, print its inferred type, list its free variables, or
// print a registered function's signature.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"rainbow"
	"rainbow/internal/prelude"
	"rainbow/signature"
	"rainbow/stdvalue"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

func main() {
	os.Exit(run())
}

// run implements the CLI and returns a process exit code, rather than
// calling os.Exit directly, so the same logic can run inside the test
// binary under testscript.RunMain.
func run() int {
	if len(os.Args) < 2 {
		usage()
		return 1
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "eval":
		return runEval(args)
	case "type":
		return runType(args)
	case "vars":
		return runVars(args)
	case "func":
		return runFunc(args)
	case "help", "-h", "--help":
		usage()
		return 0
	default:
		return runEval(os.Args[1:])
	}
}

func usage() {
	fmt.Println(`rainbowc - single-shot Rainbow expression runner

USAGE:
  rainbowc eval [-e expr | -f file] [-set name=value]...   compile and run, printing the result
  rainbowc type [-e expr | -f file]                        compile and print the inferred output type
  rainbowc vars [-e expr | -f file]                         compile and print inferred free-variable types
  rainbowc func <name>                                      print a registered function's signature
  rainbowc [-e expr | -f file | expr]                      same as eval

Source with neither -e nor -f is taken from the remaining arguments, or
read from stdin when there are none.`)
}

func sourceFlags(fs *flag.FlagSet) (expr *string, file *string) {
	expr = fs.String("e", "", "expression source")
	file = fs.String("f", "", "source file path")
	return
}

func readSource(expr, file string, rest []string) (string, error) {
	switch {
	case expr != "":
		return expr, nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(b), nil
	case len(rest) > 0:
		return strings.Join(rest, " "), nil
	default:
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
}

type setList []string

func (s *setList) String() string { return strings.Join(*s, ",") }

func (s *setList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// parseBindings turns a sequence of "-set name=value" flags into input
// bindings, guessing the primitive kind of each value the same way a
// literal in source text would be typed: a valid float64 is a number, "true"
// or "false" is a bool, anything else is a bare string.
func parseBindings(assignments []string) (map[string]stdvalue.Value, error) {
	out := make(map[string]stdvalue.Value, len(assignments))
	for _, a := range assignments {
		name, value, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf("invalid -set %q: expected name=value", a)
		}
		switch {
		case value == "true":
			out[name] = stdvalue.NewBool(true)
		case value == "false":
			out[name] = stdvalue.NewBool(false)
		default:
			if n, err := strconv.ParseFloat(value, 64); err == nil {
				out[name] = stdvalue.NewNumber(n)
				continue
			}
			out[name] = stdvalue.NewString(value)
		}
	}
	return out, nil
}

func newNamespace() (*signature.Namespace[stdvalue.Value], error) {
	ns := signature.NewEmpty[stdvalue.Value]()
	if err := prelude.Install[stdvalue.Value](ns, stdvalue.Factory{}); err != nil {
		return nil, fmt.Errorf("installing prelude: %w", err)
	}
	return ns, nil
}

func runEval(args []string) int {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	exprFlag, fileFlag := sourceFlags(fs)
	var sets setList
	fs.Var(&sets, "set", "name=value input binding, repeatable")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	src, err := readSource(*exprFlag, *fileFlag, fs.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "rainbowc: %v\n", err)
		return 1
	}

	ns, err := newNamespace()
	if err != nil {
		fmt.Fprintf(os.Stderr, "rainbowc: %v\n", err)
		return 1
	}

	start := time.Now()
	script, err := rainbow.Compile[stdvalue.Value](ns, src)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rainbowc: %v\n", err)
		return 1
	}

	inputs, err := parseBindings(sets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rainbowc: %v\n", err)
		return 1
	}

	evalStart := time.Now()
	result, err := script.Eval(stdvalue.Factory{}, inputs)
	evalElapsed := time.Since(evalStart)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rainbowc: runtime error: %v\n", err)
		return 1
	}

	fmt.Println(result.String())
	fmt.Fprintf(os.Stderr, "compiled in %s, evaluated in %s\n", elapsed, evalElapsed)
	return 0
}

func runType(args []string) int {
	fs := flag.NewFlagSet("type", flag.ContinueOnError)
	exprFlag, fileFlag := sourceFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	src, err := readSource(*exprFlag, *fileFlag, fs.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "rainbowc: %v\n", err)
		return 1
	}

	ns, err := newNamespace()
	if err != nil {
		fmt.Fprintf(os.Stderr, "rainbowc: %v\n", err)
		return 1
	}

	script, err := rainbow.Compile[stdvalue.Value](ns, src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rainbowc: %v\n", err)
		return 1
	}
	result := script.TyperResult()

	out := result.Output.String()
	if isatty.IsTerminal(os.Stdout.Fd()) {
		out = "\x1b[36m" + out + "\x1b[0m"
	}
	fmt.Println(out)

	if !result.OK() {
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "type error: %v\n", e)
		}
		return 1
	}
	return 0
}

func runVars(args []string) int {
	fs := flag.NewFlagSet("vars", flag.ContinueOnError)
	exprFlag, fileFlag := sourceFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	src, err := readSource(*exprFlag, *fileFlag, fs.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "rainbowc: %v\n", err)
		return 1
	}

	ns, err := newNamespace()
	if err != nil {
		fmt.Fprintf(os.Stderr, "rainbowc: %v\n", err)
		return 1
	}

	script, err := rainbow.Compile[stdvalue.Value](ns, src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rainbowc: %v\n", err)
		return 1
	}
	inputs := script.TyperResult().Inputs

	names := make([]string, 0, len(inputs))
	for name := range inputs {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("%s binding(s)\n", humanize.Comma(int64(len(names))))
	for _, name := range names {
		fmt.Printf("  %s : %s\n", name, inputs[name].String())
	}
	return 0
}

func runFunc(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "rainbowc: func requires a function name")
		return 1
	}
	ns, err := newNamespace()
	if err != nil {
		fmt.Fprintf(os.Stderr, "rainbowc: %v\n", err)
		return 1
	}
	sig, ok := ns.GetSignatureByName(args[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "rainbowc: no such function %q\n", args[0])
		return 1
	}
	fmt.Println(sig.String())
	return 0
}
