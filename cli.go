package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/anvielabs/mcc/logger"
	"github.com/anvielabs/mcc/mc"
)

func showUsage(w io.Writer) {
	fmt.Fprintf(w, `mcc - scalar type and C expression parser

Usage:
    mcc [log flags] <file>
    mcc [log flags] <command> [arguments]

Commands:
    <file>          Parse a source file and report whether it is a program
    parse <expr>    Print the syntax tree of an expression
    eval <expr>     Evaluate an expression
    check <file>... Parse several source files concurrently
    watch <file>    Re-check a source file every time it is written
    version         Print the mcc version
    help            Show this help message

Log flags:
    -log-level debug|info|warn|error
    -log-format text|json
    -log-file <path>

Examples:
    mcc prog.mc
    mcc parse '(u32){1, 2}[0]'
    mcc eval '100 / 1000.f'
    mcc check -j 4 a.mc b.mc

Use "mcc <command> -h" for more information about a command.
`)
}

func newFlagSet(name, usage, summary string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: mcc %s\n", usage)
		fmt.Fprintf(stderr, "%s\n\n", summary)
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	return fs
}

// loadCommand reads a file and reports whether it parses as a program. The
// exit status only reflects whether the file could be loaded.
func loadCommand(filename string, stdout, stderr io.Writer) int {
	c, err := mc.LoadFile(filename)
	if err != nil {
		logger.Error("failed to init parser", "file", filename, "error", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	p := mc.NewParser(c)
	prog, ok := p.ParseProgram()
	fmt.Fprintf(stdout, "program = %t\n", ok)
	p.DestroyProgram(prog)
	return 0
}

func parseCommand(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("parse", "parse [-max-depth n] <expr>", "Print the syntax tree of an expression", stderr)
	maxDepth := fs.Int("max-depth", mc.DefaultMaxDepth, "Maximum nesting of grammar tiers")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "Error: expected exactly one expression argument\n")
		fs.Usage()
		return 1
	}

	e, err := mc.Parse(fs.Arg(0), mc.WithMaxDepth(*maxDepth))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer mc.Destroy(e)

	fmt.Fprintln(stdout, mc.ToSExpr(e))
	return 0
}

func evalCommand(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("eval", "eval [-ast] <expr>", "Evaluate an expression", stderr)
	showAST := fs.Bool("ast", false, "Print the syntax tree before the value")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "Error: expected exactly one expression argument\n")
		fs.Usage()
		return 1
	}

	e, err := mc.Parse(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer mc.Destroy(e)

	if *showAST {
		fmt.Fprintf(stdout, "AST: %s\n", mc.ToSExpr(e))
	}
	fmt.Fprintln(stdout, formatValue(mc.Eval(e)))
	return 0
}

// formatValue prints integral values without an exponent.
func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func checkCommand(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("check", "check [-j n] [-v] <file>...", "Parse several source files concurrently", stderr)
	jobs := fs.Int("j", defaultJobs(), "Number of files parsed at once")
	verbose := fs.Bool("v", false, "Print the statements of every file that parses")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() == 0 {
		fmt.Fprintf(stderr, "Error: expected at least one file argument\n")
		fs.Usage()
		return 1
	}

	results, err := checkFiles(context.Background(), fs.Args(), *jobs)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	status := 0
	for _, r := range results {
		printResult(stdout, r, *verbose)
		if r.Err != nil {
			status = 1
		}
	}
	return status
}

func printResult(w io.Writer, r checkResult, verbose bool) {
	var serr *mc.SyntaxError
	switch {
	case r.Err == nil:
		fmt.Fprintf(w, "%s: ok (%d statements)\n", r.Path, r.Statements)
		if verbose && r.Tree != "" {
			fmt.Fprintln(w, r.Tree)
		}
	case errors.As(r.Err, &serr):
		fmt.Fprintf(w, "%s:%d: %v\n", r.Path, serr.Offset, r.Err)
	default:
		fmt.Fprintf(w, "%s: %v\n", r.Path, r.Err)
	}
}
