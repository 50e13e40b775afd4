// Command mcc parses scalar type names and C expressions.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/anvielabs/mcc/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one mcc invocation and returns its exit status.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("mcc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	logLevel := fs.String("log-level", "warn", "Log level: debug, info, warn or error")
	logFormat := fs.String("log-format", "text", "Log format: text or json")
	logFile := fs.String("log-file", "", "Append log records to this file instead of stderr")
	fs.Usage = func() { showUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return 1
	}

	level, err := logger.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	cfg := logger.DefaultConfig()
	cfg.Level = level
	cfg.Format = *logFormat
	cfg.Output = stderr
	cfg.LogFile = *logFile
	closer, err := logger.Init(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closer.Close()

	if fs.NArg() < 1 {
		showUsage(stderr)
		return 1
	}

	command := fs.Arg(0)
	rest := fs.Args()[1:]

	switch command {
	case "parse":
		return parseCommand(rest, stdout, stderr)
	case "eval":
		return evalCommand(rest, stdout, stderr)
	case "check":
		return checkCommand(rest, stdout, stderr)
	case "watch":
		return watchCommand(rest, stdout, stderr)
	case "version":
		return versionCommand(rest, stdout, stderr)
	case "help", "-h", "--help":
		showUsage(stdout)
		return 0
	}

	if len(rest) != 0 {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", command)
		showUsage(stderr)
		return 1
	}
	return loadCommand(command, stdout, stderr)
}
