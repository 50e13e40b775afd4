package main

import (
	"fmt"
	"io"

	"github.com/Masterminds/semver/v3"
)

const version = "0.4.0"

// checkVersion reports whether v satisfies the constraint, for example
// ">= 0.3, < 1".
func checkVersion(v, constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid constraint %q: %w", constraint, err)
	}
	sv, err := semver.NewVersion(v)
	if err != nil {
		return false, fmt.Errorf("invalid version %q: %w", v, err)
	}
	return c.Check(sv), nil
}

func versionCommand(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("version", "version [-require constraint]", "Print the mcc version", stderr)
	require := fs.String("require", "", "Fail unless the version satisfies this semver constraint")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return 1
	}

	fmt.Fprintf(stdout, "mcc %s\n", version)
	if *require == "" {
		return 0
	}

	ok, err := checkVersion(version, *require)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if !ok {
		fmt.Fprintf(stderr, "mcc %s does not satisfy %s\n", version, *require)
		return 1
	}
	return 0
}
