package main

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/anvielabs/mcc/logger"
	"github.com/anvielabs/mcc/mc"
)

// checkResult is the outcome of parsing one file as a program.
type checkResult struct {
	Path       string
	Statements int
	Tree       string // s-expression of the program, set when parsing succeeded
	Err        error
}

func defaultJobs() int {
	return max(1, runtime.NumCPU())
}

// checkFile loads and parses a single file. Failures are reported in the
// result, never returned.
func checkFile(path string) checkResult {
	r := checkResult{Path: path}

	c, err := mc.LoadFile(path)
	if err != nil {
		r.Err = err
		return r
	}

	p := mc.NewParser(c)
	prog, ok := p.ParseProgram()
	if !ok {
		r.Err = p.Err()
		return r
	}
	defer p.DestroyProgram(prog)

	r.Statements = len(prog.Statements)
	r.Tree = prog.ToSExpr()
	return r
}

// checkFiles parses every path with at most jobs files in flight. Results
// keep the order of paths. Only cancellation of ctx is returned as an error.
func checkFiles(ctx context.Context, paths []string, jobs int) ([]checkResult, error) {
	results := make([]checkResult, len(paths))
	semaphore := make(chan struct{}, max(1, jobs))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			select {
			case semaphore <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-semaphore }()
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i] = checkFile(path)
			if results[i].Err != nil {
				logger.Info("check failed", "file", path, "error", results[i].Err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
