package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/anvielabs/mcc/logger"
)

// watchFile checks path once, then again after every write or re-creation,
// until ctx is done. The parent directory is watched so editors that replace
// the file through a rename are still seen.
func watchFile(ctx context.Context, path string, report func(checkResult)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	target := filepath.Clean(path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	log := logger.With("file", path)
	report(checkFile(path))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			log.Debug("source changed", "op", ev.Op.String())
			report(checkFile(path))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)
		}
	}
}

func watchCommand(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("watch", "watch [-v] <file>", "Re-check a source file every time it is written", stderr)
	verbose := fs.Bool("v", false, "Print the statements after every successful check")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := watchFile(ctx, fs.Arg(0), func(r checkResult) {
		printResult(stdout, r, *verbose)
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
