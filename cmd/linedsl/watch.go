package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func (a *app) newWatchCmd() *cobra.Command {
	var runs []string
	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-run a script every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.watch(cmd.Context(), args[0], runs)
		},
	}
	cmd.Flags().StringSliceVar(&runs, "run", nil, "Subscript to replay after each parse (repeatable)")
	return cmd
}

// watch traces path once, then again after every write, until ctx is done.
// The parent directory is watched so editors that replace the file are followed.
func (a *app) watch(ctx context.Context, path string, runs []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	a.traceOnce(abs, runs)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			a.traceOnce(abs, runs)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(a.errOut, "watch: %v\n", err)
		}
	}
}

// traceOnce runs the script in a fresh runtime and reports failures without stopping.
func (a *app) traceOnce(path string, runs []string) {
	fmt.Fprintf(a.out, "== %s\n", filepath.Base(path))
	r, err := a.newRuntime(a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	defer r.Close()

	if err := r.ParseFile(path); err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	if err := runAll(r, runs); err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
	}
}
