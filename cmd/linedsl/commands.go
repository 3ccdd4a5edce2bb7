package main

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"nickandperla.net/linedsl/pkg/linedsl"
)

func (a *app) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Strictly parse scripts and dry-run every declared subscript",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				if err := a.checkFile(path); err != nil {
					fmt.Fprintf(a.out, "%s: %v\n", path, err)
					failed++
					continue
				}
				fmt.Fprintf(a.out, "%s: ok\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d file(s) failed", failed, len(args))
			}
			return nil
		},
	}
}

func (a *app) checkFile(path string) error {
	r, err := a.newRuntime(io.Discard, linedsl.WithStrict(true))
	if err != nil {
		return err
	}
	defer r.Close()

	if err := r.ParseFile(path); err != nil {
		return err
	}
	names := slices.Sorted(maps.Keys(r.Subscripts()))
	return runAll(r, names)
}

func (a *app) newTraceCmd() *cobra.Command {
	var runs []string
	cmd := &cobra.Command{
		Use:   "trace FILE",
		Short: "Parse a script, printing every dispatch, then replay subscripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.newRuntime(a.out)
			if err != nil {
				return err
			}
			defer r.Close()

			if err := r.ParseFile(args[0]); err != nil {
				return err
			}
			return runAll(r, runs)
		},
	}
	cmd.Flags().StringSliceVar(&runs, "run", nil, "Subscript to replay after parsing (repeatable)")
	return cmd
}

func (a *app) newPersistCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "persist FILE",
		Short: "Parse a script and store every declared subscript in --db",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.newRuntime(io.Discard)
			if err != nil {
				return err
			}
			defer r.Close()

			if err := r.ParseFile(args[0]); err != nil {
				return err
			}
			if err := r.Persist(); err != nil {
				if errors.Is(err, linedsl.ErrNoStore) {
					return errors.New("persist needs --db or a database in the config")
				}
				return err
			}
			fmt.Fprintf(a.out, "persisted %d subscript(s)\n", len(r.Subscripts()))
			return nil
		},
	}
}

func (a *app) newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay SUBSCRIPT...",
		Short: "Load subscripts from --db and run them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.newRuntime(a.out)
			if err != nil {
				return err
			}
			defer r.Close()

			if err := r.Load(args...); err != nil {
				if errors.Is(err, linedsl.ErrNoStore) {
					return errors.New("replay needs --db or a database in the config")
				}
				return err
			}
			return runAll(r, args)
		},
	}
}
