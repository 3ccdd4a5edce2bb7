package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"nickandperla.net/linedsl/internal/config"
	"nickandperla.net/linedsl/pkg/linedsl"
)

// app holds the global flags and the streams every subcommand writes to.
type app struct {
	configPath string
	dbPath     string
	strict     bool
	debug      bool
	variables  []string
	functions  []string
	subscripts []string

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "linedsl",
		Short:         "Run and inspect line-oriented DSL scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("linedsl is a library; choose a subcommand (see --help)")
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML host configuration file")
	flags.StringVar(&a.dbPath, "db", "", "SQLite database for persisted subscripts")
	flags.BoolVar(&a.strict, "strict", false, "Treat unregistered names as errors")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug output")
	flags.StringSliceVar(&a.variables, "var", nil, "Register a traced variable (repeatable)")
	flags.StringSliceVar(&a.functions, "func", nil, "Register a traced function (repeatable)")
	flags.StringSliceVar(&a.subscripts, "sub", nil, "Declare a subscript (repeatable)")

	root.AddCommand(
		a.newCheckCmd(),
		a.newTraceCmd(),
		a.newPersistCmd(),
		a.newReplayCmd(),
		a.newReplCmd(),
		a.newWatchCmd(),
	)
	return root
}

// logger returns a debug logger on errOut, or nil when --debug is off.
func (a *app) logger() *slog.Logger {
	if !a.debug {
		return nil
	}
	return slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.TimeKey || attr.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return attr
		},
	}))
}

// newRuntime builds a runtime from the config file and flags. Every registered
// name traces its dispatches to w.
func (a *app) newRuntime(w io.Writer, opts ...linedsl.Option) (*linedsl.Runtime, error) {
	cfg := &config.Config{}
	if a.configPath != "" {
		var err error
		if cfg, err = config.Load(a.configPath); err != nil {
			return nil, err
		}
	}

	mode, err := cfg.PersistMode()
	if err != nil {
		return nil, err
	}

	base := []linedsl.Option{
		linedsl.WithDelimiters(cfg.Symbols()),
		linedsl.WithStrict(a.strict || cfg.Strict),
		linedsl.WithPersistMode(mode),
		linedsl.WithLogger(a.logger()),
	}
	db := a.dbPath
	if db == "" {
		db = cfg.Database
	}
	if db != "" {
		base = append(base, linedsl.WithSQLiteStore(db))
	}

	r, err := linedsl.New(append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	for _, name := range concat(cfg.Variables, a.variables) {
		r.AddVar(name, traceVariable(w, name))
	}
	for _, name := range concat(cfg.Functions, a.functions) {
		r.AddFunc(name, traceFunction(w, name))
	}
	for _, name := range concat(cfg.Subscripts, a.subscripts) {
		r.AddSub(name)
	}
	return r, nil
}

func traceVariable(w io.Writer, name string) func(string) error {
	return func(value string) error {
		_, err := fmt.Fprintf(w, "%s = %s\n", name, value)
		return err
	}
}

func traceFunction(w io.Writer, name string) func([]string) error {
	return func(params []string) error {
		_, err := fmt.Fprintf(w, "%s(%s)\n", name, strings.Join(params, ", "))
		return err
	}
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// runAll replays each named subscript in order.
func runAll(r *linedsl.Runtime, names []string) error {
	for _, name := range names {
		if err := r.Run(name); err != nil {
			return err
		}
	}
	return nil
}
