package main

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"nickandperla.net/linedsl/pkg/linedsl"
)

func (a *app) newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Feed lines to the interpreter interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.newRuntime(a.out)
			if err != nil {
				return err
			}
			defer r.Close()
			return a.runREPL(r, isTerminal(a.in))
		},
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printBanner(w io.Writer) {
	fmt.Fprintln(w, "linedsl REPL (Ctrl+D to exit)")
	fmt.Fprintln(w, "  :run NAME   replay a subscript")
	fmt.Fprintln(w, "  :subs       list subscripts")
	fmt.Fprintln(w, "  :history    show the latest value of each name")
	fmt.Fprintln(w, "  :clear      forget history")
	fmt.Fprintln(w, "  :quit       exit")
	fmt.Fprintln(w)
}

// runREPL reads lines until EOF or :quit. Prompts are only printed when interactive.
func (a *app) runREPL(r *linedsl.Runtime, interactive bool) error {
	if interactive {
		printBanner(a.out)
	}

	sc := bufio.NewScanner(a.in)
	for {
		if interactive {
			fmt.Fprint(a.out, prompt(r))
		}
		if !sc.Scan() {
			break
		}

		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, ":") {
			if quit := a.meta(r, line); quit {
				break
			}
			continue
		}

		if err := r.ParseLine(line); err != nil {
			fmt.Fprintf(a.out, "Error: %v\n", err)
		}
	}
	if interactive {
		fmt.Fprintln(a.out)
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return r.StopParse()
}

func prompt(r *linedsl.Runtime) string {
	if name, recording := r.State(); recording {
		return name + "... "
	}
	return ">>> "
}

// meta handles a :command and reports whether the REPL should exit.
func (a *app) meta(r *linedsl.Runtime, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q":
		return true

	case ":run":
		if len(fields) < 2 {
			fmt.Fprintln(a.out, "usage: :run NAME...")
			return false
		}
		if err := runAll(r, fields[1:]); err != nil {
			fmt.Fprintf(a.out, "Error: %v\n", err)
		}

	case ":subs":
		subs := r.Subscripts()
		for _, name := range slices.Sorted(maps.Keys(subs)) {
			fmt.Fprintf(a.out, "%s (%d)\n", name, len(subs[name]))
		}

	case ":history":
		for _, cmd := range r.History() {
			fmt.Fprintln(a.out, cmd.Line(r.Delimiters()))
		}

	case ":clear":
		r.Clear()

	default:
		fmt.Fprintf(a.out, "unknown command %s\n", fields[0])
	}
	return false
}
