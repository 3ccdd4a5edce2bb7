package linedsl

import (
	"io"
	"log/slog"
	"os"

	"nickandperla.net/linedsl/internal/command"
	"nickandperla.net/linedsl/internal/eval"
	"nickandperla.net/linedsl/internal/scanner"
	"nickandperla.net/linedsl/internal/token"
)

// Runtime is the linedsl interpreter runtime.
type Runtime struct {
	evaluator   *eval.Evaluator
	delims      token.Delimiters
	strict      bool
	store       eval.Store
	storeErr    error
	persistMode eval.PersistMode
	logger      *slog.Logger
}

// New creates a new linedsl runtime with the given options.
func New(opts ...Option) (*Runtime, error) {
	r := &Runtime{
		delims: token.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}
	if r.storeErr != nil {
		if r.store != nil {
			r.store.Close()
		}
		return nil, r.storeErr
	}

	// Build evaluator options
	evalOpts := []eval.Option{
		eval.WithDelimiters(r.delims),
		eval.WithStrict(r.strict),
		eval.WithPersistMode(r.persistMode),
	}
	if r.store != nil {
		evalOpts = append(evalOpts, eval.WithStore(r.store))
	}
	if r.logger != nil {
		evalOpts = append(evalOpts, eval.WithLogger(r.logger))
	}

	e, err := eval.New(evalOpts...)
	if err != nil {
		if r.store != nil {
			r.store.Close()
		}
		return nil, err
	}
	r.evaluator = e
	return r, nil
}

// Clear resets the execution history and parser state.
func (r *Runtime) Clear() *Runtime {
	r.evaluator.Clear()
	return r
}

// Parse processes every line in order, then stops parsing.
func (r *Runtime) Parse(lines []string) error {
	return r.evaluator.Parse(lines)
}

// ParseReader parses the lines read from reader.
func (r *Runtime) ParseReader(reader io.Reader) error {
	lines, err := scanner.ReadLines(reader)
	if err != nil {
		return err
	}
	return r.Parse(lines)
}

// ParseFile parses a script file. I/O errors are returned unchanged.
func (r *Runtime) ParseFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.ParseReader(f)
}

// ParseLine processes a single line without ending the parse.
func (r *Runtime) ParseLine(line string) error {
	return r.evaluator.ParseLine(line)
}

// StopParse signals that the current input has ended and returns the parser to idle.
func (r *Runtime) StopParse() error {
	return r.evaluator.StopParse()
}

// Build parses a line into a command without executing or recording it.
func (r *Runtime) Build(line string) (Command, bool) {
	return scanner.Build(line, r.delims)
}

// AddVar registers a variable handler, overwriting any command with the same name.
// A nil fn is ignored.
func (r *Runtime) AddVar(name string, fn func(value string) error) *Runtime {
	r.evaluator.Define(name, command.VariableFunc(fn))
	return r
}

// RemoveVar removes name only if it is registered as a variable.
func (r *Runtime) RemoveVar(name string) *Runtime {
	r.evaluator.Undefine(name, token.Variable)
	return r
}

// AddFunc registers a function handler, overwriting any command with the same name.
// A nil fn is ignored.
func (r *Runtime) AddFunc(name string, fn func(params []string) error) *Runtime {
	r.evaluator.Define(name, command.FunctionFunc(fn))
	return r
}

// RemoveFunc removes name only if it is registered as a function.
func (r *Runtime) RemoveFunc(name string) *Runtime {
	r.evaluator.Undefine(name, token.Function)
	return r
}

// AddSub declares an empty subscript.
func (r *Runtime) AddSub(name string) *Runtime {
	r.evaluator.Declare(name)
	return r
}

// RemoveSub undeclares a subscript.
func (r *Runtime) RemoveSub(name string) *Runtime {
	r.evaluator.Undeclare(name)
	return r
}

// Run replays the commands recorded for a subscript.
func (r *Runtime) Run(name string) error {
	return r.evaluator.Run(name)
}

// Persist saves subscripts to the store (all declared ones when no name is given).
func (r *Runtime) Persist(names ...string) error {
	return r.evaluator.Persist(names...)
}

// Load declares subscripts from the store (all stored ones when no name is given).
func (r *Runtime) Load(names ...string) error {
	return r.evaluator.Load(names...)
}

// Delimiters returns the grammar symbols.
func (r *Runtime) Delimiters() Delimiters {
	return r.evaluator.Delimiters()
}

// Strict reports whether unregistered names are errors.
func (r *Runtime) Strict() bool {
	return r.evaluator.Strict()
}

// Commands returns a copy of the registered commands.
func (r *Runtime) Commands() map[string]Defined {
	return r.evaluator.Registry().Snapshot()
}

// Subscripts returns a copy of every declared subscript and its recorded commands.
func (r *Runtime) Subscripts() map[string][]Command {
	subs := r.evaluator.Subscripts()
	out := make(map[string][]Command)
	for _, name := range subs.Names() {
		out[name], _ = subs.Get(name)
	}
	return out
}

// History returns the most recent top-level command per name, in first-seen order.
func (r *Runtime) History() []Command {
	return r.evaluator.History().Commands()
}

// State returns the subscript being recorded, if any.
func (r *Runtime) State() (string, bool) {
	return r.evaluator.State()
}

// Close releases resources. Calling it more than once is safe.
func (r *Runtime) Close() error {
	r.store = nil
	return r.evaluator.CloseStore()
}
