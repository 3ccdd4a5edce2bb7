// Package linedsl provides the public API for the linedsl interpreter.
package linedsl

import (
	"log/slog"

	"nickandperla.net/linedsl/internal/command"
	"nickandperla.net/linedsl/internal/eval"
	"nickandperla.net/linedsl/internal/store"
	"nickandperla.net/linedsl/internal/token"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithDelimiters sets the grammar symbols. Empty symbols fall back to the defaults.
func WithDelimiters(d Delimiters) Option {
	return func(r *Runtime) {
		r.delims = d.WithDefaults()
	}
}

// WithSymbols sets all seven grammar symbols in constructor order.
func WithSymbols(assign, bracketStart, bracketEnd, subscriptStart, subscriptEnd, reference, comment string) Option {
	return WithDelimiters(Delimiters{
		Assign:         assign,
		BracketStart:   bracketStart,
		BracketEnd:     bracketEnd,
		SubscriptStart: subscriptStart,
		SubscriptEnd:   subscriptEnd,
		Reference:      reference,
		Comment:        comment,
	})
}

// WithStrict makes dispatch to an unregistered name an error.
func WithStrict(strict bool) Option {
	return func(r *Runtime) {
		r.strict = strict
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = l
	}
}

// WithSQLiteStore configures SQLite persistence at the given path.
func WithSQLiteStore(path string) Option {
	return func(r *Runtime) {
		s, err := store.NewSQLite(path)
		if err != nil {
			r.storeErr = err
			return
		}
		r.setStore(s)
	}
}

// WithMemoryStore configures an in-memory store (for testing).
func WithMemoryStore() Option {
	return func(r *Runtime) {
		r.setStore(store.NewMemory())
	}
}

// WithStore configures a custom store.
func WithStore(s Store) Option {
	return func(r *Runtime) {
		r.setStore(s)
	}
}

// setStore replaces the configured store, closing the one it replaces.
func (r *Runtime) setStore(s Store) {
	if r.store != nil && r.store != s {
		r.store.Close()
	}
	r.store = s
}

// WithPersistMode sets the persistence mode.
func WithPersistMode(mode PersistMode) Option {
	return func(r *Runtime) {
		r.persistMode = mode
	}
}

// Store interface for custom stores.
type Store = eval.Store

// PersistMode controls when subscripts are persisted.
type PersistMode = eval.PersistMode

// Persist mode constants.
const (
	PersistOnDemand = eval.PersistOnDemand
	PersistAlways   = eval.PersistAlways
	PersistNever    = eval.PersistNever
)

// ParsePersistMode parses a string into a PersistMode.
func ParsePersistMode(s string) (PersistMode, bool) {
	return eval.ParsePersistMode(s)
}

// Delimiters is the set of grammar symbols.
type Delimiters = token.Delimiters

// DefaultDelimiters returns `=`, `(`, `)`, `{`, `}`, `%`, `#`.
func DefaultDelimiters() Delimiters {
	return token.Default()
}

// Kind tags a command as a variable or a function.
type Kind = token.Kind

// Command kinds.
const (
	Variable = token.Variable
	Function = token.Function
)

// Command is a parsed script line.
type Command = command.Command

// Defined is a registered name and its handler.
type Defined = command.Defined

// Error is a structured runtime failure.
type Error = eval.Error

// LineError attaches a script line number to a parse failure.
type LineError = eval.LineError

// Error kinds.
var (
	ErrUndeclaredSubscript = eval.ErrUndeclaredSubscript
	ErrUnregisteredCommand = eval.ErrUnregisteredCommand
	ErrUnresolvedVariable  = eval.ErrUnresolvedVariable
	ErrCyclicVariable      = eval.ErrCyclicVariable
	ErrNoStore             = eval.ErrNoStore
	ErrInvalidDelimiters   = token.ErrInvalidDelimiters
)
