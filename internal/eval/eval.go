// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package eval implements the line parser, resolver and executor.
package eval

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"nickandperla.net/linedsl/internal/command"
	"nickandperla.net/linedsl/internal/scanner"
	"nickandperla.net/linedsl/internal/token"
)

// Store is the interface for subscript persistence.
type Store interface {
	// GetSubscript returns the stored body of name; ok is false if it was never stored.
	GetSubscript(name string) (body []command.Command, ok bool, err error)
	// PutSubscript stores body under name, overwriting if it exists.
	PutSubscript(name string, body []command.Command) error
	// DeleteSubscript removes name.
	DeleteSubscript(name string) error
	// ListSubscripts returns every stored name.
	ListSubscripts() ([]string, error)
	// Close releases resources.
	Close() error
}

// Evaluator parses script lines and dispatches them to registered handlers.
// It is not safe for concurrent use.
type Evaluator struct {
	delims      token.Delimiters
	strict      bool
	registry    *Registry
	subscripts  *Subscripts
	history     *History
	recording   string // subscript being recorded
	inSubscript bool
	store       Store
	persistMode PersistMode
	logger      *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithDelimiters sets the grammar symbols.
func WithDelimiters(d token.Delimiters) Option {
	return func(e *Evaluator) { e.delims = d }
}

// WithStrict makes dispatch to an unregistered name an error.
func WithStrict(strict bool) Option {
	return func(e *Evaluator) { e.strict = strict }
}

// WithStore sets the persistence store.
func WithStore(s Store) Option {
	return func(e *Evaluator) { e.store = s }
}

// WithPersistMode sets the persistence mode.
func WithPersistMode(mode PersistMode) Option {
	return func(e *Evaluator) { e.persistMode = mode }
}

// WithLogger sets the debug logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) (*Evaluator, error) {
	e := &Evaluator{
		delims:     token.Default(),
		registry:   NewRegistry(),
		subscripts: NewSubscripts(),
		history:    NewHistory(),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.delims.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Delimiters returns the grammar symbols.
func (e *Evaluator) Delimiters() token.Delimiters { return e.delims }

// Strict reports whether unregistered names are errors.
func (e *Evaluator) Strict() bool { return e.strict }

// Registry returns the command registry.
func (e *Evaluator) Registry() *Registry { return e.registry }

// Subscripts returns the subscript table.
func (e *Evaluator) Subscripts() *Subscripts { return e.subscripts }

// History returns the execution history.
func (e *Evaluator) History() *History { return e.history }

// State returns the subscript being recorded, if any.
func (e *Evaluator) State() (string, bool) {
	return e.recording, e.inSubscript
}

// Clear resets the execution history and the parser state.
// Registered commands and declared subscripts are kept.
func (e *Evaluator) Clear() {
	e.history = NewHistory()
	e.recording, e.inSubscript = "", false
}

// StopParse forces the parser back to idle. An unterminated block is closed as if
// its end marker had been read.
func (e *Evaluator) StopParse() error {
	if !e.inSubscript {
		return nil
	}
	name := e.recording
	e.logger.Debug("closing unterminated subscript", "subscript", name)
	e.recording, e.inSubscript = "", false
	return e.autoPersist(name)
}

// Parse feeds every line through ParseLine, then stops parsing.
// Failures carry the 1-based line number.
func (e *Evaluator) Parse(lines []string) error {
	for i, line := range lines {
		if err := e.ParseLine(line); err != nil {
			e.recording, e.inSubscript = "", false
			return &LineError{Line: i + 1, Err: err}
		}
	}
	return e.StopParse()
}

// ParseLine processes one line: it is either executed now or recorded into the
// subscript currently open.
func (e *Evaluator) ParseLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || e.delims.IsComment(line) {
		return nil
	}

	if e.inSubscript {
		return e.recordLine(line)
	}

	if e.delims.IsBracketed(line) {
		return e.executeLine(line)
	}

	if name, ok := e.delims.OpensSubscript(line); ok {
		// Undeclared blocks are skipped without error.
		if !e.subscripts.Has(name) {
			e.logger.Debug("ignoring undeclared subscript", "subscript", name)
			return nil
		}
		e.logger.Debug("recording subscript", "subscript", name)
		e.recording, e.inSubscript = name, true
		return nil
	}

	return e.executeLine(line)
}

func (e *Evaluator) executeLine(line string) error {
	cmd, ok := scanner.Build(line, e.delims)
	if !ok {
		e.logger.Debug("dropping malformed line", "line", line)
		return nil
	}
	e.history.Put(cmd)
	return e.Execute(cmd)
}

func (e *Evaluator) recordLine(line string) error {
	// Any line containing the end marker closes the block.
	if e.delims.ClosesSubscript(line) {
		name := e.recording
		e.logger.Debug("closed subscript", "subscript", name)
		e.recording, e.inSubscript = "", false
		return e.autoPersist(name)
	}

	cmd, ok := scanner.Build(line, e.delims)
	if !ok {
		e.logger.Debug("dropping malformed line", "line", line, "subscript", e.recording)
		return nil
	}
	e.subscripts.Append(e.recording, cmd)
	return nil
}

// Execute dispatches cmd to the handler registered under its name.
// Variable handlers receive the resolved value; function handlers receive the raw parameters.
func (e *Evaluator) Execute(cmd command.Command) error {
	def, ok := e.registry.Get(cmd.Name)
	if !ok {
		if e.strict {
			return &Error{
				Kind:       ErrUnregisteredCommand,
				Name:       cmd.Name,
				Suggestion: closestName(cmd.Name, e.registry.Names()),
			}
		}
		e.logger.Debug("no handler registered", "name", cmd.Name)
		return nil
	}

	switch h := def.Handler.(type) {
	case command.VariableFunc:
		value, err := e.Resolve(cmd)
		if err != nil {
			return err
		}
		e.logger.Debug("set variable", "name", cmd.Name, "value", value)
		return h(value)
	case command.FunctionFunc:
		e.logger.Debug("call function", "name", cmd.Name, "params", cmd.Params)
		return h(slices.Clone(cmd.Params))
	}
	return fmt.Errorf("unsupported handler %T for %s", def.Handler, cmd.Name)
}

// Run replays the commands recorded for name, in order.
func (e *Evaluator) Run(name string) error {
	body, ok := e.subscripts.Get(name)
	if !ok && e.persistMode == PersistAlways && e.store != nil {
		if err := e.Load(name); err != nil {
			return err
		}
		body, ok = e.subscripts.Get(name)
	}
	if !ok {
		return &Error{
			Kind:       ErrUndeclaredSubscript,
			Name:       name,
			Suggestion: closestName(name, e.subscripts.Names()),
		}
	}

	e.logger.Debug("running subscript", "subscript", name, "commands", len(body))
	for _, cmd := range body {
		if err := e.Execute(cmd); err != nil {
			return fmt.Errorf("in subscript %s: %w", name, err)
		}
	}
	return nil
}

// Define registers h under name. A nil handler is ignored.
func (e *Evaluator) Define(name string, h command.Handler) {
	if isNilHandler(h) {
		e.logger.Debug("define skipped: nil handler", "name", name)
		return
	}
	e.registry.Set(name, h)
}

func isNilHandler(h command.Handler) bool {
	switch fn := h.(type) {
	case nil:
		return true
	case command.VariableFunc:
		return fn == nil
	case command.FunctionFunc:
		return fn == nil
	}
	return false
}

// CloseStore closes the persistence store and detaches it. Later Persist and
// Load calls return ErrNoStore.
func (e *Evaluator) CloseStore() error {
	if e.store == nil {
		return nil
	}
	s := e.store
	e.store = nil
	return s.Close()
}

// Undefine removes name if it is registered with the given kind.
func (e *Evaluator) Undefine(name string, kind token.Kind) {
	if !e.registry.Remove(name, kind) {
		e.logger.Debug("remove skipped", "name", name, "kind", kind)
	}
}

// Declare creates (or empties) the subscript name.
func (e *Evaluator) Declare(name string) {
	e.subscripts.Declare(name)
}

// Undeclare removes the subscript name.
func (e *Evaluator) Undeclare(name string) {
	e.subscripts.Remove(name)
}
