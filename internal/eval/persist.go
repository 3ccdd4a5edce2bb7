// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"fmt"
	"strings"
)

// PersistMode controls when subscripts are persisted.
type PersistMode int

const (
	// PersistOnDemand is the default - explicit Persist/Load calls only.
	PersistOnDemand PersistMode = iota
	// PersistAlways saves a subscript when its block closes and loads undeclared names on Run.
	PersistAlways
	// PersistNever makes Persist a no-op (memory-only mode).
	PersistNever
)

// String returns the string representation of a PersistMode.
func (m PersistMode) String() string {
	switch m {
	case PersistOnDemand:
		return "ON_DEMAND"
	case PersistAlways:
		return "ALWAYS"
	case PersistNever:
		return "NEVER"
	default:
		return "UNKNOWN"
	}
}

// ParsePersistMode parses a string into a PersistMode.
func ParsePersistMode(s string) (PersistMode, bool) {
	switch strings.ToUpper(s) {
	case "ON_DEMAND", "":
		return PersistOnDemand, true
	case "ALWAYS":
		return PersistAlways, true
	case "NEVER":
		return PersistNever, true
	default:
		return PersistOnDemand, false
	}
}

// Persist saves the named subscripts, or every declared subscript when no name is given.
func (e *Evaluator) Persist(names ...string) error {
	if e.persistMode == PersistNever {
		e.logger.Debug("persist skipped", "mode", e.persistMode)
		return nil
	}
	if e.store == nil {
		return ErrNoStore
	}
	if len(names) == 0 {
		names = e.subscripts.Names()
	}
	for _, name := range names {
		body, ok := e.subscripts.Get(name)
		if !ok {
			return &Error{Kind: ErrUndeclaredSubscript, Name: name}
		}
		if err := e.store.PutSubscript(name, body); err != nil {
			return fmt.Errorf("persist %s: %w", name, err)
		}
		e.logger.Debug("persisted subscript", "subscript", name, "commands", len(body))
	}
	return nil
}

// Load declares the named subscripts from the store, or every stored subscript
// when no name is given. Loaded bodies replace what is in memory.
func (e *Evaluator) Load(names ...string) error {
	if e.store == nil {
		return ErrNoStore
	}
	if len(names) == 0 {
		var err error
		names, err = e.store.ListSubscripts()
		if err != nil {
			return err
		}
	}
	for _, name := range names {
		body, ok, err := e.store.GetSubscript(name)
		if err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
		if !ok {
			return &Error{Kind: ErrUndeclaredSubscript, Name: name}
		}
		e.subscripts.Set(name, body)
		e.logger.Debug("loaded subscript", "subscript", name, "commands", len(body))
	}
	return nil
}

// autoPersist saves name in ALWAYS mode.
func (e *Evaluator) autoPersist(name string) error {
	if e.persistMode != PersistAlways || e.store == nil {
		return nil
	}
	body, ok := e.subscripts.Get(name)
	if !ok {
		return nil
	}
	if err := e.store.PutSubscript(name, body); err != nil {
		return fmt.Errorf("persist %s: %w", name, err)
	}
	return nil
}
