// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every structured failure unwraps to one of these.
var (
	ErrUndeclaredSubscript = errors.New("subscript not found")
	ErrUnregisteredCommand = errors.New("no handler registered")
	ErrUnresolvedVariable  = errors.New("unresolved variable reference")
	ErrCyclicVariable      = errors.New("cyclic variable reference")
	ErrNoStore             = errors.New("no store configured")
)

// Error is a structured runtime failure.
type Error struct {
	Kind       error
	Name       string
	Chain      []string // resolution path for variable errors
	Suggestion string   // closest registered name, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%v: %s", e.Kind, e.Name)
	if len(e.Chain) > 1 {
		fmt.Fprintf(&sb, " (via %s)", strings.Join(e.Chain, " -> "))
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&sb, " (did you mean %s?)", e.Suggestion)
	}
	return sb.String()
}

// Unwrap allows errors.Is against the kind sentinels.
func (e *Error) Unwrap() error {
	return e.Kind
}

// LineError attaches a 1-based script line number to a failure raised while parsing.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *LineError) Unwrap() error { return e.Err }
