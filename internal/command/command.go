// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package command defines parsed runtime commands and host-defined commands.
package command

import (
	"slices"
	"strings"

	"nickandperla.net/linedsl/internal/token"
)

// Command is a parsed invocation produced from one script line.
// A nil Params means the line carried no parameters at all.
type Command struct {
	Kind   token.Kind
	Name   string
	Params []string
}

// New creates a variable-kind command. Passing no params yields the no-parameters form.
func New(name string, params ...string) Command {
	c := Command{Kind: token.Variable, Name: name}
	if params != nil {
		c.Params = slices.Clone(params)
	}
	return c
}

// HasParams returns false for the no-parameters form.
func (c Command) HasParams() bool { return c.Params != nil }

// Parameters returns a copy of the parameter list.
func (c Command) Parameters() []string { return slices.Clone(c.Params) }

// Clone returns a copy that shares no memory with c.
func (c Command) Clone() Command {
	c.Params = slices.Clone(c.Params)
	return c
}

// CloneAll deep-copies a list of commands.
func CloneAll(cmds []Command) []Command {
	if cmds == nil {
		return nil
	}
	out := make([]Command, len(cmds))
	for i, c := range cmds {
		out[i] = c.Clone()
	}
	return out
}

// Value returns the first parameter, or "" when there is none.
func (c Command) Value() string {
	if len(c.Params) == 0 {
		return ""
	}
	return c.Params[0]
}

// Equal reports whether two commands are identical, including the nil-vs-empty parameter distinction.
func (c Command) Equal(o Command) bool {
	if c.Kind != o.Kind || c.Name != o.Name || c.HasParams() != o.HasParams() {
		return false
	}
	return slices.Equal(c.Params, o.Params)
}

// Format renders the command back into a bracketed line using d.
func (c Command) Format(d token.Delimiters) string {
	var sb strings.Builder
	sb.WriteString(c.Name)
	sb.WriteString(d.BracketStart)
	sb.WriteString(strings.Join(c.Params, ", "))
	sb.WriteString(d.BracketEnd)
	return sb.String()
}

// Line renders the command as a script line using d. A single non-empty
// parameter uses the assignment form; anything else is bracketed.
func (c Command) Line(d token.Delimiters) string {
	if len(c.Params) == 1 && c.Params[0] != "" {
		return c.Name + d.Assign + c.Params[0]
	}
	return c.Format(d)
}

// String renders the command with the default delimiters.
func (c Command) String() string {
	return c.Format(token.Default())
}

// Handler is the callback attached to a defined command.
// It is implemented only by VariableFunc and FunctionFunc.
type Handler interface {
	Kind() token.Kind
	sealed()
}

// VariableFunc receives the fully resolved value of a variable line.
type VariableFunc func(value string) error

func (VariableFunc) Kind() token.Kind { return token.Variable }
func (VariableFunc) sealed()          {}

// FunctionFunc receives the raw parameter list of a function line.
type FunctionFunc func(params []string) error

func (FunctionFunc) Kind() token.Kind { return token.Function }
func (FunctionFunc) sealed()          {}

// Defined is a host-registered name with its handler.
type Defined struct {
	Name    string
	Handler Handler
}

// Kind returns the kind implied by the handler.
func (d Defined) Kind() token.Kind { return d.Handler.Kind() }
