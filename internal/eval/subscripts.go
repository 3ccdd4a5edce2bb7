// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"maps"
	"slices"

	"nickandperla.net/linedsl/internal/command"
)

// Subscripts holds the declared subscripts and their recorded commands.
type Subscripts struct {
	bodies map[string][]command.Command
}

// NewSubscripts creates an empty subscript table.
func NewSubscripts() *Subscripts {
	return &Subscripts{bodies: make(map[string][]command.Command)}
}

// Declare creates name with an empty body, discarding anything recorded before.
func (s *Subscripts) Declare(name string) {
	s.bodies[name] = []command.Command{}
}

// Set declares name with the given body.
func (s *Subscripts) Set(name string, body []command.Command) {
	s.bodies[name] = command.CloneAll(body)
}

// Remove undeclares name.
func (s *Subscripts) Remove(name string) {
	delete(s.bodies, name)
}

// Has returns true if name is declared.
func (s *Subscripts) Has(name string) bool {
	_, ok := s.bodies[name]
	return ok
}

// Append records cmd at the end of name's body, declaring it if needed.
func (s *Subscripts) Append(name string, cmd command.Command) {
	s.bodies[name] = append(s.bodies[name], cmd)
}

// Get returns a copy of name's body.
func (s *Subscripts) Get(name string) ([]command.Command, bool) {
	body, ok := s.bodies[name]
	if !ok {
		return nil, false
	}
	return command.CloneAll(body), true
}

// Names returns the declared names in sorted order.
func (s *Subscripts) Names() []string {
	return slices.Sorted(maps.Keys(s.bodies))
}
