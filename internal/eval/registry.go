// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"maps"
	"slices"

	"nickandperla.net/linedsl/internal/command"
	"nickandperla.net/linedsl/internal/token"
)

// Registry maps names to host-defined commands.
// It is not safe for concurrent use; the host owns it.
type Registry struct {
	commands map[string]command.Defined
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]command.Defined),
	}
}

// Get retrieves a defined command by name.
func (r *Registry) Get(name string) (command.Defined, bool) {
	d, ok := r.commands[name]
	return d, ok
}

// Set registers a handler under name, overwriting any previous definition.
func (r *Registry) Set(name string, h command.Handler) {
	r.commands[name] = command.Defined{Name: name, Handler: h}
}

// Remove deletes name only if its definition has the given kind.
func (r *Registry) Remove(name string, kind token.Kind) bool {
	d, ok := r.commands[name]
	if !ok || d.Kind() != kind {
		return false
	}
	delete(r.commands, name)
	return true
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.commands))
}

// Snapshot returns a copy of the registry contents.
func (r *Registry) Snapshot() map[string]command.Defined {
	return maps.Clone(r.commands)
}
