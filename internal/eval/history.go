// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import "nickandperla.net/linedsl/internal/command"

// History keeps the most recent top-level command per name, in first-seen order.
type History struct {
	order    []string
	commands map[string]command.Command
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{commands: make(map[string]command.Command)}
}

// Put records cmd under its name, replacing any earlier entry.
func (h *History) Put(cmd command.Command) {
	if _, ok := h.commands[cmd.Name]; !ok {
		h.order = append(h.order, cmd.Name)
	}
	h.commands[cmd.Name] = cmd
}

// Get returns the latest command recorded under name.
func (h *History) Get(name string) (command.Command, bool) {
	c, ok := h.commands[name]
	return c, ok
}

// Len returns the number of names recorded.
func (h *History) Len() int { return len(h.order) }

// Commands returns the recorded commands in first-seen order.
func (h *History) Commands() []command.Command {
	out := make([]command.Command, 0, len(h.order))
	for _, name := range h.order {
		out = append(out, h.commands[name].Clone())
	}
	return out
}
