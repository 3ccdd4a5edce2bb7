// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"slices"
	"strings"

	"nickandperla.net/linedsl/internal/command"
	"nickandperla.net/linedsl/internal/scanner"
)

// Resolve expands every variable reference in the command's value against the history.
func (e *Evaluator) Resolve(cmd command.Command) (string, error) {
	return e.expand(cmd.Value(), nil)
}

// expand substitutes references in text. path holds the names being resolved
// on the current branch; meeting one of them again is a cycle.
func (e *Evaluator) expand(text string, path []string) (string, error) {
	var sb strings.Builder
	for {
		ref, ok := scanner.NextReference(text, e.delims.Reference)
		if !ok {
			sb.WriteString(text)
			return sb.String(), nil
		}
		sb.WriteString(text[:ref.Start])

		chain := append(slices.Clone(path), ref.Name)
		if slices.Contains(path, ref.Name) {
			return "", &Error{Kind: ErrCyclicVariable, Name: ref.Name, Chain: chain}
		}
		target, ok := e.history.Get(ref.Name)
		if !ok {
			return "", &Error{Kind: ErrUnresolvedVariable, Name: ref.Name, Chain: chain}
		}

		value, err := e.expand(target.Value(), chain)
		if err != nil {
			return "", err
		}
		sb.WriteString(value)
		text = text[ref.End:]
	}
}
