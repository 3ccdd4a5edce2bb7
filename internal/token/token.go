// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines command kinds and the delimiter set that shapes the line grammar.
package token

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Kind tags a command as a variable or a function.
type Kind int

const (
	Variable Kind = iota
	Function
)

// String returns the string representation of a kind.
func (k Kind) String() string {
	switch k {
	case Variable:
		return "VARIABLE"
	case Function:
		return "FUNCTION"
	}
	return "UNKNOWN"
}

// Default symbols.
const (
	DefaultAssign         = "="
	DefaultBracketStart   = "("
	DefaultBracketEnd     = ")"
	DefaultSubscriptStart = "{"
	DefaultSubscriptEnd   = "}"
	DefaultReference      = "%"
	DefaultComment        = "#"
)

// ErrInvalidDelimiters is returned by Validate.
var ErrInvalidDelimiters = errors.New("invalid delimiters")

// Delimiters is the immutable symbol set of a grammar.
type Delimiters struct {
	Assign         string
	BracketStart   string
	BracketEnd     string
	SubscriptStart string
	SubscriptEnd   string
	Reference      string // exactly one character
	Comment        string
}

// Default returns the delimiters `=`, `(`, `)`, `{`, `}`, `%`, `#`.
func Default() Delimiters {
	return Delimiters{
		Assign:         DefaultAssign,
		BracketStart:   DefaultBracketStart,
		BracketEnd:     DefaultBracketEnd,
		SubscriptStart: DefaultSubscriptStart,
		SubscriptEnd:   DefaultSubscriptEnd,
		Reference:      DefaultReference,
		Comment:        DefaultComment,
	}
}

// WithDefaults fills every empty symbol from Default.
func (d Delimiters) WithDefaults() Delimiters {
	def := Default()
	fill := func(s *string, v string) {
		if *s == "" {
			*s = v
		}
	}
	fill(&d.Assign, def.Assign)
	fill(&d.BracketStart, def.BracketStart)
	fill(&d.BracketEnd, def.BracketEnd)
	fill(&d.SubscriptStart, def.SubscriptStart)
	fill(&d.SubscriptEnd, def.SubscriptEnd)
	fill(&d.Reference, def.Reference)
	fill(&d.Comment, def.Comment)
	return d
}

// Validate reports empty symbols and a reference marker that is not a single character.
func (d Delimiters) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"assign", d.Assign},
		{"bracket_start", d.BracketStart},
		{"bracket_end", d.BracketEnd},
		{"subscript_start", d.SubscriptStart},
		{"subscript_end", d.SubscriptEnd},
		{"reference", d.Reference},
		{"comment", d.Comment},
	} {
		if f.value == "" {
			return fmt.Errorf("%w: %s is empty", ErrInvalidDelimiters, f.name)
		}
	}
	if utf8.RuneCountInString(d.Reference) != 1 {
		return fmt.Errorf("%w: reference marker %q must be a single character", ErrInvalidDelimiters, d.Reference)
	}
	return nil
}

// IsComment returns true if the (trimmed) line is a comment.
func (d Delimiters) IsComment(line string) bool {
	return strings.HasPrefix(line, d.Comment)
}

// IsBracketed returns true if the line contains the bracket-start symbol.
func (d Delimiters) IsBracketed(line string) bool {
	return strings.Contains(line, d.BracketStart)
}

// OpensSubscript returns the candidate subscript name if the line ends with the subscript-start symbol.
func (d Delimiters) OpensSubscript(line string) (string, bool) {
	if !strings.HasSuffix(line, d.SubscriptStart) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimSuffix(line, d.SubscriptStart)), true
}

// ClosesSubscript returns true if the line contains the subscript-end symbol anywhere.
func (d Delimiters) ClosesSubscript(line string) bool {
	return strings.Contains(line, d.SubscriptEnd)
}
