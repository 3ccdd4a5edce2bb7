// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner turns script lines into runtime commands.
package scanner

import (
	"bufio"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"nickandperla.net/linedsl/internal/command"
	"nickandperla.net/linedsl/internal/token"
)

// ParamSeparator splits bracketed arguments. It is not configurable.
const ParamSeparator = ","

// Build classifies a single line and builds its command.
// It returns false when the line matches neither the bracketed nor the assignment form.
func Build(line string, d token.Delimiters) (command.Command, bool) {
	if strings.Contains(line, d.BracketStart) && strings.Contains(line, d.BracketEnd) {
		return buildBracketed(line, d), true
	}

	if strings.Contains(line, d.Assign) {
		name, value, _ := strings.Cut(line, d.Assign)
		if name == "" || value == "" {
			return command.Command{}, false
		}
		return command.New(name, value), true
	}

	return command.Command{}, false
}

// buildBracketed handles name(args). The result is always variable-kind; the
// registered handler decides how it is dispatched.
func buildBracketed(line string, d token.Delimiters) command.Command {
	name, rest, _ := strings.Cut(line, d.BracketStart)
	name = strings.TrimSpace(name)

	// A bare closing symbol means name() with no parameters.
	if utf8.RuneCountInString(rest) < 2 {
		return command.New(name)
	}

	args, _, _ := strings.Cut(rest, d.BracketEnd)
	args = strings.TrimSpace(args)

	if !strings.Contains(args, ParamSeparator) {
		return command.New(name, args)
	}

	// Leading and trailing whitespace inside an argument cannot be preserved.
	params := strings.Split(args, ParamSeparator)
	for i := range params {
		params[i] = strings.TrimSpace(params[i])
	}
	return command.New(name, params...)
}

// ReadLines reads every line from r. Read errors are returned unchanged.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// isIdentChar returns true if the rune is valid in an identifier (letter, digit, underscore).
func isIdentChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// ScanName returns the identifier at the start of s, or "" if s does not start with one.
func ScanName(s string) string {
	end := 0
	for i, r := range s {
		if !isIdentChar(r) {
			break
		}
		end = i + utf8.RuneLen(r)
	}
	return s[:end]
}

// Reference is a variable reference found in a value.
type Reference struct {
	Start int // byte offset of the marker
	End   int // byte offset just past the name
	Name  string
}

// NextReference finds the first marker in s that is followed by an identifier.
// Markers not followed by an identifier are skipped and stay literal text.
func NextReference(s, marker string) (Reference, bool) {
	offset := 0
	for {
		i := strings.Index(s[offset:], marker)
		if i < 0 {
			return Reference{}, false
		}
		start := offset + i
		nameStart := start + len(marker)
		if name := ScanName(s[nameStart:]); name != "" {
			return Reference{Start: start, End: nameStart + len(name), Name: name}, true
		}
		offset = nameStart
	}
}
