// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package textscan pulls attribute values and element text out of small
// markup fragments by literal search. It is deliberately not an XML parser:
// the only producer is a semi-trusted Torznab feed with a known shape, and
// every scan is bounded so malformed or unterminated input degrades to
// "not found" instead of unbounded work.
package textscan

import "strings"

const (
	// MaxAttributeLen bounds the scan for a quoted attribute value.
	MaxAttributeLen = 200
	// MaxElementLen bounds the scan for element text.
	MaxElementLen = 500
)

// ExtractAttribute returns the value of the first `name="..."` occurrence in
// the fragment. A value longer than MaxAttributeLen is treated as not found,
// never truncated.
func ExtractAttribute(fragment, name string) (string, bool) {
	needle := name + `="`
	start := strings.Index(fragment, needle)
	if start < 0 {
		return "", false
	}

	rest := fragment[start+len(needle):]
	end := strings.IndexByte(rest, '"')
	if end < 0 || end >= MaxAttributeLen {
		return "", false
	}

	return rest[:end], true
}

// ExtractElementText returns the trimmed text between the first <name> and
// </name> pair. Text longer than MaxElementLen is treated as not found.
func ExtractElementText(fragment, name string) (string, bool) {
	open := "<" + name + ">"
	close := "</" + name + ">"

	start := strings.Index(fragment, open)
	if start < 0 {
		return "", false
	}

	rest := fragment[start+len(open):]
	end := strings.Index(rest, close)
	if end < 0 || end >= MaxElementLen {
		return "", false
	}

	return strings.TrimSpace(rest[:end]), true
}
