// Package strings provides small string and slice helpers
package strings

import std "strings"

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// Blank reports whether s has no non-whitespace content
func Blank(s string) bool { return std.TrimSpace(s) == "" }

// Or returns s trimmed, or def when s is blank
func Or(s, def string) string {
	if t := std.TrimSpace(s); t != "" {
		return t
	}
	return def
}

// MustString returns s if it has non whitespace content otherwise panics
// name is used in the panic message so you can tell what was missing
func MustString(s string, name string) string {
	if Blank(s) {
		panic(name + " is required")
	}
	return s
}

// MustPrefix normalizes and asserts a root path like /reporting or /health
// ensures a single leading slash and no trailing slash except for the root itself
// panics if the input is empty after trimming
func MustPrefix(s string) string {
	s = std.TrimSpace(s)
	s = "/" + std.Trim(s, " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}
