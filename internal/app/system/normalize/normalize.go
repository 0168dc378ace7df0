// Package normalize holds the canonical forms used when storing and
// comparing user-entered values.
package normalize

import "strings"

// Email lowercases and trims an address. Stored emails are always in this form.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases and trims a role name.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Phone trims surrounding whitespace. Length is validated separately.
func Phone(s string) string {
	return strings.TrimSpace(s)
}

// QueryParam trims a raw query-string value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
