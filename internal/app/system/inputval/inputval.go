// Package inputval holds small input validators and a field-error collector
// shaped like the JSON error map returned by the API endpoints.
package inputval

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// IsValidEmail reports whether s is a bare addr-spec (no display name, no
// surrounding whitespace) with well-formed dot-separated local and domain parts.
func IsValidEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n<>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return false
	}

	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	for _, part := range []string{s[:at], s[at+1:]} {
		if strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".") || strings.Contains(part, "..") {
			return false
		}
	}
	return true
}

// MinLength reports whether s has at least n characters.
func MinLength(s string, n int) bool {
	return utf8.RuneCountInString(s) >= n
}

// FieldErrors maps a field name to its messages in the order they were added.
type FieldErrors map[string][]string

// Add records msg against field.
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// HasErrors reports whether any field has a message.
func (fe FieldErrors) HasErrors() bool {
	return len(fe) > 0
}

// Get returns the messages recorded for field.
func (fe FieldErrors) Get(field string) []string {
	return fe[field]
}
