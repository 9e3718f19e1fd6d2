package validation

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

// Error lists the offending fields of a failed validation, keyed by tag name.
type Error struct {
	Fields map[string]string
	cause  error
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, field+" "+e.Fields[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error { return e.cause }

// FieldErrors returns the per-field messages carried by err, or nil.
func FieldErrors(err error) map[string]string {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
