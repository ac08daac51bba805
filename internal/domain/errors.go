package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound: the referenced landlord or review does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict: a uniqueness invariant would be violated (duplicate
	// landlord name, duplicate vote, duplicate contribution).
	ErrConflict = errors.New("conflict")
	// ErrUpstreamUnavailable: an external provider failed. Search paths
	// degrade instead of surfacing this to the caller.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries field-level detail so handlers can report exactly
// which inputs were malformed.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}
