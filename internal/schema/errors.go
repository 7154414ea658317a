package schema

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrSchemaGeneration is returned when an example value cannot be mapped to a field.
	ErrSchemaGeneration = errors.New("schema generation failed")

	// ErrDuplicateField is returned when a schema declares the same field twice.
	ErrDuplicateField = errors.New("duplicate field")

	// ErrNotObject is returned when a value expected to be a field mapping is something else.
	ErrNotObject = errors.New("value is not a field mapping")
)

// ValidationError collects the per-field messages of a failed validation.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}

	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}

	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(e.Fields[name], " "))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// FieldError is the message produced when a single value fails to clean.
type FieldError struct {
	Msg string
}

func (e *FieldError) Error() string {
	return e.Msg
}

func invalid(msg string) error {
	return &FieldError{Msg: msg}
}

const (
	msgRequired      = "This field is required."
	msgInteger       = "Enter a whole number."
	msgNumber        = "Enter a number."
	msgDate          = "Enter a valid date."
	msgTime          = "Enter a valid time."
	msgDateTime      = "Enter a valid date/time."
	msgDuration      = "Enter a valid duration."
	msgUUID          = "Enter a valid UUID."
	msgEmail         = "Enter a valid email address."
	msgURL           = "Enter a valid URL."
	msgIP            = "Enter a valid IPv4 or IPv6 address."
	msgSlug          = "Enter a valid 'slug' consisting of letters, numbers, underscores or hyphens."
	msgValue         = "Enter a valid value."
	msgList          = "Enter a list of values."
	msgChoice        = "Select a valid choice. %s is not one of the available choices."
	msgMinValue      = "Ensure this value is greater than or equal to %d."
	msgMaxValue      = "Ensure this value is less than or equal to %d."
	msgPatternSyntax = "Enter a valid regular expression."
)
