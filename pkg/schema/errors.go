package schema

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/randomjson/pkg/value"
)

// InvalidNodeError reports a value that does not carry the wanted node
// shape: it is not a map, or its type discriminator is missing or names a
// different variant.
type InvalidNodeError struct {
	Want string
	Raw  value.Value
}

func (e *InvalidNodeError) Error() string {
	return fmt.Sprintf("want %s node from %s", e.Want, e.Raw)
}

// MissingFieldError reports a node object lacking a required field.
type MissingFieldError struct {
	Type  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s node is missing field %q", e.Type, e.Field)
}

// FieldTypeError reports a node field holding the wrong kind of value.
type FieldTypeError struct {
	Type  string
	Field string
	Want  string
	Got   value.Value
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("%s node field %q: want %s, got %s", e.Type, e.Field, e.Want, e.Got.Kind())
}

// SelectError reports that no node variant accepted a value. Causes holds
// one rejection per variant, in selection order.
type SelectError struct {
	Raw    value.Value
	Causes []error
}

func (e *SelectError) Error() string {
	parts := make([]string, len(e.Causes))
	for i, c := range e.Causes {
		parts[i] = c.Error()
	}
	return fmt.Sprintf("cannot parse %s: %s", e.Raw, strings.Join(parts, "; "))
}

func (e *SelectError) Unwrap() []error { return e.Causes }
