// SPDX-License-Identifier: MPL-2.0

package envmod

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidVarValue is the sentinel error wrapped by InvalidVarValueError.
var ErrInvalidVarValue = errors.New("invalid variable value")

type (
	// Value is either a single string or an ordered sequence of strings.
	// Sequences are joined with PathSeparator once each element is resolved.
	Value struct {
		items    []string
		sequence bool
	}

	// InvalidVarValueError is returned when a raw value is neither a string nor
	// a sequence of strings.
	InvalidVarValueError struct {
		Value any
	}
)

// Error implements the error interface.
func (e *InvalidVarValueError) Error() string {
	return fmt.Sprintf("could not convert value %v (%T): expecting a string or a list of strings", e.Value, e.Value)
}

// Unwrap returns ErrInvalidVarValue so callers can use errors.Is for programmatic detection.
func (e *InvalidVarValueError) Unwrap() error { return ErrInvalidVarValue }

// String creates a single-string Value.
func String(s string) Value {
	return Value{items: []string{s}}
}

// List creates a sequence Value. The items are copied.
func List(items ...string) Value {
	return Value{items: slices.Clone(items), sequence: true}
}

// ValueOf converts decoded configuration data into a Value.
// Accepted inputs are string, []string, Value and []any holding only strings.
func ValueOf(raw any) (Value, error) {
	switch v := raw.(type) {
	case string:
		return String(v), nil
	case Value:
		return v.clone(), nil
	case []string:
		return List(v...), nil
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return Value{}, &InvalidVarValueError{Value: raw}
			}
			items = append(items, s)
		}
		return List(items...), nil
	default:
		return Value{}, &InvalidVarValueError{Value: raw}
	}
}

// IsList reports whether the value was given as a sequence.
func (v Value) IsList() bool { return v.sequence }

// Items returns a copy of the raw, unresolved items.
func (v Value) Items() []string { return slices.Clone(v.items) }

// String returns the raw items joined with PathSeparator.
func (v Value) String() string { return strings.Join(v.items, PathSeparator) }

func (v Value) clone() Value {
	return Value{items: slices.Clone(v.items), sequence: v.sequence}
}
