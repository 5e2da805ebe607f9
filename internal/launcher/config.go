// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cast"
)

// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
var ErrInvalidConfig = errors.New("invalid launcher config")

type (
	// Config holds launcher configuration values keyed by name.
	Config map[string]any

	// InvalidConfigError is returned when a configuration key is missing or has
	// the wrong shape.
	InvalidConfigError struct {
		Name   string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid config %q", e.Name)
	}
	return fmt.Sprintf("invalid config %q: %s", e.Name, e.Reason)
}

// Unwrap returns ErrInvalidConfig so callers can use errors.Is for programmatic detection.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Has reports whether name is set.
func (c Config) Has(name string) bool {
	_, ok := c[name]
	return ok
}

// Get returns the raw value of name.
func (c Config) Get(name string) (any, error) {
	v, ok := c[name]
	if !ok {
		return nil, &InvalidConfigError{Name: name}
	}
	return v, nil
}

// String returns name as a string. Scalars are converted.
func (c Config) String(name string) (string, error) {
	v, err := c.Get(name)
	if err != nil {
		return "", err
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", &InvalidConfigError{Name: name, Reason: "expecting a string"}
	}
	return s, nil
}

// Strings returns name as a list of strings. Accepted shapes are []string and
// []any whose elements are all strings.
func (c Config) Strings(name string) ([]string, error) {
	v, err := c.Get(name)
	if err != nil {
		return nil, err
	}
	switch list := v.(type) {
	case []string:
		return slices.Clone(list), nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, &InvalidConfigError{Name: name, Reason: "expecting a list of strings"}
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, &InvalidConfigError{Name: name, Reason: "expecting a list of strings"}
	}
}

// Names returns the configured keys in sorted order.
func (c Config) Names() []string {
	return slices.Sorted(maps.Keys(c))
}

// Clone returns a shallow copy. List values are copied as well.
func (c Config) Clone() Config {
	out := make(Config, len(c))
	for k, v := range c {
		switch list := v.(type) {
		case []string:
			out[k] = slices.Clone(list)
		case []any:
			out[k] = slices.Clone(list)
		default:
			out[k] = v
		}
	}
	return out
}
