// SPDX-License-Identifier: MPL-2.0

package envmod

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/ulauncher/ulauncher/internal/resolve"
)

// PathSeparator joins path-like values. Only the POSIX convention is supported.
const PathSeparator = ":"

const (
	// KindPrepend places values in front of the current value.
	KindPrepend Kind = "prepend"
	// KindAppend places values after the current value.
	KindAppend Kind = "append"
	// KindOverride replaces the current value.
	KindOverride Kind = "override"
	// KindUnset removes the variable.
	KindUnset Kind = "unset"
)

// ErrInvalidVar is the sentinel error wrapped by InvalidVarError.
var ErrInvalidVar = errors.New("invalid variable")

type (
	// Kind identifies the type of a Modification.
	Kind string

	// Modification is a single record accumulated by a Modifier.
	// Value is ignored for KindUnset.
	Modification struct {
		Kind  Kind
		Name  string
		Value Value
	}

	// Modifier accumulates modifications on top of a base environment.
	// The zero value is an empty Modifier with an empty base environment.
	Modifier struct {
		base    map[string]string
		records []Modification
	}

	// InvalidVarError is returned when a variable is looked up under a kind it was
	// never registered with. It signals a programming error in the caller.
	InvalidVarError struct {
		Kind Kind
		Name string
	}

	ordered[T any] struct {
		names  []string
		values map[string]T
	}

	// folded is the per-kind view of a Modifier's records.
	folded struct {
		prepend  ordered[[]string]
		append   ordered[[]string]
		override ordered[Value]
		unset    ordered[struct{}]
	}
)

// Error implements the error interface.
func (e *InvalidVarError) Error() string {
	return fmt.Sprintf("invalid %s variable %q", e.Kind, e.Name)
}

// Unwrap returns ErrInvalidVar so callers can use errors.Is for programmatic detection.
func (e *InvalidVarError) Unwrap() error { return ErrInvalidVar }

// String returns the kind name.
func (k Kind) String() string { return string(k) }

// New creates an empty Modifier seeded with a copy of base.
func New(base map[string]string) Modifier {
	return Modifier{base: maps.Clone(base)}
}

// Base returns a copy of the base environment.
func (m Modifier) Base() map[string]string {
	if m.base == nil {
		return make(map[string]string)
	}
	return maps.Clone(m.base)
}

// Records returns a deep copy of the accumulated modifications in insertion order.
func (m Modifier) Records() []Modification {
	out := make([]Modification, len(m.records))
	for i, rec := range m.records {
		out[i] = Modification{Kind: rec.Kind, Name: rec.Name, Value: rec.Value.clone()}
	}
	return out
}

// IsEmpty reports whether no modification has been added.
func (m Modifier) IsEmpty() bool { return len(m.records) == 0 }

// AddPrepend returns a Modifier that additionally prepends value to name.
// A single value ends up in front of previously prepended values; a list is
// placed as a whole in front of them.
func (m Modifier) AddPrepend(name string, value Value) Modifier {
	return m.with(Modification{Kind: KindPrepend, Name: name, Value: value.clone()})
}

// AddAppend returns a Modifier that additionally appends value to name.
func (m Modifier) AddAppend(name string, value Value) Modifier {
	return m.with(Modification{Kind: KindAppend, Name: name, Value: value.clone()})
}

// SetOverride returns a Modifier that replaces name with value. The last override wins.
func (m Modifier) SetOverride(name string, value Value) Modifier {
	return m.with(Modification{Kind: KindOverride, Name: name, Value: value.clone()})
}

// AddUnset returns a Modifier that removes name from the generated environment.
func (m Modifier) AddUnset(name string) Modifier {
	return m.with(Modification{Kind: KindUnset, Name: name})
}

// Merge returns a Modifier holding m's records followed by copies of other's records.
// The base environment of other is ignored.
func (m Modifier) Merge(other Modifier) Modifier {
	records := make([]Modification, 0, len(m.records)+len(other.records))
	records = append(records, m.records...)
	records = append(records, other.Records()...)
	return Modifier{base: m.base, records: records}
}

// Prepend returns the raw values that will be prepended to name, front first.
func (m Modifier) Prepend(name string) ([]string, error) {
	values, ok := m.fold().prepend.get(name)
	if !ok {
		return nil, &InvalidVarError{Kind: KindPrepend, Name: name}
	}
	return values, nil
}

// PrependNames returns the prepended variable names in registration order.
func (m Modifier) PrependNames() []string { return m.fold().prepend.names }

// Append returns the raw values that will be appended to name.
func (m Modifier) Append(name string) ([]string, error) {
	values, ok := m.fold().append.get(name)
	if !ok {
		return nil, &InvalidVarError{Kind: KindAppend, Name: name}
	}
	return values, nil
}

// AppendNames returns the appended variable names in registration order.
func (m Modifier) AppendNames() []string { return m.fold().append.names }

// Override returns the raw value that replaces name.
func (m Modifier) Override(name string) (Value, error) {
	value, ok := m.fold().override.get(name)
	if !ok {
		return Value{}, &InvalidVarError{Kind: KindOverride, Name: name}
	}
	return value.clone(), nil
}

// OverrideNames returns the overridden variable names in registration order.
func (m Modifier) OverrideNames() []string { return m.fold().override.names }

// UnsetNames returns the unset variable names in registration order.
func (m Modifier) UnsetNames() []string { return m.fold().unset.names }

// Generate builds a new environment from the base environment and the accumulated
// modifications. It does not change m, so repeated calls return equal results.
// The first value that fails to resolve aborts the whole generation.
func (m Modifier) Generate(ctx context.Context) (map[string]string, error) {
	state := m.fold()
	resolver := resolve.New(m.base)
	env := m.Base()

	for _, name := range state.prepend.names {
		value, err := convert(ctx, resolver, state.prepend.values[name])
		if err != nil {
			return nil, fmt.Errorf("prepend %s: %w", name, err)
		}
		if current := env[name]; current != "" {
			value = value + PathSeparator + current
		}
		env[name] = value
	}

	for _, name := range state.append.names {
		value, err := convert(ctx, resolver, state.append.values[name])
		if err != nil {
			return nil, fmt.Errorf("append %s: %w", name, err)
		}
		if current := env[name]; current != "" {
			value = current + PathSeparator + value
		}
		env[name] = value
	}

	for _, name := range state.override.names {
		value, err := convert(ctx, resolver, state.override.values[name].items)
		if err != nil {
			return nil, fmt.Errorf("override %s: %w", name, err)
		}
		env[name] = value
	}

	for _, name := range state.unset.names {
		delete(env, name)
	}

	return env, nil
}

func (m Modifier) with(rec Modification) Modifier {
	records := make([]Modification, 0, len(m.records)+1)
	records = append(records, m.records...)
	records = append(records, rec)
	return Modifier{base: m.base, records: records}
}

// fold replays the records into per-kind state.
func (m Modifier) fold() *folded {
	state := &folded{}
	for _, rec := range m.records {
		switch rec.Kind {
		case KindPrepend:
			// Each record lands in front of earlier ones; a list keeps its own order.
			current, _ := state.prepend.get(rec.Name)
			state.prepend.set(rec.Name, append(slices.Clone(rec.Value.items), current...))
		case KindAppend:
			current, _ := state.append.get(rec.Name)
			state.append.set(rec.Name, append(current, rec.Value.items...))
		case KindOverride:
			state.override.set(rec.Name, rec.Value)
		case KindUnset:
			state.unset.set(rec.Name, struct{}{})
		}
	}
	return state
}

// convert resolves every item and joins the results with PathSeparator.
func convert(ctx context.Context, resolver *resolve.Resolver, items []string) (string, error) {
	resolved := make([]string, len(items))
	for i, item := range items {
		value, err := resolver.Resolve(ctx, item)
		if err != nil {
			return "", err
		}
		resolved[i] = value
	}
	return strings.Join(resolved, PathSeparator), nil
}

func (o *ordered[T]) get(name string) (T, bool) {
	v, ok := o.values[name]
	return v, ok
}

func (o *ordered[T]) set(name string, v T) {
	if o.values == nil {
		o.values = make(map[string]T)
	}
	if _, ok := o.values[name]; !ok {
		o.names = append(o.names, name)
	}
	o.values[name] = v
}
