// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/ulauncher/ulauncher/internal/software"
)

var (
	// ErrLauncherNotRegistered is the sentinel error wrapped by LauncherNotRegisteredError.
	ErrLauncherNotRegistered = errors.New("launcher not registered")
	// ErrMissingRequiredConfig is the sentinel error wrapped by MissingRequiredConfigError.
	ErrMissingRequiredConfig = errors.New("missing required launcher config")
	// ErrMissingSoftware is returned when Create is called without a software handle.
	ErrMissingSoftware = errors.New("launcher requires a software")
)

type (
	// Registry maps kind names to kinds.
	Registry struct {
		kinds map[string]Kind
	}

	// LauncherNotRegisteredError is returned when no kind is registered under Name.
	LauncherNotRegisteredError struct {
		Name       string
		Registered []string
	}

	// MissingRequiredConfigError is returned when a required configuration key is absent.
	MissingRequiredConfigError struct {
		Kind string
		Name string
	}
)

// Error implements the error interface.
func (e *LauncherNotRegisteredError) Error() string {
	return fmt.Sprintf("invalid launcher type %q (registered: %v)", e.Name, e.Registered)
}

// Unwrap returns ErrLauncherNotRegistered so callers can use errors.Is for programmatic detection.
func (e *LauncherNotRegisteredError) Unwrap() error { return ErrLauncherNotRegistered }

// Error implements the error interface.
func (e *MissingRequiredConfigError) Error() string {
	return fmt.Sprintf("required config %q has not been defined for %s launcher", e.Name, e.Kind)
}

// Unwrap returns ErrMissingRequiredConfig so callers can use errors.Is for programmatic detection.
func (e *MissingRequiredConfigError) Unwrap() error { return ErrMissingRequiredConfig }

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		kinds: make(map[string]Kind),
	}
}

// DefaultRegistry returns a registry holding the built-in kinds.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Bin{})
	return r
}

// Register adds kind under its name, replacing any previous registration.
func (r *Registry) Register(kind Kind) {
	r.kinds[kind.Name()] = kind
}

// Get returns the kind registered under name.
func (r *Registry) Get(name string) (Kind, error) {
	kind, ok := r.kinds[name]
	if !ok {
		return nil, &LauncherNotRegisteredError{Name: name, Registered: r.Names()}
	}
	return kind, nil
}

// Names returns the registered kind names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.kinds))
}

// Create validates config against the kind's required keys and returns a Launcher
// owning copies of env and config.
func (r *Registry) Create(name string, sw *software.Software, env map[string]string, config Config, opts ...Option) (*Launcher, error) {
	kind, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if sw == nil {
		return nil, ErrMissingSoftware
	}

	for _, required := range kind.RequiredConfig() {
		if !config.Has(required) {
			return nil, &MissingRequiredConfigError{Kind: name, Name: required}
		}
	}

	l := &Launcher{
		kind:     kind,
		software: sw,
		env:      maps.Clone(env),
		config:   config.Clone(),
		logger:   defaultLogger(),
	}
	if l.env == nil {
		l.env = make(map[string]string)
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}
