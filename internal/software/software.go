// SPDX-License-Identifier: MPL-2.0

// Package software provides the identity of the software being launched: its name,
// its version and the addons requested for this launch.
package software

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cast"
)

// EnabledOption is the addon option that activates the addon's environment layer.
const EnabledOption = "enabled"

var (
	// ErrInvalidSoftwareName is returned when a software name is empty.
	ErrInvalidSoftwareName = errors.New("invalid software name")
	// ErrAddonNotFound is the sentinel error wrapped by AddonNotFoundError.
	ErrAddonNotFound = errors.New("addon not found")
)

type (
	// Software identifies what is launched.
	Software struct {
		name    string
		version string
		addons  map[string]*Addon
	}

	// Addon is a named extension of a Software with free-form options.
	Addon struct {
		name    string
		options map[string]any
	}

	// AddonNotFoundError is returned when an addon lookup fails.
	AddonNotFoundError struct {
		Software string
		Addon    string
	}
)

// Error implements the error interface.
func (e *AddonNotFoundError) Error() string {
	return fmt.Sprintf("software %q has no addon %q", e.Software, e.Addon)
}

// Unwrap returns ErrAddonNotFound so callers can use errors.Is for programmatic detection.
func (e *AddonNotFoundError) Unwrap() error { return ErrAddonNotFound }

// New creates a Software. The version may be empty.
func New(name, version string) (*Software, error) {
	if name == "" {
		return nil, ErrInvalidSoftwareName
	}
	return &Software{name: name, version: version, addons: make(map[string]*Addon)}, nil
}

// Name returns the software name.
func (s *Software) Name() string { return s.name }

// Version returns the software version, or "" when unversioned.
func (s *Software) Version() string { return s.version }

// String returns "name" or "name-version".
func (s *Software) String() string {
	if s.version == "" {
		return s.name
	}
	return s.name + "-" + s.version
}

// AddAddon registers (or replaces) an addon with a copy of options.
func (s *Software) AddAddon(name string, options map[string]any) *Addon {
	addon := &Addon{name: name, options: maps.Clone(options)}
	if addon.options == nil {
		addon.options = make(map[string]any)
	}
	s.addons[name] = addon
	return addon
}

// AddonNames returns the registered addon names in sorted order.
func (s *Software) AddonNames() []string {
	return slices.Sorted(maps.Keys(s.addons))
}

// Addon returns the addon registered under name.
func (s *Software) Addon(name string) (*Addon, error) {
	addon, ok := s.addons[name]
	if !ok {
		return nil, &AddonNotFoundError{Software: s.name, Addon: name}
	}
	return addon, nil
}

// Name returns the addon name.
func (a *Addon) Name() string { return a.name }

// OptionNames returns the option names in sorted order.
func (a *Addon) OptionNames() []string {
	return slices.Sorted(maps.Keys(a.options))
}

// Option returns the value of an option and whether it is set.
func (a *Addon) Option(name string) (any, bool) {
	v, ok := a.options[name]
	return v, ok
}

// Enabled reports whether the "enabled" option is true. Strings use the
// strconv.ParseBool spellings ("1", "t", "true"), so "yes" and "on" do not
// enable an addon. Missing or unparsable means disabled.
func (a *Addon) Enabled() bool {
	v, ok := a.options[EnabledOption]
	if !ok {
		return false
	}
	enabled, err := cast.ToBoolE(v)
	if err != nil {
		return false
	}
	return enabled
}
