// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/ulauncher/ulauncher/internal/envmod"
	"github.com/ulauncher/ulauncher/internal/launcher"
	"github.com/ulauncher/ulauncher/internal/software"
)

// ErrMissingLauncherType is returned when a launcher is requested before a
// launcher type has been set.
var ErrMissingLauncherType = errors.New("could not create launcher, missing launcher type")

type (
	// Option configures a Loader.
	Option func(*Loader)

	// Loader accumulates a launcher type, a launcher configuration and the
	// environment layers for one software, then creates the launcher.
	Loader struct {
		software     *software.Software
		launcherType string
		config       launcher.Config
		softwareEnv  envmod.Modifier
		addonEnv     map[string]envmod.Modifier
		logger       *log.Logger
	}
)

// WithLogger sets the loader logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates an empty Loader for sw.
func New(sw *software.Software, opts ...Option) (*Loader, error) {
	if sw == nil {
		return nil, launcher.ErrMissingSoftware
	}

	l := &Loader{
		software: sw,
		config:   launcher.Config{},
		addonEnv: make(map[string]envmod.Modifier),
		logger: log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "loader",
		}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Software returns the software the loader was created for.
func (l *Loader) Software() *software.Software { return l.software }

// SetLauncherType sets the registered kind name used to create the launcher.
func (l *Loader) SetLauncherType(name string) { l.launcherType = name }

// LauncherType returns the launcher type, or "" when unset.
func (l *Loader) LauncherType() string { return l.launcherType }

// SetLauncherConfig sets one launcher configuration value.
func (l *Loader) SetLauncherConfig(name string, value any) { l.config[name] = value }

// LauncherConfig returns a copy of the launcher configuration.
func (l *Loader) LauncherConfig() launcher.Config { return l.config.Clone() }

// SoftwareEnvModifier returns the software-level environment layer.
func (l *Loader) SoftwareEnvModifier() envmod.Modifier { return l.softwareEnv }

// SetSoftwareEnvModifier replaces the software-level environment layer.
func (l *Loader) SetSoftwareEnvModifier(mod envmod.Modifier) { l.softwareEnv = mod }

// SetAddonEnvModifier sets the environment layer applied when addon name is enabled.
func (l *Loader) SetAddonEnvModifier(name string, mod envmod.Modifier) { l.addonEnv[name] = mod }

// AddonEnvModifier returns the environment layer registered for addon name.
func (l *Loader) AddonEnvModifier(name string) (envmod.Modifier, bool) {
	mod, ok := l.addonEnv[name]
	return mod, ok
}

// AddonEnvNames returns the addon names carrying an environment layer, sorted.
func (l *Loader) AddonEnvNames() []string {
	return slices.Sorted(maps.Keys(l.addonEnv))
}

// Load applies desc to the loader. Configuration values replace earlier ones,
// except "args": when it was set before loading, the description's args come
// first and the earlier args are appended, so injected command line
// arguments are never dropped by a description that sets its own.
func (l *Loader) Load(desc *Description) error {
	l.SetLauncherType(desc.LauncherType)

	for _, name := range desc.Config.Names() {
		value := desc.Config[name]
		if name == launcher.ConfigArgs && l.config.Has(name) {
			described, err := desc.Config.Strings(name)
			if err != nil {
				return err
			}
			injected, err := l.config.Strings(name)
			if err != nil {
				return err
			}
			value = append(described, injected...)
		}
		l.SetLauncherConfig(name, value)
	}

	l.softwareEnv = l.softwareEnv.Merge(desc.Env)
	for _, name := range desc.AddonNames() {
		l.SetAddonEnvModifier(name, desc.Addons[name])
	}

	return nil
}

// LoadFile reads the description at path and loads it.
func (l *Loader) LoadFile(path string) error {
	desc, err := LoadFile(path)
	if err != nil {
		return err
	}
	l.logger.Debug("loaded launcher description", "software", l.software, "path", path, "type", desc.LauncherType)
	return l.Load(desc)
}

// Compose stacks base, the software layer and the layer of every enabled addon,
// in addon name order, into one Modifier.
func (l *Loader) Compose(base map[string]string) envmod.Modifier {
	final := envmod.New(base).Merge(l.softwareEnv)

	for _, name := range l.software.AddonNames() {
		addon, err := l.software.Addon(name)
		if err != nil || !addon.Enabled() {
			continue
		}
		mod, ok := l.addonEnv[name]
		if !ok {
			continue
		}
		l.logger.Debug("applying addon environment", "software", l.software, "addon", name)
		final = final.Merge(mod)
	}

	return final
}

// Launcher composes and generates the environment, then creates the launcher
// through reg.
func (l *Loader) Launcher(ctx context.Context, reg *launcher.Registry, base map[string]string, opts ...launcher.Option) (*launcher.Launcher, error) {
	if l.launcherType == "" {
		return nil, ErrMissingLauncherType
	}

	env, err := l.Compose(base).Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate environment for %s: %w", l.software, err)
	}

	return reg.Create(l.launcherType, l.software, env, l.config, opts...)
}
