// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/ulauncher/ulauncher/internal/envmod"
	"github.com/ulauncher/ulauncher/internal/launcher"
)

// Description keys.
const (
	KeyLauncherType = "launcherType"
	KeyConfig       = "config"
	KeyEnv          = "env"
	KeyAddons       = "addons"
)

// ErrUnexpectedContent is the sentinel error wrapped by UnexpectedContentError.
var ErrUnexpectedContent = errors.New("unexpected launcher description content")

type (
	// Description is a parsed launcher description.
	Description struct {
		LauncherType string
		Config       launcher.Config
		Env          envmod.Modifier
		Addons       map[string]envmod.Modifier
	}

	// UnexpectedContentError is returned when a description does not have the
	// expected shape. Field is a dotted path, empty for the root.
	UnexpectedContentError struct {
		Field    string
		Expected string
	}
)

// Error implements the error interface.
func (e *UnexpectedContentError) Error() string {
	if e.Field == "" {
		return "unexpected content: expecting " + e.Expected + " as root"
	}
	return fmt.Sprintf("unexpected content at %s: expecting %s", e.Field, e.Expected)
}

// Unwrap returns ErrUnexpectedContent so callers can use errors.Is for programmatic detection.
func (e *UnexpectedContentError) Unwrap() error { return ErrUnexpectedContent }

// Parse validates decoded description data (as produced by DecodeJSON, DecodeTOML
// or DecodeCUE) and builds a Description. Variables of each layer are registered
// in name order.
func Parse(contents any) (*Description, error) {
	root, ok := contents.(map[string]any)
	if !ok {
		return nil, &UnexpectedContentError{Expected: "an object"}
	}

	rawType, ok := root[KeyLauncherType]
	if !ok {
		return nil, &UnexpectedContentError{Field: KeyLauncherType, Expected: "a launcher type"}
	}
	launcherType, ok := rawType.(string)
	if !ok || launcherType == "" {
		return nil, &UnexpectedContentError{Field: KeyLauncherType, Expected: "a non-empty string"}
	}

	desc := &Description{
		LauncherType: launcherType,
		Config:       launcher.Config{},
		Addons:       make(map[string]envmod.Modifier),
	}

	if raw, ok := root[KeyConfig]; ok {
		cfg, isMap := raw.(map[string]any)
		if !isMap {
			return nil, &UnexpectedContentError{Field: KeyConfig, Expected: "an object"}
		}
		desc.Config = launcher.Config(maps.Clone(cfg))
	}

	if raw, ok := root[KeyEnv]; ok {
		env, err := parseEnv(KeyEnv, raw)
		if err != nil {
			return nil, err
		}
		desc.Env = env
	}

	if raw, ok := root[KeyAddons]; ok {
		addons, isMap := raw.(map[string]any)
		if !isMap {
			return nil, &UnexpectedContentError{Field: KeyAddons, Expected: "an object"}
		}
		for _, name := range slices.Sorted(maps.Keys(addons)) {
			field := KeyAddons + "." + name
			addon, isMap := addons[name].(map[string]any)
			if !isMap {
				return nil, &UnexpectedContentError{Field: field, Expected: "an object"}
			}
			rawEnv, hasEnv := addon[KeyEnv]
			if !hasEnv {
				continue
			}
			env, err := parseEnv(field+"."+KeyEnv, rawEnv)
			if err != nil {
				return nil, err
			}
			desc.Addons[name] = env
		}
	}

	return desc, nil
}

// AddonNames returns the names of addons carrying an environment layer, sorted.
func (d *Description) AddonNames() []string {
	return slices.Sorted(maps.Keys(d.Addons))
}

func parseEnv(field string, raw any) (envmod.Modifier, error) {
	var mod envmod.Modifier

	data, ok := raw.(map[string]any)
	if !ok {
		return mod, &UnexpectedContentError{Field: field, Expected: "an object"}
	}

	layers := []struct {
		kind envmod.Kind
		add  func(envmod.Modifier, string, envmod.Value) envmod.Modifier
	}{
		{kind: envmod.KindPrepend, add: envmod.Modifier.AddPrepend},
		{kind: envmod.KindAppend, add: envmod.Modifier.AddAppend},
		{kind: envmod.KindOverride, add: envmod.Modifier.SetOverride},
	}
	for _, layer := range layers {
		rawVars, present := data[string(layer.kind)]
		if !present {
			continue
		}
		layerField := field + "." + string(layer.kind)
		vars, isMap := rawVars.(map[string]any)
		if !isMap {
			return mod, &UnexpectedContentError{Field: layerField, Expected: "an object describing the " + string(layer.kind) + " vars"}
		}
		for _, name := range slices.Sorted(maps.Keys(vars)) {
			value, err := envmod.ValueOf(vars[name])
			if err != nil {
				return mod, fmt.Errorf("%s.%s: %w", layerField, name, err)
			}
			mod = layer.add(mod, name, value)
		}
	}

	if rawUnset, present := data[string(envmod.KindUnset)]; present {
		unsetField := field + "." + string(envmod.KindUnset)
		names, isList := rawUnset.([]any)
		if !isList {
			return mod, &UnexpectedContentError{Field: unsetField, Expected: "an array describing the unset vars"}
		}
		for i, rawName := range names {
			name, isString := rawName.(string)
			if !isString {
				return mod, &UnexpectedContentError{Field: fmt.Sprintf("%s[%d]", unsetField, i), Expected: "a variable name"}
			}
			mod = mod.AddUnset(name)
		}
	}

	return mod, nil
}
