// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

const (
	// EnvInheritAll passes every host variable not denied.
	EnvInheritAll EnvInheritMode = "all"
	// EnvInheritNone starts from an empty base environment.
	EnvInheritNone EnvInheritMode = "none"
	// EnvInheritAllow passes only host variables matching an allow pattern.
	EnvInheritAllow EnvInheritMode = "allow"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidEnvInheritMode is returned when an EnvInheritMode value is not recognized.
	ErrInvalidEnvInheritMode = errors.New("invalid env inherit mode")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidEnvPattern is returned when an allow or deny pattern does not compile.
	ErrInvalidEnvPattern = errors.New("invalid env pattern")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// EnvInheritMode selects how the host environment seeds the base environment.
	EnvInheritMode string

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidEnvInheritModeError is returned when an EnvInheritMode value is not recognized.
	InvalidEnvInheritModeError struct {
		Value EnvInheritMode
	}

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidEnvPatternError is returned when a glob pattern does not compile.
	InvalidEnvPatternError struct {
		Pattern string
		Cause   error
	}

	// InvalidConfigError collects field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// EnvInheritConfig controls which host variables form the base environment.
	EnvInheritConfig struct {
		// Mode is "all", "none" or "allow".
		Mode EnvInheritMode `json:"mode" mapstructure:"mode"`
		// Allow lists glob patterns of names kept in "allow" mode.
		Allow []string `json:"allow" mapstructure:"allow"`
		// Deny lists glob patterns of names always dropped.
		Deny []string `json:"deny" mapstructure:"deny"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging and error chains
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// Config holds the application configuration.
	Config struct {
		// LauncherDir holds the launcher descriptions. Empty means <config dir>/launchers.
		LauncherDir string `json:"launcher_dir" mapstructure:"launcher_dir"`
		// Shell runs the launcher command line.
		Shell string `json:"shell" mapstructure:"shell"`
		// Encoding decodes child output.
		Encoding string `json:"encoding" mapstructure:"encoding"`
		// RedirectStderr merges child stderr into stdout.
		RedirectStderr bool `json:"redirect_stderr" mapstructure:"redirect_stderr"`
		// EnvInherit selects the host variables forming the base environment.
		EnvInherit EnvInheritConfig `json:"env_inherit" mapstructure:"env_inherit"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}
)

// Error implements the error interface.
func (e *InvalidEnvInheritModeError) Error() string {
	return fmt.Sprintf("invalid env inherit mode %q (valid: all, none, allow)", e.Value)
}

// Unwrap returns ErrInvalidEnvInheritMode so callers can use errors.Is for programmatic detection.
func (e *InvalidEnvInheritModeError) Unwrap() error { return ErrInvalidEnvInheritMode }

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme so callers can use errors.Is for programmatic detection.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Error implements the error interface.
func (e *InvalidEnvPatternError) Error() string {
	return fmt.Sprintf("invalid env pattern %q: %v", e.Pattern, e.Cause)
}

// Unwrap returns ErrInvalidEnvPattern so callers can use errors.Is for programmatic detection.
func (e *InvalidEnvPatternError) Unwrap() error { return ErrInvalidEnvPattern }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so errors.Is
// matches the sentinel and every field sentinel.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// String returns the mode name.
func (m EnvInheritMode) String() string { return string(m) }

// IsValid returns whether the mode is recognized, and the validation errors if not.
func (m EnvInheritMode) IsValid() (bool, []error) {
	switch m {
	case EnvInheritAll, EnvInheritNone, EnvInheritAllow:
		return true, nil
	default:
		return false, []error{&InvalidEnvInheritModeError{Value: m}}
	}
}

// String returns the scheme name.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the scheme is recognized, and the validation errors if not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// IsValid checks the mode and compiles every pattern.
func (c EnvInheritConfig) IsValid() (bool, []error) {
	var errs []error
	if ok, modeErrs := c.Mode.IsValid(); !ok {
		errs = append(errs, modeErrs...)
	}
	for _, pattern := range append(append([]string{}, c.Allow...), c.Deny...) {
		if _, err := glob.Compile(pattern); err != nil {
			errs = append(errs, &InvalidEnvPatternError{Pattern: pattern, Cause: err})
		}
	}
	return len(errs) == 0, errs
}

// IsValid validates every field of the configuration.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if ok, envErrs := c.EnvInherit.IsValid(); !ok {
		errs = append(errs, envErrs...)
	}
	if ok, uiErrs := c.UI.ColorScheme.IsValid(); !ok {
		errs = append(errs, uiErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LauncherDir:    "",
		Shell:          "/bin/sh",
		Encoding:       "utf-8",
		RedirectStderr: false,
		EnvInherit: EnvInheritConfig{
			Mode:  EnvInheritAll,
			Allow: []string{},
			Deny:  []string{"ULAUNCHER_*"},
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
