// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize caps the size of CUE sources accepted by Validate (1MB).
const DefaultMaxFileSize int64 = 1 << 20

type (
	validateOptions struct {
		maxFileSize int64
		concrete    bool
		filename    string
	}

	// Option configures Validate.
	Option func(*validateOptions)
)

func defaultOptions() validateOptions {
	return validateOptions{
		maxFileSize: DefaultMaxFileSize,
		concrete:    true,
		filename:    "<input>",
	}
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(size int64) Option {
	return func(o *validateOptions) { o.maxFileSize = size }
}

// WithConcrete selects whether every value must be concrete after unification.
// Application config sets this to false because all its fields are optional.
func WithConcrete(concrete bool) Option {
	return func(o *validateOptions) { o.concrete = concrete }
}

// WithFilename names the source in positions and error messages.
func WithFilename(name string) Option {
	return func(o *validateOptions) {
		if name != "" {
			o.filename = name
		}
	}
}
