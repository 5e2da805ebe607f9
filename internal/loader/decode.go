// SPDX-License-Identifier: MPL-2.0

package loader

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ulauncher/ulauncher/internal/cueutil"
)

// Supported description file extensions, in lookup order.
const (
	ExtJSON = ".json"
	ExtTOML = ".toml"
	ExtCUE  = ".cue"
)

//go:embed description_schema.cue
var descriptionSchema []byte

// ErrUnsupportedFormat is the sentinel error wrapped by UnsupportedFormatError.
var ErrUnsupportedFormat = errors.New("unsupported description format")

// UnsupportedFormatError is returned for files whose extension has no decoder.
type UnsupportedFormatError struct {
	Path string
}

// Error implements the error interface.
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported description format %q (%s): expecting one of %s",
		filepath.Ext(e.Path), e.Path, strings.Join(Extensions(), ", "))
}

// Unwrap returns ErrUnsupportedFormat so callers can use errors.Is for programmatic detection.
func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// Extensions returns the supported description extensions in lookup order.
func Extensions() []string {
	return []string{ExtJSON, ExtTOML, ExtCUE}
}

// DecodeJSON decodes a JSON description into generic data.
func DecodeJSON(data []byte) (any, error) {
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return out, nil
}

// DecodeTOML decodes a TOML description into generic data.
func DecodeTOML(data []byte) (any, error) {
	var out map[string]any
	if err := toml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	return out, nil
}

// DecodeCUE validates a CUE description against the description schema and
// decodes it into generic data.
func DecodeCUE(data []byte, filename string) (any, error) {
	out, err := cueutil.DecodeMap(descriptionSchema, data, "#Description", cueutil.WithFilename(filename))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Decode picks the decoder for path's extension.
func Decode(path string, data []byte) (any, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtJSON:
		return DecodeJSON(data)
	case ExtTOML:
		return DecodeTOML(data)
	case ExtCUE:
		return DecodeCUE(data, path)
	default:
		return nil, &UnsupportedFormatError{Path: path}
	}
}

// LoadFile reads, decodes and parses the description at path.
func LoadFile(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read launcher description: %w", err)
	}
	contents, err := Decode(path, data)
	if err != nil {
		return nil, err
	}
	desc, err := Parse(contents)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return desc, nil
}
