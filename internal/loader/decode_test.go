// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

const (
	jsonDescription = `{
  "launcherType": "bin",
  "config": {"executable": "/bin/echo", "args": ["a"]},
  "env": {"append": {"GREETING": ["hi"]}, "unset": ["X"]},
  "addons": {"gpu": {"env": {"prepend": {"LIB": "/gpu"}}}}
}`

	tomlDescription = `launcherType = "bin"

[config]
executable = "/bin/echo"
args = ["a"]

[env]
unset = ["X"]

[env.append]
GREETING = ["hi"]

[addons.gpu.env.prepend]
LIB = "/gpu"
`

	cueDescription = `launcherType: "bin"
config: {
	executable: "/bin/echo"
	args: ["a"]
}
env: {
	append: GREETING: ["hi"]
	unset: ["X"]
}
addons: gpu: env: prepend: LIB: "/gpu"
`
)

func TestLoadFile_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		file     string
		contents string
	}{
		{name: "json", file: "tool.json", contents: jsonDescription},
		{name: "toml", file: "tool.toml", contents: tomlDescription},
		{name: "cue", file: "tool.cue", contents: cueDescription},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, t.TempDir(), tt.file, tt.contents)
			desc, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile() unexpected error: %v", err)
			}

			if desc.LauncherType != "bin" {
				t.Errorf("LauncherType = %q, want bin", desc.LauncherType)
			}
			if args, err := desc.Config.Strings("args"); err != nil || !slices.Equal(args, []string{"a"}) {
				t.Errorf("args = %v, %v", args, err)
			}
			if got, err := desc.Env.Append("GREETING"); err != nil || !slices.Equal(got, []string{"hi"}) {
				t.Errorf("Append(GREETING) = %v, %v", got, err)
			}
			if got := desc.Env.UnsetNames(); !slices.Equal(got, []string{"X"}) {
				t.Errorf("UnsetNames() = %v", got)
			}
			gpu, ok := desc.Addons["gpu"]
			if !ok {
				t.Fatal("addon gpu missing")
			}
			if got, err := gpu.Prepend("LIB"); err != nil || !slices.Equal(got, []string{"/gpu"}) {
				t.Errorf("gpu Prepend(LIB) = %v, %v", got, err)
			}
		})
	}
}

func TestLoadFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	if _, err := LoadFile(writeFile(t, dir, "tool.yaml", "x: 1")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("yaml error = %v, want ErrUnsupportedFormat", err)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}

	if _, err := LoadFile(writeFile(t, dir, "bad.json", "{")); err == nil || !strings.Contains(err.Error(), "invalid JSON") {
		t.Errorf("bad json error = %v", err)
	}

	if _, err := LoadFile(writeFile(t, dir, "root.json", "[1, 2]")); !errors.Is(err, ErrUnexpectedContent) {
		t.Errorf("array root error = %v, want ErrUnexpectedContent", err)
	}

	if _, err := LoadFile(writeFile(t, dir, "bad.toml", "launcherType = ")); err == nil || !strings.Contains(err.Error(), "invalid TOML") {
		t.Errorf("bad toml error = %v", err)
	}

	cueErr := writeFile(t, dir, "bad.cue", "launcherType: \"bin\"\nenv: unset: [1]\n")
	if _, err := LoadFile(cueErr); err == nil || !strings.Contains(err.Error(), "env.unset[0]") {
		t.Errorf("bad cue error = %v, want field path", err)
	}
}
