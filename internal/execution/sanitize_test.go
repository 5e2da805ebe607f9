// SPDX-License-Identifier: MPL-2.0

package execution

import (
	"slices"
	"testing"
)

func TestSanitizeShellArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "first argument is never quoted",
			args: []string{"my tool; rm", "x"},
			want: []string{"my tool; rm", "x"},
		},
		{
			name: "bare words pass through",
			args: []string{"maya", "-batch", "scene_01", "v2"},
			want: []string{"maya", "-batch", "scene_01", "v2"},
		},
		{
			name: "spaces are quoted",
			args: []string{"cmd", "a b"},
			want: []string{"cmd", `"a b"`},
		},
		{
			name: "embedded quotes are escaped",
			args: []string{"cmd", `x"y`},
			want: []string{"cmd", `"x\"y"`},
		},
		{
			name: "shell metacharacters are quoted",
			args: []string{"cmd", "$(id)", "a;b", "/path/to.file"},
			want: []string{"cmd", `"$(id)"`, `"a;b"`, `"/path/to.file"`},
		},
		{
			name: "empty argument is quoted",
			args: []string{"cmd", ""},
			want: []string{"cmd", `""`},
		},
		{
			name: "no arguments",
			args: []string{},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := SanitizeShellArgs(tt.args)
			if !slices.Equal(got, tt.want) {
				t.Errorf("SanitizeShellArgs(%q) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestJoinShellArgs(t *testing.T) {
	t.Parallel()

	got := JoinShellArgs([]string{"echo", "hello", "big world"})
	if want := `echo hello "big world"`; got != want {
		t.Errorf("JoinShellArgs() = %q, want %q", got, want)
	}
}

func TestSanitizeShellArgs_DoesNotModifyInput(t *testing.T) {
	t.Parallel()

	args := []string{"cmd", "a b"}
	_ = SanitizeShellArgs(args)
	if args[1] != "a b" {
		t.Errorf("input modified: %q", args)
	}
}
