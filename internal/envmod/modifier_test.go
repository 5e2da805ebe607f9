// SPDX-License-Identifier: MPL-2.0

package envmod

import (
	"context"
	"errors"
	"maps"
	"slices"
	"testing"

	"github.com/ulauncher/ulauncher/internal/resolve"
)

func generate(t *testing.T, m Modifier) map[string]string {
	t.Helper()

	env, err := m.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	return env
}

func TestModifier_PrependOrder(t *testing.T) {
	t.Parallel()

	m := New(map[string]string{"PATH": "A"}).
		AddPrepend("PATH", String("C")).
		AddPrepend("PATH", String("B"))

	if got := generate(t, m)["PATH"]; got != "B:C:A" {
		t.Errorf("PATH = %q, want %q", got, "B:C:A")
	}

	raw, err := m.Prepend("PATH")
	if err != nil {
		t.Fatalf("Prepend() unexpected error: %v", err)
	}
	if want := []string{"B", "C"}; !slices.Equal(raw, want) {
		t.Errorf("Prepend() = %v, want %v", raw, want)
	}
}

func TestModifier_PrependListKeepsOrder(t *testing.T) {
	t.Parallel()

	m := New(map[string]string{"PATH": "A"}).
		AddPrepend("PATH", String("Z")).
		AddPrepend("PATH", List("X", "Y"))

	if got := generate(t, m)["PATH"]; got != "X:Y:Z:A" {
		t.Errorf("PATH = %q, want %q", got, "X:Y:Z:A")
	}
}

func TestModifier_AppendOrder(t *testing.T) {
	t.Parallel()

	m := New(map[string]string{"PATH": "C"}).
		AddAppend("PATH", String("A")).
		AddAppend("PATH", List("B", "D"))

	if got := generate(t, m)["PATH"]; got != "C:A:B:D" {
		t.Errorf("PATH = %q, want %q", got, "C:A:B:D")
	}
}

func TestModifier_EmptyBaseValueHasNoSeparator(t *testing.T) {
	t.Parallel()

	m := New(map[string]string{"EMPTY": ""}).
		AddPrepend("EMPTY", String("front")).
		AddAppend("NEW", String("back"))

	env := generate(t, m)
	if env["EMPTY"] != "front" {
		t.Errorf("EMPTY = %q, want %q", env["EMPTY"], "front")
	}
	if env["NEW"] != "back" {
		t.Errorf("NEW = %q, want %q", env["NEW"], "back")
	}
}

func TestModifier_OverrideLastWins(t *testing.T) {
	t.Parallel()

	m := New(map[string]string{"A": "base"}).
		SetOverride("A", String("first")).
		SetOverride("A", List("x", "y"))

	if got := generate(t, m)["A"]; got != "x:y" {
		t.Errorf("A = %q, want %q", got, "x:y")
	}

	v, err := m.Override("A")
	if err != nil {
		t.Fatalf("Override() unexpected error: %v", err)
	}
	if !v.IsList() || v.String() != "x:y" {
		t.Errorf("Override() = %v (list=%v), want list x:y", v, v.IsList())
	}
}

func TestModifier_UnsetAfterEverything(t *testing.T) {
	t.Parallel()

	m := New(map[string]string{"A": "1", "B": "2"}).
		AddUnset("A").
		AddAppend("A", String("x")).
		SetOverride("A", String("y")).
		AddUnset("MISSING")

	env := generate(t, m)
	if _, ok := env["A"]; ok {
		t.Errorf("A present in env = %q, want removed", env["A"])
	}
	if env["B"] != "2" {
		t.Errorf("B = %q, want %q", env["B"], "2")
	}
}

func TestModifier_KindOrderIndependentOfInsertion(t *testing.T) {
	t.Parallel()

	base := map[string]string{"V": "base"}

	first := New(base).
		SetOverride("V", String("over")).
		AddPrepend("V", String("pre")).
		AddAppend("V", String("post"))

	second := New(base).
		AddAppend("V", String("post")).
		AddPrepend("V", String("pre")).
		SetOverride("V", String("over"))

	a, b := generate(t, first), generate(t, second)
	if !maps.Equal(a, b) {
		t.Errorf("Generate() differs by insertion order: %v vs %v", a, b)
	}
	if a["V"] != "over" {
		t.Errorf("V = %q, want %q", a["V"], "over")
	}
}

func TestModifier_GenerateIsIdempotent(t *testing.T) {
	t.Parallel()

	base := map[string]string{"PATH": "/usr/bin", "HOME": "/home/u"}
	m := New(base).
		AddPrepend("PATH", String("$HOME/bin")).
		AddAppend("PATH", String("/opt/bin"))

	first := generate(t, m)
	second := generate(t, m)
	if !maps.Equal(first, second) {
		t.Errorf("Generate() not idempotent: %v vs %v", first, second)
	}
	if first["PATH"] != "/home/u/bin:/usr/bin:/opt/bin" {
		t.Errorf("PATH = %q, want %q", first["PATH"], "/home/u/bin:/usr/bin:/opt/bin")
	}

	base["PATH"] = "mutated"
	if got := m.Base()["PATH"]; got != "/usr/bin" {
		t.Errorf("Base() aliased caller map: PATH = %q", got)
	}
}

func TestModifier_BuildersDoNotAlias(t *testing.T) {
	t.Parallel()

	root := New(nil).AddAppend("A", String("1"))
	left := root.AddAppend("A", String("left"))
	right := root.AddAppend("A", String("right"))

	if got := generate(t, left)["A"]; got != "1:left" {
		t.Errorf("left A = %q, want %q", got, "1:left")
	}
	if got := generate(t, right)["A"]; got != "1:right" {
		t.Errorf("right A = %q, want %q", got, "1:right")
	}
	if got := generate(t, root)["A"]; got != "1" {
		t.Errorf("root A = %q, want %q", got, "1")
	}
}

func TestModifier_MergeEquivalentToDirectRegistration(t *testing.T) {
	t.Parallel()

	base := map[string]string{"PATH": "A", "X": "x"}

	layer := New(nil).
		AddPrepend("PATH", String("C")).
		AddPrepend("PATH", String("B")).
		AddAppend("PATH", List("D", "E")).
		SetOverride("O", String("o")).
		AddUnset("X")

	merged := New(base).AddPrepend("PATH", String("P")).Merge(layer)

	direct := New(base).
		AddPrepend("PATH", String("P")).
		AddPrepend("PATH", List("B", "C")).
		AddAppend("PATH", List("D", "E")).
		SetOverride("O", String("o")).
		AddUnset("X")

	got, want := generate(t, merged), generate(t, direct)
	if !maps.Equal(got, want) {
		t.Errorf("Merge() = %v, want %v", got, want)
	}
	if got["PATH"] != "B:C:P:A:D:E" {
		t.Errorf("PATH = %q, want %q", got["PATH"], "B:C:P:A:D:E")
	}
}

func TestModifier_Names(t *testing.T) {
	t.Parallel()

	m := New(nil).
		AddAppend("B", String("1")).
		AddAppend("A", String("2")).
		AddAppend("B", String("3")).
		AddUnset("U").
		SetOverride("O", String("o"))

	if got, want := m.AppendNames(), []string{"B", "A"}; !slices.Equal(got, want) {
		t.Errorf("AppendNames() = %v, want %v", got, want)
	}
	if got := m.PrependNames(); len(got) != 0 {
		t.Errorf("PrependNames() = %v, want empty", got)
	}
	if got, want := m.OverrideNames(), []string{"O"}; !slices.Equal(got, want) {
		t.Errorf("OverrideNames() = %v, want %v", got, want)
	}
	if got, want := m.UnsetNames(), []string{"U"}; !slices.Equal(got, want) {
		t.Errorf("UnsetNames() = %v, want %v", got, want)
	}
	if len(m.Records()) != 5 {
		t.Errorf("len(Records()) = %d, want 5", len(m.Records()))
	}
}

func TestModifier_LookupUnknownVariable(t *testing.T) {
	t.Parallel()

	m := New(nil).AddAppend("A", String("1"))

	tests := []struct {
		name   string
		lookup func() error
		kind   Kind
	}{
		{name: "prepend", lookup: func() error { _, err := m.Prepend("A"); return err }, kind: KindPrepend},
		{name: "append", lookup: func() error { _, err := m.Append("Z"); return err }, kind: KindAppend},
		{name: "override", lookup: func() error { _, err := m.Override("A"); return err }, kind: KindOverride},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.lookup()
			if !errors.Is(err, ErrInvalidVar) {
				t.Fatalf("error = %v, want ErrInvalidVar", err)
			}
			var invalid *InvalidVarError
			if !errors.As(err, &invalid) || invalid.Kind != tt.kind {
				t.Errorf("error = %#v, want InvalidVarError with kind %s", err, tt.kind)
			}
		})
	}
}

func TestModifier_GenerateResolveFailure(t *testing.T) {
	t.Parallel()

	m := New(map[string]string{"A": "1"}).
		AddAppend("A", String("ok")).
		SetOverride("B", String("$(echo nope >&2)"))

	env, err := m.Generate(context.Background())
	if !errors.Is(err, resolve.ErrResolve) {
		t.Fatalf("Generate() error = %v, want ErrResolve", err)
	}
	if env != nil {
		t.Errorf("Generate() returned partial env %v", env)
	}
}

func TestModifier_ZeroValue(t *testing.T) {
	t.Parallel()

	var m Modifier
	env := generate(t, m.AddAppend("A", String("1")))
	if env["A"] != "1" {
		t.Errorf("A = %q, want %q", env["A"], "1")
	}
	if !m.IsEmpty() {
		t.Error("zero Modifier should be empty")
	}
}
