// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"errors"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	m := New(Cell | FillGhost)

	if m.Dependency() != DependencyUnset {
		t.Errorf("Dependency() = %v, want %v", m.Dependency(), DependencyUnset)
	}
	if m.IsSparse() {
		t.Error("IsSparse() = true, want false")
	}
	if m.SparseID() != NoSparseID {
		t.Errorf("SparseID() = %d, want %d", m.SparseID(), NoSparseID)
	}
	if m.Associated() != "" {
		t.Errorf("Associated() = %q, want empty", m.Associated())
	}
}

func TestWithSparseID_SetsSparseFlag(t *testing.T) {
	t.Parallel()

	m := New(Cell, WithSparseID(4))

	if !m.IsSparse() {
		t.Fatal("IsSparse() = false, want true")
	}
	if m.SparseID() != 4 {
		t.Errorf("SparseID() = %d, want 4", m.SparseID())
	}
	if got := m.Key("frac"); got != (SparseKey{Name: "frac", ID: 4}) {
		t.Errorf("Key() = %v, want frac[4]", got)
	}
}

func TestShape_IsCopied(t *testing.T) {
	t.Parallel()

	shape := []int{3, 2}
	m := New(Cell, WithShape(shape...))
	shape[0] = 99

	got := m.Shape()
	if got[0] != 3 {
		t.Errorf("Shape()[0] = %d, want 3 (input mutation leaked)", got[0])
	}
	got[1] = 42
	if m.Shape()[1] != 2 {
		t.Error("Shape() returned an aliased slice")
	}
}

func TestFlagsSet(t *testing.T) {
	t.Parallel()

	m := New(Cell | FillGhost | Independent)

	tests := []struct {
		name     string
		flags    []Flag
		matchAny bool
		want     bool
	}{
		{"any hit", []Flag{Face, FillGhost}, true, true},
		{"any miss", []Flag{Face, Node}, true, false},
		{"all hit", []Flag{Cell, Independent}, false, true},
		{"all partial", []Flag{Cell, Face}, false, false},
		{"empty any", nil, true, false},
		{"empty all", nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := m.FlagsSet(tt.flags, tt.matchAny); got != tt.want {
				t.Errorf("FlagsSet(%v, %v) = %v, want %v", tt.flags, tt.matchAny, got, tt.want)
			}
		})
	}
}

func TestSparseEqual(t *testing.T) {
	t.Parallel()

	a := New(Cell, WithSparseID(1), WithShape(3), WithDependency(Provides))
	b := New(Cell, WithSparseID(2), WithShape(3), WithDependency(Overridable))
	c := New(Cell, WithSparseID(3), WithShape(2))
	d := New(Face, WithSparseID(4), WithShape(3))

	if !a.SparseEqual(b) {
		t.Error("SparseEqual() = false for variants differing only in id and dependency")
	}
	if a.SparseEqual(c) {
		t.Error("SparseEqual() = true for different shapes")
	}
	if a.SparseEqual(d) {
		t.Error("SparseEqual() = true for different flags")
	}
	if a.Equal(b) {
		t.Error("Equal() = true for different ids")
	}
}

func TestString_FlagSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		m    Metadata
		want string
	}{
		{"plain", New(Cell|FillGhost, WithDependency(Provides)), "Cell,FillGhost,Provides"},
		{"unset", New(NoFlags), "Unset"},
		{"shape", New(Cell|Vector, WithShape(3), WithDependency(Private)), "Cell,Vector,Private shape=(3)"},
		{"sparse", New(Cell, WithSparseID(2), WithDependency(Overridable)), "Cell,Sparse,Overridable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.m.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDependency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Dependency
		wantErr bool
	}{
		{"", DependencyUnset, false},
		{"Provides", Provides, false},
		{" requires ", Requires, false},
		{"PRIVATE", Private, false},
		{"overridable", Overridable, false},
		{"exports", DependencyUnset, true},
	}

	for _, tt := range tests {
		got, err := ParseDependency(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDependency(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrInvalidDependency) {
			t.Errorf("ParseDependency(%q) error does not wrap ErrInvalidDependency", tt.in)
		}
		if got != tt.want {
			t.Errorf("ParseDependency(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDependency_IsConcrete(t *testing.T) {
	t.Parallel()

	if DependencyUnset.IsConcrete() {
		t.Error("DependencyUnset.IsConcrete() = true")
	}
	if Dependency(42).IsConcrete() {
		t.Error("Dependency(42).IsConcrete() = true")
	}
	for _, d := range []Dependency{Private, Provides, Requires, Overridable} {
		if !d.IsConcrete() {
			t.Errorf("%v.IsConcrete() = false", d)
		}
	}
}

func TestParseFlags(t *testing.T) {
	t.Parallel()

	got, err := ParseFlags([]string{"cell", "FillGhost", " independent"})
	if err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	if want := Cell | FillGhost | Independent; got != want {
		t.Errorf("ParseFlags() = %v, want %v", got, want)
	}

	_, err = ParseFlags([]string{"Cell", "Ghostly"})
	var flagErr *InvalidFlagError
	if !errors.As(err, &flagErr) {
		t.Fatalf("ParseFlags() error = %v, want *InvalidFlagError", err)
	}
	if flagErr.Value != "Ghostly" {
		t.Errorf("InvalidFlagError.Value = %q, want Ghostly", flagErr.Value)
	}
}

func TestSparseMismatchError(t *testing.T) {
	t.Parallel()

	err := error(&SparseMismatchError{
		Name: "frac",
		Want: New(Cell, WithSparseID(1)),
		Got:  New(Face, WithSparseID(2)),
	})
	if !errors.Is(err, ErrSparseMismatch) {
		t.Error("SparseMismatchError does not wrap ErrSparseMismatch")
	}
}
