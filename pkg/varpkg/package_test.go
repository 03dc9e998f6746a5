// SPDX-License-Identifier: MPL-2.0

package varpkg

import (
	"errors"
	"slices"
	"testing"

	"github.com/invowk/varmerge/pkg/metadata"
)

func mustNew(t *testing.T, label string) *Package {
	t.Helper()
	p, err := New(label)
	if err != nil {
		t.Fatalf("New(%q) error = %v", label, err)
	}
	return p
}

func TestNew_ValidatesLabel(t *testing.T) {
	t.Parallel()

	for _, label := range []string{"", "hydro dynamics", "a::b", "tab\tbed"} {
		_, err := New(label)
		if !errors.Is(err, ErrInvalidLabel) {
			t.Errorf("New(%q) error = %v, want ErrInvalidLabel", label, err)
		}
	}

	p := mustNew(t, "hydro")
	if p.Label() != "hydro" {
		t.Errorf("Label() = %q, want hydro", p.Label())
	}
}

func TestAddField_Plain(t *testing.T) {
	t.Parallel()

	p := mustNew(t, "hydro")
	if err := p.AddField("density", metadata.New(metadata.Cell)); err != nil {
		t.Fatalf("AddField() error = %v", err)
	}

	err := p.AddField("density", metadata.New(metadata.Face))
	if !errors.Is(err, ErrDuplicateDeclaration) {
		t.Errorf("AddField() duplicate error = %v, want ErrDuplicateDeclaration", err)
	}

	for _, name := range []string{"", "  ", "other::density"} {
		if err := p.AddField(name, metadata.New(metadata.Cell)); !errors.Is(err, ErrInvalidName) {
			t.Errorf("AddField(%q) error = %v, want ErrInvalidName", name, err)
		}
	}

	if got := len(p.AllFields()); got != 1 {
		t.Errorf("len(AllFields()) = %d, want 1", got)
	}
}

func TestAddField_Sparse(t *testing.T) {
	t.Parallel()

	p := mustNew(t, "chem")
	for _, id := range []int{3, 1} {
		if err := p.AddField("frac", metadata.New(metadata.Cell, metadata.WithSparseID(id))); err != nil {
			t.Fatalf("AddField(frac[%d]) error = %v", id, err)
		}
	}

	err := p.AddField("frac", metadata.New(metadata.Cell, metadata.WithSparseID(1)))
	if !errors.Is(err, ErrDuplicateDeclaration) {
		t.Errorf("duplicate sparse id error = %v, want ErrDuplicateDeclaration", err)
	}

	err = p.AddField("frac", metadata.New(metadata.Face, metadata.WithSparseID(7)))
	if !errors.Is(err, metadata.ErrSparseMismatch) {
		t.Errorf("mismatched variant error = %v, want ErrSparseMismatch", err)
	}

	err = p.AddField("frac", metadata.New(metadata.Cell))
	if !errors.Is(err, ErrDuplicateDeclaration) {
		t.Errorf("plain over sparse error = %v, want ErrDuplicateDeclaration", err)
	}

	variants := p.AllSparseFields()["frac"]
	ids := make([]int, 0, len(variants))
	for _, m := range variants {
		ids = append(ids, m.SparseID())
	}
	if !slices.Equal(ids, []int{3, 1}) {
		t.Errorf("sparse ids = %v, want [3 1] (declaration order)", ids)
	}
}

func TestSwarms(t *testing.T) {
	t.Parallel()

	p := mustNew(t, "particles")
	if err := p.AddSwarmValue("id", "tracers", metadata.New(metadata.Integer)); !errors.Is(err, ErrSwarmNotDeclared) {
		t.Errorf("AddSwarmValue() before AddSwarm error = %v, want ErrSwarmNotDeclared", err)
	}
	if err := p.AddSwarm("tracers", metadata.New(metadata.NoFlags)); err != nil {
		t.Fatalf("AddSwarm() error = %v", err)
	}
	if err := p.AddSwarm("tracers", metadata.New(metadata.NoFlags)); !errors.Is(err, ErrDuplicateDeclaration) {
		t.Errorf("AddSwarm() duplicate error = %v, want ErrDuplicateDeclaration", err)
	}
	if err := p.AddSwarmValue("id", "tracers", metadata.New(metadata.Integer)); err != nil {
		t.Fatalf("AddSwarmValue() error = %v", err)
	}
	if err := p.AddSwarmValue("id", "tracers", metadata.New(metadata.Integer)); !errors.Is(err, ErrDuplicateDeclaration) {
		t.Errorf("AddSwarmValue() duplicate error = %v, want ErrDuplicateDeclaration", err)
	}

	if !p.SwarmPresent("tracers") {
		t.Error("SwarmPresent(tracers) = false")
	}
	if p.SwarmPresent("dust") {
		t.Error("SwarmPresent(dust) = true")
	}
	if got := p.AllSwarmValues("dust"); got != nil {
		t.Errorf("AllSwarmValues(dust) = %v, want nil", got)
	}
	if got := len(p.AllSwarmValues("tracers")); got != 1 {
		t.Errorf("len(AllSwarmValues(tracers)) = %d, want 1", got)
	}
}

func TestAccessors_ReturnCopies(t *testing.T) {
	t.Parallel()

	p := mustNew(t, "hydro")
	_ = p.AddField("density", metadata.New(metadata.Cell))
	_ = p.AddField("frac", metadata.New(metadata.Cell, metadata.WithSparseID(1)))

	fields := p.AllFields()
	delete(fields, "density")
	sparse := p.AllSparseFields()
	sparse["frac"][0] = metadata.New(metadata.Face)

	if _, ok := p.AllFields()["density"]; !ok {
		t.Error("deleting from AllFields() result modified the package")
	}
	if p.AllSparseFields()["frac"][0].IsSet(metadata.Face) {
		t.Error("modifying AllSparseFields() result modified the package")
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	p := mustNew(t, "hydro")
	_ = p.AddField("density", metadata.New(metadata.Cell))
	_ = p.AddField("energy", metadata.New(metadata.Cell, metadata.WithDependency(metadata.Requires)))
	_ = p.AddField("frac", metadata.New(metadata.Cell, metadata.WithSparseID(1)))
	_ = p.AddField("frac", metadata.New(metadata.Cell, metadata.WithSparseID(2), metadata.WithDependency(metadata.Overridable)))
	_ = p.AddSwarm("tracers", metadata.New(metadata.NoFlags))
	_ = p.AddSwarmValue("id", "tracers", metadata.New(metadata.Integer))

	p.Normalize()
	p.Normalize()

	fields := p.AllFields()
	if got := fields["density"].Dependency(); got != metadata.Provides {
		t.Errorf("density dependency = %v, want provides", got)
	}
	if got := fields["energy"].Dependency(); got != metadata.Requires {
		t.Errorf("energy dependency = %v, want requires", got)
	}
	frac := p.AllSparseFields()["frac"]
	if got := frac[0].Dependency(); got != metadata.Provides {
		t.Errorf("frac[1] dependency = %v, want provides", got)
	}
	if got := frac[1].Dependency(); got != metadata.Overridable {
		t.Errorf("frac[2] dependency = %v, want overridable", got)
	}
	if got := p.AllSwarms()["tracers"].Dependency(); got != metadata.Provides {
		t.Errorf("tracers dependency = %v, want provides", got)
	}
	if got := p.AllSwarmValues("tracers")["id"].Dependency(); got != metadata.DependencyUnset {
		t.Errorf("swarm value dependency = %v, want unset", got)
	}
}

func TestPackages_Labels(t *testing.T) {
	t.Parallel()

	ps := Packages{}
	for _, label := range []string{"zeta", "alpha", "mid"} {
		if err := ps.Add(mustNew(t, label)); err != nil {
			t.Fatalf("Add(%s) error = %v", label, err)
		}
	}
	if err := ps.Add(mustNew(t, "mid")); !errors.Is(err, ErrDuplicateDeclaration) {
		t.Errorf("Add(duplicate) error = %v, want ErrDuplicateDeclaration", err)
	}

	if got, want := ps.Labels(), []string{"alpha", "mid", "zeta"}; !slices.Equal(got, want) {
		t.Errorf("Labels() = %v, want %v", got, want)
	}
}

func TestQualify(t *testing.T) {
	t.Parallel()

	if got := Qualify("foo", "X"); got != "foo::X" {
		t.Errorf("Qualify() = %q, want foo::X", got)
	}
}
