// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"testing"

	"github.com/invowk/varmerge/pkg/metadata"
	"github.com/invowk/varmerge/pkg/varpkg"
)

type (
	installCall struct {
		target installTarget
		pkg    string
		name   string
	}

	// recordingInstaller captures install calls instead of touching a namespace.
	recordingInstaller struct {
		calls       []installCall
		overridable []candidate
	}
)

func (ri *recordingInstaller) install(target installTarget, pkg Package, name string, _ metadata.Metadata) error {
	ri.calls = append(ri.calls, installCall{target: target, pkg: pkg.Label(), name: name})
	return nil
}

func (ri *recordingInstaller) installOverridable(_ string, c candidate) error {
	ri.overridable = append(ri.overridable, c)
	return nil
}

func testPackage(t *testing.T, label string) *varpkg.Package {
	t.Helper()
	p, err := varpkg.New(label)
	if err != nil {
		t.Fatalf("varpkg.New(%q) error = %v", label, err)
	}
	return p
}

func dep(d metadata.Dependency, opts ...metadata.Option) metadata.Metadata {
	return metadata.New(metadata.Cell, append(opts, metadata.WithDependency(d))...)
}

func TestTracker_IngestRoutesByDependency(t *testing.T) {
	t.Parallel()

	tr := newTracker(KindField)
	inst := &recordingInstaller{}
	foo := testPackage(t, "foo")

	for name, d := range map[string]metadata.Dependency{
		"secret": metadata.Private,
		"rho":    metadata.Provides,
		"eps":    metadata.Requires,
		"gamma":  metadata.Overridable,
	} {
		if err := tr.ingest(foo, name, dep(d), inst); err != nil {
			t.Fatalf("ingest(%s) error = %v", name, err)
		}
	}

	if len(inst.calls) != 2 {
		t.Fatalf("install calls = %d, want 2 (private + provides)", len(inst.calls))
	}
	for _, c := range inst.calls {
		switch c.name {
		case "secret":
			if c.target != targetQualified {
				t.Errorf("private target = %v, want qualified", c.target)
			}
		case "rho":
			if c.target != targetBare {
				t.Errorf("provides target = %v, want bare", c.target)
			}
		default:
			t.Errorf("unexpected install of %q", c.name)
		}
	}
	if _, ok := tr.required["eps"]; !ok {
		t.Error("requires was not recorded")
	}
	if tr.overrides["gamma"] != 1 {
		t.Errorf("overrides[gamma] = %d, want 1", tr.overrides["gamma"])
	}
}

func TestTracker_DuplicateProvider(t *testing.T) {
	t.Parallel()

	tr := newTracker(KindField)
	inst := &recordingInstaller{}

	if err := tr.ingest(testPackage(t, "a"), "rho", dep(metadata.Provides), inst); err != nil {
		t.Fatalf("first provides error = %v", err)
	}
	err := tr.ingest(testPackage(t, "b"), "rho", dep(metadata.Provides), inst)

	var dup *DuplicateProviderError
	if !errors.As(err, &dup) {
		t.Fatalf("second provides error = %v, want *DuplicateProviderError", err)
	}
	if dup.Name != "rho" || len(dup.Providers) != 2 || dup.Providers[0] != "a" || dup.Providers[1] != "b" {
		t.Errorf("DuplicateProviderError = %+v, want rho by [a b]", dup)
	}
}

func TestTracker_SparseProvidesFromOnePackage(t *testing.T) {
	t.Parallel()

	tr := newTracker(KindField)
	inst := &recordingInstaller{}
	a := testPackage(t, "a")

	for _, id := range []int{1, 2} {
		if err := tr.ingest(a, "frac", dep(metadata.Provides, metadata.WithSparseID(id)), inst); err != nil {
			t.Fatalf("provides frac[%d] error = %v", id, err)
		}
	}
	if err := tr.ingest(a, "frac", dep(metadata.Provides, metadata.WithSparseID(1)), inst); !errors.Is(err, ErrDuplicateProvider) {
		t.Errorf("same id twice error = %v, want ErrDuplicateProvider", err)
	}
	err := tr.ingest(testPackage(t, "b"), "frac", dep(metadata.Provides, metadata.WithSparseID(3)), inst)
	if !errors.Is(err, ErrDuplicateProvider) {
		t.Errorf("other package error = %v, want ErrDuplicateProvider", err)
	}
}

func TestTracker_UnknownDependency(t *testing.T) {
	t.Parallel()

	tr := newTracker(KindSwarm)
	err := tr.ingest(testPackage(t, "a"), "tracers", metadata.New(metadata.NoFlags), &recordingInstaller{})

	var unknown *UnknownDependencyError
	if !errors.As(err, &unknown) {
		t.Fatalf("ingest(unset) error = %v, want *UnknownDependencyError", err)
	}
	if unknown.Kind != KindSwarm || unknown.Name != "tracers" {
		t.Errorf("UnknownDependencyError = %+v", unknown)
	}
}

func TestTracker_CheckRequires(t *testing.T) {
	t.Parallel()

	tr := newTracker(KindField)
	inst := &recordingInstaller{}
	_ = tr.ingest(testPackage(t, "b"), "eps", dep(metadata.Requires), inst)
	_ = tr.ingest(testPackage(t, "a"), "eps", dep(metadata.Requires), inst)

	var unsat *UnsatisfiedRequirementError
	if err := tr.checkRequires(); !errors.As(err, &unsat) {
		t.Fatalf("checkRequires() error = %v, want *UnsatisfiedRequirementError", err)
	}
	if unsat.Name != "eps" || len(unsat.RequiredBy) != 2 || unsat.RequiredBy[0] != "a" {
		t.Errorf("UnsatisfiedRequirementError = %+v, want eps required by [a b]", unsat)
	}

	_ = tr.ingest(testPackage(t, "c"), "eps", dep(metadata.Provides), inst)
	if err := tr.checkRequires(); err != nil {
		t.Errorf("checkRequires() after provides error = %v", err)
	}
}

func TestTracker_OverridableCandidates(t *testing.T) {
	t.Parallel()

	tr := newTracker(KindField)
	inst := &recordingInstaller{}
	a, b := testPackage(t, "a"), testPackage(t, "b")

	// plain: first wins, later occurrences only counted
	_ = tr.ingest(a, "gamma", dep(metadata.Overridable, metadata.WithShape(1)), inst)
	_ = tr.ingest(b, "gamma", dep(metadata.Overridable, metadata.WithShape(2)), inst)
	// sparse: first per id wins
	_ = tr.ingest(a, "frac", dep(metadata.Overridable, metadata.WithSparseID(1)), inst)
	_ = tr.ingest(b, "frac", dep(metadata.Overridable, metadata.WithSparseID(1)), inst)
	_ = tr.ingest(b, "frac", dep(metadata.Overridable, metadata.WithSparseID(2)), inst)

	if tr.overrides["gamma"] != 2 || tr.overrides["frac"] != 3 {
		t.Errorf("overrides = %v, want gamma:2 frac:3", tr.overrides)
	}
	if got := tr.candidates["gamma"]; len(got) != 1 || got[0].pkg != "a" {
		t.Errorf("gamma candidates = %+v, want one from a", got)
	}
	if got := tr.candidates["frac"]; len(got) != 2 || got[0].pkg != "a" || got[1].pkg != "b" {
		t.Errorf("frac candidates = %+v, want id 1 from a, id 2 from b", got)
	}

	diags, err := tr.resolveOverridable(inst)
	if err != nil {
		t.Fatalf("resolveOverridable() error = %v", err)
	}
	if len(diags) != 2 {
		t.Fatalf("diagnostics = %d, want 2", len(diags))
	}
	if diags[0].Variable != "frac" || diags[1].Variable != "gamma" {
		t.Errorf("diagnostic order = [%s %s], want [frac gamma]", diags[0].Variable, diags[1].Variable)
	}
	if len(inst.overridable) != 3 {
		t.Errorf("installed candidates = %d, want 3", len(inst.overridable))
	}
}

func TestTracker_OverridableDroppedWhenProvided(t *testing.T) {
	t.Parallel()

	tr := newTracker(KindField)
	inst := &recordingInstaller{}
	_ = tr.ingest(testPackage(t, "a"), "gamma", dep(metadata.Overridable), inst)
	_ = tr.ingest(testPackage(t, "b"), "gamma", dep(metadata.Overridable), inst)
	_ = tr.ingest(testPackage(t, "c"), "gamma", dep(metadata.Provides), inst)

	diags, err := tr.resolveOverridable(inst)
	if err != nil {
		t.Fatalf("resolveOverridable() error = %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("diagnostics = %+v, want none", diags)
	}
	if len(inst.overridable) != 0 {
		t.Errorf("installed candidates = %d, want 0", len(inst.overridable))
	}
}
