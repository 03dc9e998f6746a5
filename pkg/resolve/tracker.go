// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"fmt"
	"maps"
	"slices"

	"github.com/invowk/varmerge/pkg/metadata"
)

const (
	// targetQualified installs under "<package>::<name>".
	targetQualified installTarget = iota
	// targetBare installs under the bare name.
	targetBare
)

type (
	// installTarget selects the name a classified declaration is installed under.
	installTarget int

	// installer places classified declarations into the namespace. There is one
	// implementation per namespace kind.
	installer interface {
		install(target installTarget, pkg Package, name string, m metadata.Metadata) error
		installOverridable(name string, c candidate) error
	}

	// candidate is an overridable declaration kept for phase 3.
	candidate struct {
		pkg  string
		meta metadata.Metadata
	}

	// tracker classifies the declarations of one namespace kind during one
	// resolution run.
	tracker struct {
		kind Kind
		// provided maps a name to the package providing it.
		provided map[string]string
		// providedKeys holds every provided (name, sparse id) pair.
		providedKeys map[metadata.SparseKey]struct{}
		// required maps a name to the packages requiring it.
		required map[string][]string
		// overrides counts overridable registrations per name, once per
		// package x sparse id.
		overrides map[string]int
		// overridePackages lists the packages offering a default per name.
		overridePackages map[string][]string
		// candidateKeys deduplicates candidates by (name, sparse id).
		candidateKeys map[metadata.SparseKey]struct{}
		// candidates keeps the first declaration seen per key, in order.
		candidates map[string][]candidate
	}
)

func newTracker(kind Kind) *tracker {
	return &tracker{
		kind:             kind,
		provided:         make(map[string]string),
		providedKeys:     make(map[metadata.SparseKey]struct{}),
		required:         make(map[string][]string),
		overrides:        make(map[string]int),
		overridePackages: make(map[string][]string),
		candidateKeys:    make(map[metadata.SparseKey]struct{}),
		candidates:       make(map[string][]candidate),
	}
}

// ingest classifies one declaration by its dependency kind.
//
// A package may provide several sparse variants of one name; any other repeated
// Provides of a name is a conflict.
func (t *tracker) ingest(pkg Package, name string, m metadata.Metadata, inst installer) error {
	label := pkg.Label()

	switch m.Dependency() {
	case metadata.Private:
		return inst.install(targetQualified, pkg, name, m)

	case metadata.Provides:
		key := m.Key(name)
		if owner, ok := t.provided[name]; ok {
			_, sameKey := t.providedKeys[key]
			if owner != label || !m.IsSparse() || sameKey {
				return &DuplicateProviderError{Kind: t.kind, Name: name, Providers: uniqueSorted(owner, label)}
			}
		} else {
			t.provided[name] = label
		}
		t.providedKeys[key] = struct{}{}
		return inst.install(targetBare, pkg, name, m)

	case metadata.Requires:
		if !slices.Contains(t.required[name], label) {
			t.required[name] = append(t.required[name], label)
		}
		return nil

	case metadata.Overridable:
		t.overrides[name]++
		if !slices.Contains(t.overridePackages[name], label) {
			t.overridePackages[name] = append(t.overridePackages[name], label)
		}
		key := m.Key(name)
		if _, seen := t.candidateKeys[key]; !seen {
			t.candidateKeys[key] = struct{}{}
			t.candidates[name] = append(t.candidates[name], candidate{pkg: label, meta: m})
		}
		return nil

	default:
		return &UnknownDependencyError{Kind: t.kind, Package: label, Name: name, Dependency: m.Dependency()}
	}
}

// checkRequires fails on the first required name (in ascending order) that no
// package provides.
func (t *tracker) checkRequires() error {
	for _, name := range slices.Sorted(maps.Keys(t.required)) {
		if _, ok := t.provided[name]; ok {
			continue
		}
		requiredBy := slices.Clone(t.required[name])
		slices.Sort(requiredBy)
		return &UnsatisfiedRequirementError{Kind: t.kind, Name: name, RequiredBy: requiredBy}
	}
	return nil
}

// resolveOverridable installs the candidates of every overridable name that is not
// provided. Names registered more than once produce a warning diagnostic.
func (t *tracker) resolveOverridable(inst installer) ([]Diagnostic, error) {
	var diags []Diagnostic

	for _, name := range slices.Sorted(maps.Keys(t.overrides)) {
		if _, ok := t.provided[name]; ok {
			continue
		}

		cands := t.candidates[name]
		if t.overrides[name] > 1 {
			pkgs := slices.Clone(t.overridePackages[name])
			slices.Sort(pkgs)
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeAmbiguousOverridable,
				Message: fmt.Sprintf("%s %q registered as overridable %d times, but never provided; using the declaration from %s",
					t.kind, name, t.overrides[name], cands[0].pkg),
				Kind:     t.kind,
				Variable: name,
				Packages: pkgs,
				Winner:   cands[0].pkg,
			})
		}

		for _, c := range cands {
			if err := inst.installOverridable(name, c); err != nil {
				return diags, fmt.Errorf("install overridable %s %q from package %s: %w", t.kind, name, c.pkg, err)
			}
		}
	}

	return diags, nil
}

// isProvided reports whether name has a provider, and which.
func (t *tracker) isProvided(name string) (string, bool) {
	owner, ok := t.provided[name]
	return owner, ok
}

func uniqueSorted(labels ...string) []string {
	out := slices.Clone(labels)
	slices.Sort(out)
	return slices.Compact(out)
}
