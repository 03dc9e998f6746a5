// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"cmp"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/invowk/varmerge/pkg/metadata"
	"github.com/invowk/varmerge/pkg/namespace"
	"github.com/invowk/varmerge/pkg/varpkg"

	"github.com/charmbracelet/log"
)

type (
	// Package is the input contract of resolution. *varpkg.Package implements it.
	Package interface {
		Label() string
		AllFields() map[string]metadata.Metadata
		AllSparseFields() map[string][]metadata.Metadata
		AllSwarms() map[string]metadata.Metadata
		AllSwarmValues(swarm string) map[string]metadata.Metadata
		SwarmPresent(name string) bool
		// Normalize rewrites unset dependency kinds to Provides in place.
		Normalize()
	}

	// Option configures a Resolver.
	Option func(*Resolver)

	// Resolver merges packages into a namespace. The zero value is not usable;
	// call New.
	Resolver struct {
		logger *log.Logger
		strict bool
	}

	// Link records that Consumer requires a variable Provider provides.
	Link struct {
		Kind     Kind
		Variable string
		Provider string
		Consumer string
	}

	// Result is the outcome of a successful resolution.
	Result struct {
		// Namespace holds the merged bindings. It shares no state with the inputs.
		Namespace *namespace.Namespace
		// Diagnostics holds non-fatal findings in deterministic order.
		Diagnostics []Diagnostic
		// Packages lists the resolved package labels in ascending order.
		Packages []string
		// Links lists satisfied requirements, sorted by kind, variable and consumer.
		Links []Link
	}

	// fieldInstaller installs plain and sparse fields.
	fieldInstaller struct {
		ns *namespace.Namespace
	}

	// swarmInstaller installs swarms together with their values.
	swarmInstaller struct {
		ns       *namespace.Namespace
		packages []Package
	}
)

var _ Package = (*varpkg.Package)(nil)

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithLogger sets the logger used for phase progress and warnings.
func WithLogger(logger *log.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithStrict turns ambiguous overridable defaults into an error.
func WithStrict(strict bool) Option {
	return func(r *Resolver) { r.strict = strict }
}

// Packages resolves a label -> package mapping. Every key must equal the label
// of its package.
func Packages[P Package](packages map[string]P, opts ...Option) (*Result, error) {
	list := make([]Package, 0, len(packages))
	for _, key := range slices.Sorted(maps.Keys(packages)) {
		p := packages[key]
		if p.Label() != key {
			return nil, fmt.Errorf("%w: key %q holds package %q", ErrLabelMismatch, key, p.Label())
		}
		list = append(list, p)
	}
	return New(opts...).Resolve(list)
}

// Resolve merges packages into a new namespace. Packages are processed in ascending
// label order regardless of the order of the slice, so ambiguous defaults always
// resolve to the package with the lowest label.
//
// Resolve requires exclusive access to the packages for the duration of the call:
// unset dependency kinds are normalized in place.
func (r *Resolver) Resolve(packages []Package) (*Result, error) {
	sorted := slices.Clone(packages)
	slices.SortFunc(sorted, func(a, b Package) int {
		return cmp.Compare(a.Label(), b.Label())
	})
	labels := make([]string, 0, len(sorted))
	for i, p := range sorted {
		if i > 0 && sorted[i-1].Label() == p.Label() {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateLabel, p.Label())
		}
		labels = append(labels, p.Label())
	}

	ns := namespace.New(namespace.ResolvedLabel)
	fields := newTracker(KindField)
	swarms := newTracker(KindSwarm)
	fieldInst := &fieldInstaller{ns: ns}
	swarmInst := &swarmInstaller{ns: ns, packages: sorted}

	// Phase 1: normalize and classify every package.
	for _, p := range sorted {
		p.Normalize()
		if err := r.classify(p, fields, swarms, fieldInst, swarmInst); err != nil {
			return nil, err
		}
	}

	// Phase 2: every requirement needs a provider.
	if err := fields.checkRequires(); err != nil {
		return nil, err
	}
	if err := swarms.checkRequires(); err != nil {
		return nil, err
	}
	r.logger.Debug("requirements satisfied", "fields", len(fields.required), "swarms", len(swarms.required))

	// Phase 3: install defaults nobody provides.
	var diags []Diagnostic
	for _, step := range []struct {
		t    *tracker
		inst installer
	}{{fields, fieldInst}, {swarms, swarmInst}} {
		found, err := step.t.resolveOverridable(step.inst)
		if err != nil {
			return nil, err
		}
		diags = append(diags, found...)
	}

	for _, d := range diags {
		r.logger.Warn(d.Message, "variable", d.Variable, "packages", d.Packages)
		if r.strict && d.Code == CodeAmbiguousOverridable {
			return nil, &AmbiguousOverridableError{Kind: d.Kind, Name: d.Variable, Packages: d.Packages}
		}
	}

	stats := ns.Stats()
	r.logger.Debug("resolved namespace",
		"packages", len(sorted),
		"fields", stats.Fields,
		"sparse", stats.SparseVariants,
		"swarms", stats.Swarms,
		"swarm_values", stats.SwarmValues)

	return &Result{
		Namespace:   ns,
		Diagnostics: diags,
		Packages:    labels,
		Links:       append(links(fields), links(swarms)...),
	}, nil
}

// classify runs phase 1 for one package: plain fields, then sparse variants, then
// swarms, each in ascending name order.
func (r *Resolver) classify(p Package, fields, swarms *tracker, fieldInst, swarmInst installer) error {
	plain := p.AllFields()
	for _, name := range slices.Sorted(maps.Keys(plain)) {
		if err := fields.ingest(p, name, plain[name], fieldInst); err != nil {
			return wrapInstall(p, KindField, name, err)
		}
	}

	sparse := p.AllSparseFields()
	for _, name := range slices.Sorted(maps.Keys(sparse)) {
		for _, m := range sparse[name] {
			if err := fields.ingest(p, name, m, fieldInst); err != nil {
				return wrapInstall(p, KindField, m.Key(name).String(), err)
			}
		}
	}

	declared := p.AllSwarms()
	for _, name := range slices.Sorted(maps.Keys(declared)) {
		if err := swarms.ingest(p, name, declared[name], swarmInst); err != nil {
			return wrapInstall(p, KindSwarm, name, err)
		}
	}

	r.logger.Debug("classified package",
		"package", p.Label(),
		"fields", len(plain),
		"sparse", len(sparse),
		"swarms", len(declared))
	return nil
}

// wrapInstall adds package context to namespace errors. Classification errors
// already carry it and pass through unchanged.
func wrapInstall(p Package, kind Kind, name string, err error) error {
	switch err.(type) {
	case *DuplicateProviderError, *UnknownDependencyError:
		return err
	}
	return fmt.Errorf("package %s: %s %s: %w", p.Label(), kind, name, err)
}

func resolvedName(target installTarget, label, name string) string {
	if target == targetQualified {
		return varpkg.Qualify(label, name)
	}
	return name
}

func (fi *fieldInstaller) install(target installTarget, pkg Package, name string, m metadata.Metadata) error {
	_, err := fi.ns.AddField(resolvedName(target, pkg.Label(), name), m)
	return err
}

func (fi *fieldInstaller) installOverridable(name string, c candidate) error {
	_, err := fi.ns.AddField(name, c.meta)
	return err
}

func (si *swarmInstaller) install(target installTarget, pkg Package, name string, m metadata.Metadata) error {
	return si.copySwarm(pkg, name, resolvedName(target, pkg.Label(), name), m)
}

// installOverridable installs the swarm and copies the values of the first package,
// in label order, that declares it.
func (si *swarmInstaller) installOverridable(name string, c candidate) error {
	for _, p := range si.packages {
		if p.SwarmPresent(name) {
			return si.copySwarm(p, name, name, c.meta)
		}
	}
	si.ns.AddSwarm(name, c.meta)
	return nil
}

func (si *swarmInstaller) copySwarm(pkg Package, swarm, resolved string, m metadata.Metadata) error {
	si.ns.AddSwarm(resolved, m)
	values := pkg.AllSwarmValues(swarm)
	for _, value := range slices.Sorted(maps.Keys(values)) {
		if _, err := si.ns.AddSwarmValue(value, resolved, values[value]); err != nil {
			return err
		}
	}
	return nil
}

func links(t *tracker) []Link {
	var out []Link
	for _, name := range slices.Sorted(maps.Keys(t.required)) {
		provider, ok := t.isProvided(name)
		if !ok {
			continue
		}
		consumers := slices.Clone(t.required[name])
		slices.Sort(consumers)
		for _, consumer := range consumers {
			out = append(out, Link{Kind: t.kind, Variable: name, Provider: provider, Consumer: consumer})
		}
	}
	return out
}
