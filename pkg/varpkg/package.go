// SPDX-License-Identifier: MPL-2.0

package varpkg

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/invowk/varmerge/pkg/metadata"
)

// QualifierSeparator joins a package label and a private variable name.
const QualifierSeparator = "::"

var (
	// ErrInvalidLabel is the sentinel error wrapped by InvalidLabelError.
	ErrInvalidLabel = errors.New("invalid package label")
	// ErrInvalidName is the sentinel error wrapped by InvalidNameError.
	ErrInvalidName = errors.New("invalid variable name")
	// ErrDuplicateDeclaration is the sentinel error wrapped by DuplicateDeclarationError.
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
	// ErrSwarmNotDeclared is the sentinel error wrapped by SwarmNotDeclaredError.
	ErrSwarmNotDeclared = errors.New("swarm not declared")
)

type (
	// Package is a labeled set of declarations.
	Package struct {
		label       string
		fields      map[string]metadata.Metadata
		sparse      map[string][]metadata.Metadata
		swarms      map[string]metadata.Metadata
		swarmValues map[string]map[string]metadata.Metadata
	}

	// Packages maps package labels to packages.
	Packages map[string]*Package

	// InvalidLabelError is returned for empty, whitespace-containing or qualified labels.
	InvalidLabelError struct {
		Label string
	}

	// InvalidNameError is returned for empty or qualified variable names.
	InvalidNameError struct {
		Package string
		Name    string
	}

	// DuplicateDeclarationError is returned when a package declares the same
	// name (or the same sparse id, or swarm value) twice.
	DuplicateDeclarationError struct {
		Package string
		Kind    string
		Name    string
	}

	// SwarmNotDeclaredError is returned when a swarm value names an undeclared swarm.
	SwarmNotDeclaredError struct {
		Package string
		Swarm   string
	}
)

// New creates an empty package with the given label.
func New(label string) (*Package, error) {
	if err := ValidateLabel(label); err != nil {
		return nil, err
	}
	return &Package{
		label:       label,
		fields:      make(map[string]metadata.Metadata),
		sparse:      make(map[string][]metadata.Metadata),
		swarms:      make(map[string]metadata.Metadata),
		swarmValues: make(map[string]map[string]metadata.Metadata),
	}, nil
}

// ValidateLabel checks that a label is usable as a qualification prefix.
func ValidateLabel(label string) error {
	if label == "" || strings.ContainsFunc(label, isSpace) || strings.Contains(label, QualifierSeparator) {
		return &InvalidLabelError{Label: label}
	}
	return nil
}

// Qualify returns the package-qualified form of a private name.
func Qualify(label, name string) string {
	return label + QualifierSeparator + name
}

// Label returns the package label.
func (p *Package) Label() string { return p.label }

// AddField declares a field. Sparse metadata is appended to the sparse list for the
// name; the id must be new and the metadata must match existing variants.
func (p *Package) AddField(name string, m metadata.Metadata) error {
	if err := p.validateName(name); err != nil {
		return err
	}

	if !m.IsSparse() {
		if _, exists := p.fields[name]; exists {
			return &DuplicateDeclarationError{Package: p.label, Kind: "field", Name: name}
		}
		if _, exists := p.sparse[name]; exists {
			return &DuplicateDeclarationError{Package: p.label, Kind: "field", Name: name}
		}
		p.fields[name] = m
		return nil
	}

	if _, exists := p.fields[name]; exists {
		return &DuplicateDeclarationError{Package: p.label, Kind: "sparse field", Name: name}
	}
	variants := p.sparse[name]
	for _, existing := range variants {
		if existing.SparseID() == m.SparseID() {
			return &DuplicateDeclarationError{Package: p.label, Kind: "sparse field", Name: m.Key(name).String()}
		}
	}
	if len(variants) > 0 && !variants[0].SparseEqual(m) {
		return &metadata.SparseMismatchError{Name: name, Want: variants[0], Got: m}
	}
	p.sparse[name] = append(variants, m)
	return nil
}

// AddSwarm declares a swarm with no values.
func (p *Package) AddSwarm(name string, m metadata.Metadata) error {
	if err := p.validateName(name); err != nil {
		return err
	}
	if _, exists := p.swarms[name]; exists {
		return &DuplicateDeclarationError{Package: p.label, Kind: "swarm", Name: name}
	}
	p.swarms[name] = m
	p.swarmValues[name] = make(map[string]metadata.Metadata)
	return nil
}

// AddSwarmValue declares a value owned by an already declared swarm.
func (p *Package) AddSwarmValue(value, swarm string, m metadata.Metadata) error {
	if err := p.validateName(value); err != nil {
		return err
	}
	values, ok := p.swarmValues[swarm]
	if !ok {
		return &SwarmNotDeclaredError{Package: p.label, Swarm: swarm}
	}
	if _, exists := values[value]; exists {
		return &DuplicateDeclarationError{Package: p.label, Kind: "swarm value", Name: swarm + "." + value}
	}
	values[value] = m
	return nil
}

// AllFields returns a copy of the plain field declarations.
func (p *Package) AllFields() map[string]metadata.Metadata {
	return maps.Clone(p.fields)
}

// AllSparseFields returns a copy of the sparse field declarations. Each list keeps
// declaration order.
func (p *Package) AllSparseFields() map[string][]metadata.Metadata {
	out := make(map[string][]metadata.Metadata, len(p.sparse))
	for name, variants := range p.sparse {
		out[name] = slices.Clone(variants)
	}
	return out
}

// AllSwarms returns a copy of the swarm declarations.
func (p *Package) AllSwarms() map[string]metadata.Metadata {
	return maps.Clone(p.swarms)
}

// AllSwarmValues returns a copy of the values of one swarm, or nil if the swarm
// is not declared.
func (p *Package) AllSwarmValues(swarm string) map[string]metadata.Metadata {
	values, ok := p.swarmValues[swarm]
	if !ok {
		return nil
	}
	return maps.Clone(values)
}

// SwarmPresent reports whether the package declares the swarm.
func (p *Package) SwarmPresent(name string) bool {
	_, ok := p.swarms[name]
	return ok
}

// Normalize rewrites unset dependency kinds to Provides on every plain field,
// every sparse variant and every swarm. It mutates the package in place and is
// idempotent. Swarm values are governed by their swarm and are left alone.
func (p *Package) Normalize() {
	for name, m := range p.fields {
		p.fields[name] = normalized(m)
	}
	for _, variants := range p.sparse {
		for i := range variants {
			variants[i] = normalized(variants[i])
		}
	}
	for name, m := range p.swarms {
		p.swarms[name] = normalized(m)
	}
}

// Labels returns the package labels in ascending order.
func (ps Packages) Labels() []string {
	return slices.Sorted(maps.Keys(ps))
}

// Add inserts a package keyed by its label.
func (ps Packages) Add(p *Package) error {
	if _, exists := ps[p.label]; exists {
		return &DuplicateDeclarationError{Package: p.label, Kind: "package", Name: p.label}
	}
	ps[p.label] = p
	return nil
}

func (p *Package) validateName(name string) error {
	if strings.TrimSpace(name) == "" || strings.Contains(name, QualifierSeparator) {
		return &InvalidNameError{Package: p.label, Name: name}
	}
	return nil
}

func normalized(m metadata.Metadata) metadata.Metadata {
	if m.Dependency() == metadata.DependencyUnset {
		m.SetDependency(metadata.Provides)
	}
	return m
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// Error implements the error interface.
func (e *InvalidLabelError) Error() string {
	return fmt.Sprintf("invalid package label %q: must be non-empty, without whitespace or %q", e.Label, QualifierSeparator)
}

// Unwrap returns ErrInvalidLabel for errors.Is() compatibility.
func (e *InvalidLabelError) Unwrap() error { return ErrInvalidLabel }

// Error implements the error interface.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("package %s: invalid variable name %q: must be non-empty and must not contain %q", e.Package, e.Name, QualifierSeparator)
}

// Unwrap returns ErrInvalidName for errors.Is() compatibility.
func (e *InvalidNameError) Unwrap() error { return ErrInvalidName }

// Error implements the error interface.
func (e *DuplicateDeclarationError) Error() string {
	return fmt.Sprintf("package %s: %s %q declared more than once", e.Package, e.Kind, e.Name)
}

// Unwrap returns ErrDuplicateDeclaration for errors.Is() compatibility.
func (e *DuplicateDeclarationError) Unwrap() error { return ErrDuplicateDeclaration }

// Error implements the error interface.
func (e *SwarmNotDeclaredError) Error() string {
	return fmt.Sprintf("package %s: swarm %q is not declared", e.Package, e.Swarm)
}

// Unwrap returns ErrSwarmNotDeclared for errors.Is() compatibility.
func (e *SwarmNotDeclaredError) Unwrap() error { return ErrSwarmNotDeclared }
