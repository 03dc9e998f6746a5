// SPDX-License-Identifier: MPL-2.0

package namespace

import (
	"maps"
	"slices"

	"github.com/invowk/varmerge/pkg/metadata"
)

// ResolvedLabel is the label of every namespace produced by resolution.
const ResolvedLabel = "varmerge::resolved_state"

type (
	// Namespace is the merge target. It is not safe for concurrent mutation.
	Namespace struct {
		label       string
		fields      map[string]metadata.Metadata
		sparse      map[string][]metadata.Metadata
		sparseIDs   map[metadata.SparseKey]struct{}
		swarms      map[string]metadata.Metadata
		swarmValues map[string]map[string]metadata.Metadata
	}

	// Stats counts the bindings held by a namespace.
	Stats struct {
		Fields         int
		SparseFields   int
		SparseVariants int
		Swarms         int
		SwarmValues    int
	}
)

// New creates an empty namespace with the given label.
func New(label string) *Namespace {
	return &Namespace{
		label:       label,
		fields:      make(map[string]metadata.Metadata),
		sparse:      make(map[string][]metadata.Metadata),
		sparseIDs:   make(map[metadata.SparseKey]struct{}),
		swarms:      make(map[string]metadata.Metadata),
		swarmValues: make(map[string]map[string]metadata.Metadata),
	}
}

// Label returns the namespace label.
func (ns *Namespace) Label() string { return ns.label }

// AddField adds a plain or sparse field under name.
//
// Sparse: the first variant creates the list; later variants must be SparseEqual to
// the first one; an id already present is ignored (added=false).
//
// Plain: the first registration wins; later ones are ignored (added=false). The stored
// copy always carries an empty association.
func (ns *Namespace) AddField(name string, m metadata.Metadata) (bool, error) {
	if m.IsSparse() {
		return ns.addSparse(name, m)
	}

	if _, exists := ns.sparse[name]; exists {
		return false, &FieldKindConflictError{Name: name, Existing: "sparse"}
	}
	if _, exists := ns.fields[name]; exists {
		return false, nil
	}
	m.Associate("")
	ns.fields[name] = m
	return true, nil
}

func (ns *Namespace) addSparse(name string, m metadata.Metadata) (bool, error) {
	if _, exists := ns.fields[name]; exists {
		return false, &FieldKindConflictError{Name: name, Existing: "plain"}
	}

	variants, exists := ns.sparse[name]
	if exists && !variants[0].SparseEqual(m) {
		return false, &metadata.SparseMismatchError{Name: name, Want: variants[0], Got: m}
	}

	key := m.Key(name)
	if _, dup := ns.sparseIDs[key]; dup {
		return false, nil
	}
	ns.sparseIDs[key] = struct{}{}
	ns.sparse[name] = append(variants, m)
	return true, nil
}

// AddSwarm adds a swarm with an empty value set. An existing swarm is left
// untouched (added=false).
func (ns *Namespace) AddSwarm(name string, m metadata.Metadata) bool {
	if _, exists := ns.swarms[name]; exists {
		return false
	}
	ns.swarms[name] = m
	ns.swarmValues[name] = make(map[string]metadata.Metadata)
	return true
}

// AddSwarmValue adds a value to an existing swarm.
func (ns *Namespace) AddSwarmValue(value, swarm string, m metadata.Metadata) (bool, error) {
	values, ok := ns.swarmValues[swarm]
	if !ok {
		return false, &UnknownSwarmError{Swarm: swarm, Value: value}
	}
	if _, exists := values[value]; exists {
		return false, &DuplicateSwarmValueError{Swarm: swarm, Value: value}
	}
	values[value] = m
	return true, nil
}

// FlagsPresent reports whether at least one stored plain or sparse field satisfies
// the flag query (any of flags when matchAny, all of them otherwise).
func (ns *Namespace) FlagsPresent(flags []metadata.Flag, matchAny bool) bool {
	for _, m := range ns.fields {
		if m.FlagsSet(flags, matchAny) {
			return true
		}
	}
	for _, variants := range ns.sparse {
		for _, m := range variants {
			if m.FlagsSet(flags, matchAny) {
				return true
			}
		}
	}
	return false
}

// Field returns the plain field stored under name.
func (ns *Namespace) Field(name string) (metadata.Metadata, bool) {
	m, ok := ns.fields[name]
	return m, ok
}

// Fields returns a copy of the plain fields.
func (ns *Namespace) Fields() map[string]metadata.Metadata {
	return maps.Clone(ns.fields)
}

// SparseField returns a copy of the variants stored under name, in insertion order.
func (ns *Namespace) SparseField(name string) []metadata.Metadata {
	return slices.Clone(ns.sparse[name])
}

// SparseFields returns a copy of every sparse variant list.
func (ns *Namespace) SparseFields() map[string][]metadata.Metadata {
	out := make(map[string][]metadata.Metadata, len(ns.sparse))
	for name, variants := range ns.sparse {
		out[name] = slices.Clone(variants)
	}
	return out
}

// Swarm returns the swarm metadata stored under name.
func (ns *Namespace) Swarm(name string) (metadata.Metadata, bool) {
	m, ok := ns.swarms[name]
	return m, ok
}

// Swarms returns a copy of the swarms.
func (ns *Namespace) Swarms() map[string]metadata.Metadata {
	return maps.Clone(ns.swarms)
}

// SwarmValues returns a copy of the values of one swarm, or nil if it does not exist.
func (ns *Namespace) SwarmValues(swarm string) map[string]metadata.Metadata {
	values, ok := ns.swarmValues[swarm]
	if !ok {
		return nil
	}
	return maps.Clone(values)
}

// Stats counts the bindings in the namespace.
func (ns *Namespace) Stats() Stats {
	s := Stats{
		Fields:       len(ns.fields),
		SparseFields: len(ns.sparse),
		Swarms:       len(ns.swarms),
	}
	for _, variants := range ns.sparse {
		s.SparseVariants += len(variants)
	}
	for _, values := range ns.swarmValues {
		s.SwarmValues += len(values)
	}
	return s
}
