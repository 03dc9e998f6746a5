// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// NoSparseID is the sparse id carried by metadata that is not sparse.
const NoSparseID = -1

// ErrSparseMismatch is the sentinel error wrapped by SparseMismatchError.
var ErrSparseMismatch = errors.New("sparse metadata mismatch")

type (
	// Metadata is the capability record of one declared variable.
	// The zero value is a plain variable with no flags and an unset dependency.
	Metadata struct {
		flags      Flag
		dependency Dependency
		shape      []int
		sparseID   int
		associated string
	}

	// Option configures a Metadata built by New.
	Option func(*Metadata)

	// SparseKey identifies one variant of a sparse variable. Plain variables
	// use ID == NoSparseID.
	SparseKey struct {
		Name string
		ID   int
	}

	// SparseMismatchError is returned when two variants sharing a name differ
	// in flags or shape.
	SparseMismatchError struct {
		Name string
		Want Metadata
		Got  Metadata
	}
)

// New builds a Metadata value with the given flags.
func New(flags Flag, opts ...Option) Metadata {
	m := Metadata{flags: flags, sparseID: NoSparseID}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// WithDependency sets the dependency kind.
func WithDependency(d Dependency) Option {
	return func(m *Metadata) { m.dependency = d }
}

// WithShape sets the per-point shape (e.g. 3 for a vector).
func WithShape(shape ...int) Option {
	return func(m *Metadata) { m.shape = slices.Clone(shape) }
}

// WithSparseID marks the variable as sparse with the given id.
func WithSparseID(id int) Option {
	return func(m *Metadata) {
		m.flags |= Sparse
		m.sparseID = id
	}
}

// WithAssociation sets the association back-reference.
func WithAssociation(name string) Option {
	return func(m *Metadata) { m.associated = name }
}

// Flags returns the flag bitset.
func (m Metadata) Flags() Flag { return m.flags }

// Dependency returns the dependency kind.
func (m Metadata) Dependency() Dependency { return m.dependency }

// Shape returns a copy of the shape.
func (m Metadata) Shape() []int { return slices.Clone(m.shape) }

// SparseID returns the sparse id, or NoSparseID for plain variables.
func (m Metadata) SparseID() int {
	if !m.IsSparse() {
		return NoSparseID
	}
	return m.sparseID
}

// IsSparse reports whether the Sparse flag is set.
func (m Metadata) IsSparse() bool { return m.flags&Sparse != 0 }

// Associated returns the association back-reference.
func (m Metadata) Associated() string { return m.associated }

// IsSet reports whether every bit of f is set.
func (m Metadata) IsSet(f Flag) bool { return m.flags.Has(f) }

// FlagsSet reports whether any (matchAny) or all of flags are set.
// An empty query matches nothing with matchAny and everything without it.
func (m Metadata) FlagsSet(flags []Flag, matchAny bool) bool {
	if matchAny {
		for _, f := range flags {
			if m.flags&f != 0 {
				return true
			}
		}
		return false
	}
	for _, f := range flags {
		if !m.flags.Has(f) {
			return false
		}
	}
	return true
}

// SparseEqual reports whether m and other may coexist as variants of one sparse
// name: same flags and same shape. Sparse id, dependency and association are ignored.
func (m Metadata) SparseEqual(other Metadata) bool {
	return m.flags == other.flags && slices.Equal(m.shape, other.shape)
}

// Equal reports whether every attribute of m and other matches.
func (m Metadata) Equal(other Metadata) bool {
	return m.SparseEqual(other) &&
		m.dependency == other.dependency &&
		m.SparseID() == other.SparseID() &&
		m.associated == other.associated
}

// SetDependency replaces the dependency kind.
func (m *Metadata) SetDependency(d Dependency) { m.dependency = d }

// Associate replaces the association back-reference.
func (m *Metadata) Associate(name string) { m.associated = name }

// Key returns the SparseKey of this metadata under the given name.
func (m Metadata) Key(name string) SparseKey {
	return SparseKey{Name: name, ID: m.SparseID()}
}

// String returns the flag summary used by namespace dumps:
// flag names, then the dependency kind, then the shape when present.
func (m Metadata) String() string {
	var b strings.Builder
	names := m.flags.Names()
	names = append(names, capitalize(m.dependency.String()))
	b.WriteString(strings.Join(names, ","))
	if len(m.shape) > 0 {
		dims := make([]string, len(m.shape))
		for i, d := range m.shape {
			dims[i] = strconv.Itoa(d)
		}
		b.WriteString(" shape=(")
		b.WriteString(strings.Join(dims, ","))
		b.WriteString(")")
	}
	return b.String()
}

// String renders the key as "name" or "name[id]".
func (k SparseKey) String() string {
	if k.ID == NoSparseID {
		return k.Name
	}
	return fmt.Sprintf("%s[%d]", k.Name, k.ID)
}

// Error implements the error interface.
func (e *SparseMismatchError) Error() string {
	return fmt.Sprintf("sparse variable %q: id %d has metadata %q but id %d has %q; all sparse variables with the same name must have the same flags and shape",
		e.Name, e.Got.SparseID(), e.Got.String(), e.Want.SparseID(), e.Want.String())
}

// Unwrap returns ErrSparseMismatch for errors.Is() compatibility.
func (e *SparseMismatchError) Unwrap() error { return ErrSparseMismatch }

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
