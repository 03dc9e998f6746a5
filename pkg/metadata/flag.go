// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"errors"
	"fmt"
	"strings"
)

// Topology, shape, role and communication flags. The order here is the order
// in which flag summaries list them.
const (
	Cell Flag = 1 << iota
	Face
	Edge
	Node
	Vector
	Tensor
	Independent
	Derived
	OneCopy
	FillGhost
	WithFluxes
	Restart
	Intensive
	Integer
	Boolean
	Sparse

	// NoFlags is the empty flag set.
	NoFlags Flag = 0
)

// ErrInvalidFlag is the sentinel error wrapped by InvalidFlagError.
var ErrInvalidFlag = errors.New("invalid metadata flag")

var flagNames = []struct {
	flag Flag
	name string
}{
	{Cell, "Cell"},
	{Face, "Face"},
	{Edge, "Edge"},
	{Node, "Node"},
	{Vector, "Vector"},
	{Tensor, "Tensor"},
	{Independent, "Independent"},
	{Derived, "Derived"},
	{OneCopy, "OneCopy"},
	{FillGhost, "FillGhost"},
	{WithFluxes, "WithFluxes"},
	{Restart, "Restart"},
	{Intensive, "Intensive"},
	{Integer, "Integer"},
	{Boolean, "Boolean"},
	{Sparse, "Sparse"},
}

type (
	// Flag is a bitset of capability flags. Flags combine with bitwise OR.
	Flag uint32

	// InvalidFlagError is returned when a flag name is not recognized.
	InvalidFlagError struct {
		Value string
	}
)

// Names returns the names of every flag set in f, in declaration order.
func (f Flag) Names() []string {
	var names []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			names = append(names, fn.name)
		}
	}
	return names
}

// String returns the comma-separated flag names, or "None" for the empty set.
func (f Flag) String() string {
	names := f.Names()
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, ",")
}

// Has reports whether every bit of other is set in f.
func (f Flag) Has(other Flag) bool {
	return f&other == other
}

// ParseFlag parses a single flag name case-insensitively.
func ParseFlag(name string) (Flag, error) {
	trimmed := strings.TrimSpace(name)
	for _, fn := range flagNames {
		if strings.EqualFold(fn.name, trimmed) {
			return fn.flag, nil
		}
	}
	return NoFlags, &InvalidFlagError{Value: name}
}

// ParseFlags parses a list of flag names into a combined Flag.
func ParseFlags(names []string) (Flag, error) {
	var f Flag
	for _, name := range names {
		parsed, err := ParseFlag(name)
		if err != nil {
			return NoFlags, err
		}
		f |= parsed
	}
	return f, nil
}

// Error implements the error interface.
func (e *InvalidFlagError) Error() string {
	return fmt.Sprintf("invalid metadata flag %q", e.Value)
}

// Unwrap returns ErrInvalidFlag for errors.Is() compatibility.
func (e *InvalidFlagError) Unwrap() error { return ErrInvalidFlag }
