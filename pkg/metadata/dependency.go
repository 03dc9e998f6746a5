// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DependencyUnset is the zero value. Normalization rewrites it to Provides
	// before any classification runs.
	DependencyUnset Dependency = iota
	// Private variables live under a package-qualified name ("pkg::name").
	Private
	// Provides marks the canonical global definition of a name.
	Provides
	// Requires marks a name that some other package must provide.
	Requires
	// Overridable marks a fallback default, used only when nobody provides the name.
	Overridable
)

// ErrInvalidDependency is the sentinel error wrapped by InvalidDependencyError.
var ErrInvalidDependency = errors.New("invalid dependency kind")

type (
	// Dependency describes how a declaration interacts with other packages'
	// declarations of the same name.
	Dependency int

	// InvalidDependencyError is returned when a dependency name cannot be parsed.
	InvalidDependencyError struct {
		Value string
	}
)

// String returns the canonical lowercase name of the dependency kind.
func (d Dependency) String() string {
	switch d {
	case DependencyUnset:
		return "unset"
	case Private:
		return "private"
	case Provides:
		return "provides"
	case Requires:
		return "requires"
	case Overridable:
		return "overridable"
	default:
		return fmt.Sprintf("dependency(%d)", int(d))
	}
}

// IsConcrete reports whether d is one of the four kinds the classifier accepts.
func (d Dependency) IsConcrete() bool {
	switch d {
	case Private, Provides, Requires, Overridable:
		return true
	default:
		return false
	}
}

// ParseDependency parses a dependency name case-insensitively.
// The empty string parses to DependencyUnset.
func ParseDependency(s string) (Dependency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unset":
		return DependencyUnset, nil
	case "private":
		return Private, nil
	case "provides":
		return Provides, nil
	case "requires":
		return Requires, nil
	case "overridable":
		return Overridable, nil
	default:
		return DependencyUnset, &InvalidDependencyError{Value: s}
	}
}

// Error implements the error interface.
func (e *InvalidDependencyError) Error() string {
	return fmt.Sprintf("invalid dependency kind %q (expected private, provides, requires or overridable)", e.Value)
}

// Unwrap returns ErrInvalidDependency for errors.Is() compatibility.
func (e *InvalidDependencyError) Unwrap() error { return ErrInvalidDependency }
