// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/varmerge/pkg/metadata"
)

var (
	// ErrDuplicateProvider is the sentinel error wrapped by DuplicateProviderError.
	ErrDuplicateProvider = errors.New("duplicate provider")
	// ErrUnsatisfiedRequirement is the sentinel error wrapped by UnsatisfiedRequirementError.
	ErrUnsatisfiedRequirement = errors.New("unsatisfied requirement")
	// ErrUnknownDependency is the sentinel error wrapped by UnknownDependencyError.
	ErrUnknownDependency = errors.New("unknown dependency kind")
	// ErrAmbiguousOverridable is returned in strict mode when a default is offered by
	// more than one package and never provided.
	ErrAmbiguousOverridable = errors.New("ambiguous overridable")
	// ErrDuplicateLabel is returned when two input packages share a label.
	ErrDuplicateLabel = errors.New("duplicate package label")
	// ErrLabelMismatch is returned when a map key differs from the package label.
	ErrLabelMismatch = errors.New("package label mismatch")
	// ErrSparseMetadataMismatch aliases metadata.ErrSparseMismatch so callers can test
	// every resolution failure through this package.
	ErrSparseMetadataMismatch = metadata.ErrSparseMismatch
)

type (
	// DuplicateProviderError is returned when a name is provided by more than one package.
	DuplicateProviderError struct {
		Kind      Kind
		Name      string
		Providers []string
	}

	// UnsatisfiedRequirementError is returned when a required name is never provided.
	UnsatisfiedRequirementError struct {
		Kind       Kind
		Name       string
		RequiredBy []string
	}

	// UnknownDependencyError is returned for a declaration whose dependency kind is not
	// one of the four concrete kinds.
	UnknownDependencyError struct {
		Kind       Kind
		Package    string
		Name       string
		Dependency metadata.Dependency
	}

	// AmbiguousOverridableError reports an ambiguous default in strict mode.
	AmbiguousOverridableError struct {
		Kind     Kind
		Name     string
		Packages []string
	}
)

// Error implements the error interface.
func (e *DuplicateProviderError) Error() string {
	return fmt.Sprintf("%s %q provided by multiple packages: %s", e.Kind, e.Name, strings.Join(e.Providers, ", "))
}

// Unwrap returns ErrDuplicateProvider for errors.Is() compatibility.
func (e *DuplicateProviderError) Unwrap() error { return ErrDuplicateProvider }

// Error implements the error interface.
func (e *UnsatisfiedRequirementError) Error() string {
	return fmt.Sprintf("%s %q registered as required by %s, but not provided by any package",
		e.Kind, e.Name, strings.Join(e.RequiredBy, ", "))
}

// Unwrap returns ErrUnsatisfiedRequirement for errors.Is() compatibility.
func (e *UnsatisfiedRequirementError) Unwrap() error { return ErrUnsatisfiedRequirement }

// Error implements the error interface.
func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("package %s: %s %q has unknown dependency kind %s", e.Package, e.Kind, e.Name, e.Dependency)
}

// Unwrap returns ErrUnknownDependency for errors.Is() compatibility.
func (e *UnknownDependencyError) Unwrap() error { return ErrUnknownDependency }

// Error implements the error interface.
func (e *AmbiguousOverridableError) Error() string {
	return fmt.Sprintf("%s %q registered as overridable by %s, but never provided",
		e.Kind, e.Name, strings.Join(e.Packages, ", "))
}

// Unwrap returns ErrAmbiguousOverridable for errors.Is() compatibility.
func (e *AmbiguousOverridableError) Unwrap() error { return ErrAmbiguousOverridable }
