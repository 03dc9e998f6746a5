// SPDX-License-Identifier: MPL-2.0

package namespace

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSwarm is the sentinel error wrapped by UnknownSwarmError.
	ErrUnknownSwarm = errors.New("unknown swarm")
	// ErrDuplicateSwarmValue is the sentinel error wrapped by DuplicateSwarmValueError.
	ErrDuplicateSwarmValue = errors.New("duplicate swarm value")
	// ErrFieldKindConflict is the sentinel error wrapped by FieldKindConflictError.
	ErrFieldKindConflict = errors.New("field kind conflict")
)

type (
	// UnknownSwarmError is returned when a swarm value targets a swarm that has not
	// been added.
	UnknownSwarmError struct {
		Swarm string
		Value string
	}

	// DuplicateSwarmValueError is returned when a swarm already owns a value with
	// the same name.
	DuplicateSwarmValueError struct {
		Swarm string
		Value string
	}

	// FieldKindConflictError is returned when a name is added as plain while it is
	// already sparse, or the other way round.
	FieldKindConflictError struct {
		Name     string
		Existing string
	}
)

// Error implements the error interface.
func (e *UnknownSwarmError) Error() string {
	return fmt.Sprintf("cannot add value %q: swarm %q does not exist", e.Value, e.Swarm)
}

// Unwrap returns ErrUnknownSwarm for errors.Is() compatibility.
func (e *UnknownSwarmError) Unwrap() error { return ErrUnknownSwarm }

// Error implements the error interface.
func (e *DuplicateSwarmValueError) Error() string {
	return fmt.Sprintf("swarm %q already has a value named %q", e.Swarm, e.Value)
}

// Unwrap returns ErrDuplicateSwarmValue for errors.Is() compatibility.
func (e *DuplicateSwarmValueError) Unwrap() error { return ErrDuplicateSwarmValue }

// Error implements the error interface.
func (e *FieldKindConflictError) Error() string {
	return fmt.Sprintf("field %q is already registered as a %s field", e.Name, e.Existing)
}

// Unwrap returns ErrFieldKindConflict for errors.Is() compatibility.
func (e *FieldKindConflictError) Unwrap() error { return ErrFieldKindConflict }
