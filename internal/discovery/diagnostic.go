// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
)

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal discovery error diagnostic.
	SeverityError Severity = "error"

	// CodeWorkingDirUnavailable means the working directory could not be determined.
	CodeWorkingDirUnavailable DiagnosticCode = "working_dir_unavailable"
	// CodePathNotFound means a requested path does not exist.
	CodePathNotFound DiagnosticCode = "path_not_found"
	// CodePathUnreadable means a requested path could not be inspected.
	CodePathUnreadable DiagnosticCode = "path_unreadable"
	// CodeDirUnreadable means a directory could not be listed.
	CodeDirUnreadable DiagnosticCode = "dir_unreadable"
	// CodeDirWithoutManifests means a requested directory holds no manifest.
	CodeDirWithoutManifests DiagnosticCode = "dir_without_manifests"
)

var (
	// ErrInvalidSeverity is returned when a Severity value is not recognized.
	ErrInvalidSeverity = errors.New("invalid severity")
	// ErrInvalidDiagnosticCode is returned when a DiagnosticCode value is not recognized.
	ErrInvalidDiagnosticCode = errors.New("invalid diagnostic code")
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// DiagnosticCode is a machine-readable diagnostic identifier.
	DiagnosticCode string

	// Diagnostic represents a structured discovery diagnostic that is returned
	// to callers (rather than written to stderr) for consistent rendering policy.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "path_not_found").
		Code DiagnosticCode
		// Message is the human-readable description.
		Message string
		// Path is the file path associated with this diagnostic (optional).
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}
)

// NewDiagnostic creates a diagnostic without a path or cause.
func NewDiagnostic(severity Severity, code DiagnosticCode, message string) Diagnostic {
	return Diagnostic{Severity: severity, Code: code, Message: message}
}

// NewDiagnosticWithPath creates a diagnostic for a path.
func NewDiagnosticWithPath(severity Severity, code DiagnosticCode, message, path string) Diagnostic {
	return Diagnostic{Severity: severity, Code: code, Message: message, Path: path}
}

// NewDiagnosticWithCause creates a diagnostic for a path with an underlying error.
func NewDiagnosticWithCause(severity Severity, code DiagnosticCode, message, path string, cause error) Diagnostic {
	return Diagnostic{Severity: severity, Code: code, Message: message, Path: path, Cause: cause}
}

// IsValid returns whether the Severity is one of the defined severities,
// and a list of validation errors if it is not.
func (s Severity) IsValid() (bool, []error) {
	switch s {
	case SeverityWarning, SeverityError:
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w: %q", ErrInvalidSeverity, string(s))}
	}
}

// String returns the code as a string.
func (c DiagnosticCode) String() string { return string(c) }

// IsValid returns whether the DiagnosticCode is one of the defined codes,
// and a list of validation errors if it is not.
func (c DiagnosticCode) IsValid() (bool, []error) {
	switch c {
	case CodeWorkingDirUnavailable, CodePathNotFound, CodePathUnreadable,
		CodeDirUnreadable, CodeDirWithoutManifests:
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w: %q", ErrInvalidDiagnosticCode, string(c))}
	}
}

// String renders the diagnostic on one line.
func (d Diagnostic) String() string {
	if d.Path == "" {
		return fmt.Sprintf("%s [%s]: %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s [%s] %s: %s", d.Severity, d.Code, d.Path, d.Message)
}
