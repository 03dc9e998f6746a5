// SPDX-License-Identifier: MPL-2.0

package resolve

const (
	// SeverityWarning indicates a recoverable resolution warning.
	SeverityWarning Severity = "warning"

	// CodeAmbiguousOverridable is reported when several packages offer a default for
	// a name that nobody provides.
	CodeAmbiguousOverridable = "ambiguous_overridable"

	// KindField tracks plain and sparse fields.
	KindField Kind = "field"
	// KindSwarm tracks swarms.
	KindSwarm Kind = "swarm"
)

type (
	// Severity represents diagnostic severity.
	Severity string

	// Kind names the namespace a tracker works on.
	Kind string

	// Diagnostic is a non-fatal resolution finding returned to the caller for rendering.
	Diagnostic struct {
		// Severity is the diagnostic level.
		Severity Severity
		// Code is a machine-readable identifier (e.g., "ambiguous_overridable").
		Code string
		// Message is the human-readable description.
		Message string
		// Kind is the namespace the variable lives in.
		Kind Kind
		// Variable is the bare variable name.
		Variable string
		// Packages lists the packages involved, in ascending order.
		Packages []string
		// Winner is the package whose declaration was installed, if any.
		Winner string
	}
)
