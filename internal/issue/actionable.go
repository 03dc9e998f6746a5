// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
)

type (
	// ActionableError is a user-facing failure: the step that failed, the file or
	// package it concerned, hints for a fix and, optionally, a catalog entry.
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("load package manifest").
	//		WithResource("hydro.varpkg.cue").
	//		WithSuggestion("Run 'cue vet' on the manifest").
	//		Wrap(cause).
	//		BuildError()
	ActionableError struct {
		// Operation is a verb phrase such as "load package manifest".
		Operation string
		// Resource is the manifest path, package label or directory involved.
		Resource string
		// Suggestions are one-line hints, printed in order.
		Suggestions []string
		// Cause is the wrapped error.
		Cause error
		// Issue selects a catalog entry. Zero leaves classification to Cause.
		Issue Id
	}

	// ErrorContext accumulates the parts of an ActionableError.
	ErrorContext struct {
		err ActionableError
	}
)

// NewErrorContext returns an empty builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error renders "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the cause.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the message followed by one "hint:" line per suggestion. With
// verbose set, every link of the cause chain follows on a "caused by:" line.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder
	b.WriteString(e.Error())

	for _, s := range e.Suggestions {
		b.WriteString("\n  hint: ")
		b.WriteString(s)
	}

	if verbose {
		for cause := e.Cause; cause != nil; cause = errors.Unwrap(cause) {
			b.WriteString("\n  caused by: ")
			b.WriteString(cause.Error())
		}
	}

	return b.String()
}

// WithOperation sets the failed step.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.err.Operation = op
	return c
}

// WithResource sets the path or label the step concerned.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.err.Resource = res
	return c
}

// WithSuggestion appends a hint.
func (c *ErrorContext) WithSuggestion(s string) *ErrorContext {
	c.err.Suggestions = append(c.err.Suggestions, s)
	return c
}

// WithIssue links a catalog entry.
func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.err.Issue = id
	return c
}

// Wrap sets the cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.err.Cause = err
	return c
}

// Build returns the error, or nil when no operation was set. The builder can
// keep being used; later calls do not affect errors already built.
func (c *ErrorContext) Build() *ActionableError {
	if c.err.Operation == "" {
		return nil
	}
	ae := c.err
	ae.Suggestions = append([]string(nil), c.err.Suggestions...)
	return &ae
}

// BuildError is Build typed as error, so a missing operation yields a nil
// interface rather than a typed nil.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
