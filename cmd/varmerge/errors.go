// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/invowk/varmerge/internal/dag"
	"github.com/invowk/varmerge/internal/issue"
	"github.com/invowk/varmerge/internal/manifest"
	"github.com/invowk/varmerge/pkg/metadata"
	"github.com/invowk/varmerge/pkg/namespace"
	"github.com/invowk/varmerge/pkg/resolve"
	"github.com/invowk/varmerge/pkg/varpkg"
)

// classifyError maps a command failure to an issue catalog entry and an exit code.
// An id of 0 means no catalog entry applies.
func classifyError(err error) (issue.Id, int) {
	var (
		ae    *issue.ActionableError
		cycle *dag.CycleError
	)

	switch {
	case errors.As(err, &ae) && ae.Issue != 0:
		return ae.Issue, ExitFailure
	case errors.Is(err, os.ErrPermission):
		return issue.PermissionDeniedId, ExitFailure
	case errors.Is(err, resolve.ErrDuplicateProvider):
		return issue.DuplicateProviderId, ExitResolveFailed
	case errors.Is(err, resolve.ErrUnsatisfiedRequirement):
		return issue.UnsatisfiedRequirementId, ExitResolveFailed
	case errors.Is(err, metadata.ErrSparseMismatch):
		return issue.SparseMismatchId, ExitResolveFailed
	case errors.Is(err, resolve.ErrAmbiguousOverridable):
		return issue.AmbiguousOverridableId, ExitResolveFailed
	case errors.Is(err, resolve.ErrUnknownDependency):
		return issue.UnknownDependencyId, ExitResolveFailed
	case errors.Is(err, namespace.ErrFieldKindConflict):
		return issue.FieldKindConflictId, ExitResolveFailed
	case errors.As(err, &cycle):
		return issue.DependencyCycleId, ExitResolveFailed
	case errors.Is(err, manifest.ErrInvalidManifest),
		errors.Is(err, manifest.ErrUnknownFormat),
		errors.Is(err, varpkg.ErrDuplicateDeclaration):
		return issue.ManifestParseErrorId, ExitFailure
	default:
		var loadErr *manifest.LoadError
		if errors.As(err, &loadErr) {
			if errors.Is(err, os.ErrNotExist) {
				return issue.ManifestNotFoundId, ExitFailure
			}
			return issue.ManifestParseErrorId, ExitFailure
		}
		return 0, ExitFailure
	}
}

// loadFailure attaches hints to a manifest load error. The catalog entry is
// chosen by classifyError from the wrapped cause.
func loadFailure(path string, err error) error {
	ctx := issue.NewErrorContext().
		WithOperation("load package manifest").
		WithResource(path)

	switch {
	case errors.Is(err, os.ErrNotExist):
		ctx.WithSuggestion("Check that the file still exists")
	case errors.Is(err, os.ErrPermission):
		ctx.WithSuggestion("Check the file permissions")
	case errors.Is(err, manifest.ErrUnknownFormat):
		ctx.WithSuggestion("Name manifests *" + manifest.Suffix + ".cue, .toml or .yaml")
	case errors.Is(err, varpkg.ErrDuplicateDeclaration):
		ctx.WithSuggestion("Declare each name once per package")
	default:
		ctx.WithSuggestion("Top-level keys are package, fields, sparse_fields and swarms")
	}

	return ctx.Wrap(err).BuildError()
}

// fail renders the catalog entry for err to stderr and wraps err in an ExitError
// for Execute. The error message itself is printed by fang.
func (a *App) fail(err error) error {
	if err == nil {
		return nil
	}
	id, code := classifyError(err)
	if id != 0 {
		renderIssue(a.stderr, id, a.style)
	}
	if a.verbose {
		_, _ = fmt.Fprintln(a.stderr, formatErrorForDisplay(err, true))
	}
	return &ExitError{Code: code, Err: err}
}

// renderIssue writes the rendered catalog entry. Rendering failures fall back to
// the raw markdown.
func renderIssue(w io.Writer, id issue.Id, style string) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render(style)
	if err != nil {
		rendered = string(entry.MarkdownMsg())
	}
	_, _ = fmt.Fprint(w, rendered)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
