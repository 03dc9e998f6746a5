// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/invowk/varmerge/internal/snapshot"

	"github.com/spf13/cobra"
)

// newCheckCommand creates the `varmerge check` command.
func newCheckCommand(app *App) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Resolve packages and print a summary with the namespace fingerprint",
		Long: `Resolve packages and print a summary with the namespace fingerprint.

The fingerprint is the BLAKE3-256 digest of the canonical CBOR snapshot of the
namespace. Resolving the same declarations always yields the same fingerprint.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.resolve(cmd.Context(), resolveRequest{Paths: args, Strict: strict})
			if err != nil {
				return app.fail(err)
			}
			fingerprint, err := snapshot.Fingerprint(res.Namespace)
			if err != nil {
				return app.fail(err)
			}

			stats := res.Namespace.Stats()
			row := func(key string, value any) {
				_, _ = fmt.Fprintf(app.stdout, "%s %v\n", KeyStyle.Render(fmt.Sprintf("%-14s", key+":")), value)
			}
			_, _ = fmt.Fprintln(app.stdout, SuccessStyle.Render("✓ packages resolved"))
			row("packages", len(res.Packages))
			row("fields", stats.Fields)
			row("sparse fields", fmt.Sprintf("%d (%d variants)", stats.SparseFields, stats.SparseVariants))
			row("swarms", fmt.Sprintf("%d (%d values)", stats.Swarms, stats.SwarmValues))
			row("links", len(res.Links))
			row("warnings", len(res.Diagnostics))
			row("fingerprint", fingerprint)
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail when several packages offer the same default")
	return cmd
}
