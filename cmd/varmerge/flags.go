// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/invowk/varmerge/pkg/metadata"

	"github.com/spf13/cobra"
)

// newFlagsCommand creates the `varmerge flags` command.
func newFlagsCommand(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "flags FLAG[,FLAG...] [paths...]",
		Short: "Report whether any resolved variable carries the given flags",
		Long: `Report whether any resolved variable carries the given flags.

By default a variable matches when it carries at least one of the flags; with
--all it must carry every one. Plain fields and sparse variants are searched.
Prints true or false.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags, err := parseFlagList(args[0])
			if err != nil {
				return app.fail(err)
			}
			res, err := app.resolve(cmd.Context(), resolveRequest{Paths: args[1:]})
			if err != nil {
				return app.fail(err)
			}
			_, _ = fmt.Fprintln(app.stdout, res.Namespace.FlagsPresent(flags, !all))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "require every flag instead of any")
	return cmd
}

// parseFlagList parses a comma separated list of flag names.
func parseFlagList(list string) ([]metadata.Flag, error) {
	var flags []metadata.Flag
	for name := range strings.SplitSeq(list, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		f, err := metadata.ParseFlag(name)
		if err != nil {
			return nil, err
		}
		flags = append(flags, f)
	}
	if len(flags) == 0 {
		return nil, fmt.Errorf("%w: empty flag list", metadata.ErrInvalidFlag)
	}
	return flags, nil
}
