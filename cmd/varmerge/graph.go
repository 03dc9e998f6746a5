// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newGraphCommand creates the `varmerge graph` command.
func newGraphCommand(app *App) *cobra.Command {
	var showLinks bool

	cmd := &cobra.Command{
		Use:   "graph [paths...]",
		Short: "Order packages so that providers come before their consumers",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.resolve(cmd.Context(), resolveRequest{Paths: args})
			if err != nil {
				return app.fail(err)
			}
			order, err := res.PackageOrder()
			if err != nil {
				return app.fail(err)
			}

			for i, label := range order {
				_, _ = fmt.Fprintf(app.stdout, "%d. %s\n", i+1, KeyStyle.Render(label))
			}
			if !showLinks || len(res.Links) == 0 {
				return nil
			}

			_, _ = fmt.Fprintln(app.stdout)
			_, _ = fmt.Fprintln(app.stdout, TitleStyle.Render("Links"))
			for _, l := range res.Links {
				_, _ = fmt.Fprintf(app.stdout, "  %s -> %s  %s\n",
					l.Provider, l.Consumer, SubtitleStyle.Render(fmt.Sprintf("(%s %s)", l.Kind, l.Variable)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showLinks, "links", false, "also list every satisfied requirement")
	return cmd
}
