// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/invowk/varmerge/internal/config"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "varmerge",
		Short: "Merge package variable declarations into one namespace",
		Long: TitleStyle.Render("varmerge") + SubtitleStyle.Render(" - merge package variable declarations into one namespace") + `

Each package manifest declares fields, sparse fields and swarms, and tags
every declaration as private, provides, requires or overridable. varmerge
checks that every requirement has exactly one provider, picks defaults for
overridable names nobody provides, and reports the merged namespace.

` + SubtitleStyle.Render("Examples:") + `
  varmerge resolve                     Resolve the manifests in the current directory
  varmerge resolve pkgs/ --format cbor --output state.cbor
  varmerge check pkgs/                 Print counts and the namespace fingerprint
  varmerge graph pkgs/                 Order packages from providers to consumers
  varmerge flags Cell,Vector pkgs/     Ask whether any variable carries a flag`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app.setVerbose(app.verbose)
			workDir, err := app.resolveWorkDir()
			if err != nil {
				return app.fail(err)
			}
			loaded, err := config.LoadDotEnv(workDir)
			if err != nil {
				return app.fail(err)
			}
			if loaded {
				app.Logger.Debug("loaded environment file", "dir", workDir)
			}
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/varmerge/config.cue)")
	root.PersistentFlags().StringVarP(&app.workDir, "workdir", "C", "", "run as if started in this directory")

	root.AddCommand(
		newResolveCommand(app),
		newCheckCommand(app),
		newGraphCommand(app),
		newFlagsCommand(app),
		newConfigCommand(app),
	)
	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the command tree and exits with the code carried by an ExitError.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(ExitFailure)
	}
}
