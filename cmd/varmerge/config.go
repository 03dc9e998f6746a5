// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/invowk/varmerge/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `varmerge config` command tree.
// Subcommands that read configuration use the App's config.Provider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage varmerge configuration",
		Long: `Manage varmerge configuration.

Configuration is read from the first of:
  - the file given with --config
  - the user config file:
      Linux: $XDG_CONFIG_HOME/varmerge/config.cue (~/.config/varmerge/config.cue)
      macOS: ~/Library/Application Support/varmerge/config.cue
      Windows: %APPDATA%\varmerge\config.cue
  - varmerge.cue in the working directory

VARMERGE_* environment variables override file values, e.g.
VARMERGE_OUTPUT_FORMAT=markdown. A .env file in the working directory is
loaded first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(showConfig(cmd.Context(), app))
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(showConfigPath(app))
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(initConfig(app, force))
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(err)
			}
			_, _ = fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, _, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}
	path, err := configFilePath(app)
	if err != nil {
		return err
	}

	out := app.stdout
	value := func(v any) string { return SuccessStyle.Render(fmt.Sprint(v)) }

	_, _ = fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	_, _ = fmt.Fprintln(out)
	if path != "" {
		_, _ = fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("Config file"), path)
	} else {
		_, _ = fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintf(out, "%s:\n", KeyStyle.Render("includes"))
	if len(cfg.Includes) == 0 {
		_, _ = fmt.Fprintf(out, "  %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, inc := range cfg.Includes {
		_, _ = fmt.Fprintf(out, "  - %s\n", value(inc))
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintf(out, "%s:\n", KeyStyle.Render("resolve"))
	_, _ = fmt.Fprintf(out, "  strict: %s\n", value(cfg.Resolve.Strict))
	_, _ = fmt.Fprintf(out, "  warn_ambiguous: %s\n", value(cfg.Resolve.WarnAmbiguous))

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintf(out, "%s:\n", KeyStyle.Render("output"))
	_, _ = fmt.Fprintf(out, "  format: %s\n", value(cfg.Output.Format))
	_, _ = fmt.Fprintf(out, "  style: %s\n", value(cfg.Output.Style))

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintf(out, "%s:\n", KeyStyle.Render("ui"))
	_, _ = fmt.Fprintf(out, "  verbose: %s\n", value(cfg.UI.Verbose))
	return nil
}

func showConfigPath(app *App) error {
	path, err := configFilePath(app)
	if err != nil {
		return err
	}
	if path != "" {
		_, _ = fmt.Fprintln(app.stdout, path)
		return nil
	}

	def, err := config.DefaultConfigPath()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(app.stdout, "%s %s\n", def, SubtitleStyle.Render("(not created)"))
	return nil
}

func initConfig(app *App, force bool) error {
	path := app.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			return err
		}
	}
	if err := config.WriteDefault(path, force); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

// configFilePath returns the file configuration is read from, or "" for defaults.
func configFilePath(app *App) (string, error) {
	workDir, err := app.resolveWorkDir()
	if err != nil {
		return "", err
	}
	if app.configPath != "" {
		if _, err := os.Stat(app.configPath); err != nil {
			return "", err
		}
	}
	return config.FindConfigFile(config.LoadOptions{ConfigFilePath: app.configPath, WorkDir: workDir})
}
