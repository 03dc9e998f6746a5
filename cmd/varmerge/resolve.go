// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/invowk/varmerge/internal/config"
	"github.com/invowk/varmerge/internal/snapshot"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

type resolveOptions struct {
	format string
	output string
	strict bool
}

// newResolveCommand creates the `varmerge resolve` command.
func newResolveCommand(app *App) *cobra.Command {
	opts := &resolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve [paths...]",
		Short: "Merge packages and print the resolved namespace",
		Long: `Merge packages and print the resolved namespace.

Paths may be manifest files or directories holding *.varpkg.cue, *.varpkg.toml,
*.varpkg.yaml or *.varpkg.yml files. Without paths, the configured includes are
used, and without includes the current directory is scanned.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(runResolve(cmd, app, args, opts))
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "",
		fmt.Sprintf("output format (%s); defaults to output.format", formatList()))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when several packages offer the same default")
	return cmd
}

func runResolve(cmd *cobra.Command, app *App, args []string, opts *resolveOptions) error {
	res, err := app.resolve(cmd.Context(), resolveRequest{Paths: args, Strict: opts.strict})
	if err != nil {
		return err
	}

	format := res.Config.Output.Format
	if opts.format != "" {
		format = config.OutputFormat(opts.format)
	}
	if valid, errs := format.IsValid(); !valid {
		return errs[0]
	}

	var buf bytes.Buffer
	switch format {
	case config.FormatCBOR:
		if err := snapshot.Write(&buf, res.Namespace); err != nil {
			return err
		}
	case config.FormatMarkdown:
		md := markdownReport(res)
		if opts.output != "" {
			buf.WriteString(md)
			break
		}
		rendered, err := glamour.Render(md, app.style)
		if err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		buf.WriteString(rendered)
	default:
		if _, err := res.Namespace.WriteTo(&buf); err != nil {
			return err
		}
	}

	return writeOutput(app.stdout, opts.output, buf.Bytes())
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func formatList() string {
	names := make([]string, 0, len(config.Formats()))
	for _, f := range config.Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, "|")
}
