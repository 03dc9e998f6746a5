// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/invowk/varmerge/internal/config"
	"github.com/invowk/varmerge/internal/discovery"
	"github.com/invowk/varmerge/internal/issue"
	"github.com/invowk/varmerge/internal/manifest"
	"github.com/invowk/varmerge/pkg/resolve"
	"github.com/invowk/varmerge/pkg/varpkg"

	"github.com/charmbracelet/log"
)

var errNoManifests = errors.New("no package manifests found")

type (
	// App wires CLI services and shared dependencies. All command handlers
	// receive an App reference and delegate loading and resolution to it.
	App struct {
		Config config.Provider
		Loader *manifest.Loader
		Logger *log.Logger
		stdout io.Writer
		stderr io.Writer

		verbose    bool
		configPath string
		workDir    string
		style      string
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Loader *manifest.Loader
		Logger *log.Logger
		Stdout io.Writer
		Stderr io.Writer
	}

	// resolveRequest captures the inputs of one resolution.
	resolveRequest struct {
		Paths []string
		// Strict forces strict mode on; the configuration can also enable it.
		Strict bool
	}

	// resolution is a successful resolution with the inputs that produced it.
	resolution struct {
		*resolve.Result
		Config *config.Config
		Files  []*discovery.DiscoveredFile
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Loader == nil {
		deps.Loader = manifest.NewLoader()
	}
	if deps.Logger == nil {
		deps.Logger = log.NewWithOptions(deps.Stderr, log.Options{Prefix: config.AppName})
		deps.Logger.SetLevel(log.ErrorLevel)
	}

	return &App{
		Config: deps.Config,
		Loader: deps.Loader,
		Logger: deps.Logger,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
		style:  config.DefaultStyle,
	}
}

// setVerbose switches debug logging on.
func (a *App) setVerbose(verbose bool) {
	a.verbose = a.verbose || verbose
	if a.verbose {
		a.Logger.SetLevel(log.DebugLevel)
	}
}

// resolveWorkDir returns the --workdir value or the process working directory.
func (a *App) resolveWorkDir() (string, error) {
	if a.workDir != "" {
		return filepath.Abs(a.workDir)
	}
	return os.Getwd()
}

// loadConfig loads the configuration and returns the directory relative includes
// are resolved against.
func (a *App) loadConfig(ctx context.Context) (*config.Config, string, error) {
	workDir, err := a.resolveWorkDir()
	if err != nil {
		return nil, "", err
	}

	opts := config.LoadOptions{ConfigFilePath: a.configPath, WorkDir: workDir}
	cfg, err := a.Config.Load(ctx, opts)
	if err != nil {
		return nil, "", err
	}

	a.setVerbose(cfg.UI.Verbose)
	a.style = cfg.Output.Style

	baseDir := workDir
	if path, findErr := config.FindConfigFile(opts); findErr == nil && path != "" {
		baseDir = filepath.Dir(path)
	}
	a.Logger.Debug("configuration loaded", "base_dir", baseDir, "format", cfg.Output.Format)
	return cfg, baseDir, nil
}

// resolve discovers, loads and merges the packages named by req.
func (a *App) resolve(ctx context.Context, req resolveRequest) (*resolution, error) {
	cfg, baseDir, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	workDir, err := a.resolveWorkDir()
	if err != nil {
		return nil, err
	}

	found, err := discovery.New(cfg, discovery.WithWorkDir(workDir), discovery.WithBaseDir(baseDir)).
		Discover(ctx, req.Paths)
	if err != nil {
		return nil, err
	}
	a.renderDiscoveryDiagnostics(found.Diagnostics)

	if len(found.Files) == 0 {
		return nil, issue.NewErrorContext().
			WithOperation("discover packages").
			WithResource(workDir).
			WithIssue(issue.ManifestNotFoundId).
			WithSuggestion("Pass manifest files or directories as arguments").
			WithSuggestion("Add directories to 'includes' in the configuration").
			Wrap(errNoManifests).
			BuildError()
	}

	packages := make(varpkg.Packages, len(found.Files))
	for _, f := range found.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pkg, err := a.Loader.Load(f.Path)
		if err != nil {
			return nil, loadFailure(f.Path, err)
		}
		if err := packages.Add(pkg); err != nil {
			return nil, fmt.Errorf("%s: %w", f.Path, err)
		}
		a.Logger.Debug("loaded package", "package", pkg.Label(), "path", f.Path, "source", f.Source)
	}

	result, err := resolve.Packages(packages,
		resolve.WithLogger(a.Logger),
		resolve.WithStrict(req.Strict || cfg.Resolve.Strict),
	)
	if err != nil {
		return nil, err
	}
	if cfg.Resolve.WarnAmbiguous {
		a.renderResolveDiagnostics(result.Diagnostics)
	}

	return &resolution{Result: result, Config: cfg, Files: found.Files}, nil
}

// renderDiscoveryDiagnostics writes discovery diagnostics to stderr.
func (a *App) renderDiscoveryDiagnostics(diags []discovery.Diagnostic) {
	for _, diag := range diags {
		prefix := WarningStyle.Render("warning")
		if diag.Severity == discovery.SeverityError {
			prefix = ErrorStyle.Render("error")
		}

		if diag.Path != "" {
			_, _ = fmt.Fprintf(a.stderr, "%s: %s (%s)\n", prefix, diag.Message, diag.Path)
			continue
		}
		_, _ = fmt.Fprintf(a.stderr, "%s: %s\n", prefix, diag.Message)
	}
}

// renderResolveDiagnostics writes resolution warnings to stderr.
func (a *App) renderResolveDiagnostics(diags []resolve.Diagnostic) {
	for _, diag := range diags {
		_, _ = fmt.Fprintf(a.stderr, "%s: %s\n", WarningStyle.Render("warning"), diag.Message)
	}
}
