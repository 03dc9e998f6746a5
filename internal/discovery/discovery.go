// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/invowk/varmerge/internal/config"
	"github.com/invowk/varmerge/internal/manifest"
)

const (
	// SourceArgument indicates the file came from a command-line path.
	SourceArgument Source = iota
	// SourceInclude indicates the file came from a configured include.
	SourceInclude
	// SourceWorkDir indicates the file was found in the working directory.
	SourceWorkDir
)

// ErrInvalidSource is returned when a Source value is not recognized.
var ErrInvalidSource = errors.New("invalid source")

type (
	// Source represents where a manifest was found.
	Source int

	// DiscoveredFile is a manifest path with its origin.
	DiscoveredFile struct {
		// Path is the absolute path to the manifest.
		Path   string
		Source Source
	}

	// Result bundles the discovered files with non-fatal diagnostics.
	Result struct {
		// Files is sorted by path and free of duplicates.
		Files       []*DiscoveredFile
		Diagnostics []Diagnostic
	}

	// Discovery finds package manifests.
	Discovery struct {
		cfg     *config.Config
		baseDir string
		workDir string

		initDiagnostics []Diagnostic
	}

	// Option configures a Discovery.
	Option func(*Discovery)
)

// WithBaseDir sets the directory relative includes are resolved against.
// It defaults to the working directory.
func WithBaseDir(dir string) Option {
	return func(d *Discovery) { d.baseDir = dir }
}

// WithWorkDir overrides the working directory.
func WithWorkDir(dir string) Option {
	return func(d *Discovery) { d.workDir = dir }
}

// New creates a Discovery. A nil cfg behaves like config.DefaultConfig().
func New(cfg *config.Config, opts ...Option) *Discovery {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	d := &Discovery{cfg: cfg}
	for _, opt := range opts {
		opt(d)
	}

	if d.workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			d.initDiagnostics = append(d.initDiagnostics, NewDiagnosticWithCause(SeverityWarning,
				CodeWorkingDirUnavailable, "cannot determine the working directory", "", err))
		} else {
			d.workDir = wd
		}
	}
	if d.baseDir == "" {
		d.baseDir = d.workDir
	}
	return d
}

// Discover returns the manifests named by paths. With no paths it falls back to
// the configured includes and then to the working directory.
func (d *Discovery) Discover(ctx context.Context, paths []string) (*Result, error) {
	result := &Result{Diagnostics: slices.Clone(d.initDiagnostics)}

	var (
		roots  []string
		source Source
	)
	switch {
	case len(paths) > 0:
		roots, source = d.absolute(d.workDir, paths), SourceArgument
	case len(d.cfg.Includes) > 0:
		roots, source = d.absolute(d.baseDir, d.cfg.Includes), SourceInclude
	case d.workDir != "":
		roots, source = []string{d.workDir}, SourceWorkDir
	}

	seen := make(map[string]bool)
	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, path := range d.expand(root, source, result) {
			if seen[path] {
				continue
			}
			seen[path] = true
			result.Files = append(result.Files, &DiscoveredFile{Path: path, Source: source})
		}
	}

	slices.SortFunc(result.Files, func(a, b *DiscoveredFile) int {
		switch {
		case a.Path < b.Path:
			return -1
		case a.Path > b.Path:
			return 1
		default:
			return 0
		}
	})
	return result, nil
}

// expand turns one root into manifest paths, recording problems on result.
func (d *Discovery) expand(root string, source Source, result *Result) []string {
	info, err := os.Stat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		result.Diagnostics = append(result.Diagnostics, NewDiagnosticWithCause(SeverityWarning,
			CodePathNotFound, fmt.Sprintf("%s does not exist, skipping", source), root, err))
		return nil
	case err != nil:
		result.Diagnostics = append(result.Diagnostics, NewDiagnosticWithCause(SeverityWarning,
			CodePathUnreadable, fmt.Sprintf("cannot inspect %s: %v", source, err), root, err))
		return nil
	case !info.IsDir():
		return []string{root}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		result.Diagnostics = append(result.Diagnostics, NewDiagnosticWithCause(SeverityWarning,
			CodeDirUnreadable, fmt.Sprintf("cannot list directory: %v", err), root, err))
		return nil
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !manifest.IsManifest(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(root, entry.Name()))
	}
	if len(files) == 0 && source != SourceWorkDir {
		result.Diagnostics = append(result.Diagnostics, NewDiagnosticWithPath(SeverityWarning,
			CodeDirWithoutManifests, fmt.Sprintf("%s directory holds no *%s.* manifest", source, manifest.Suffix), root))
	}
	return files
}

func (d *Discovery) absolute(base string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !filepath.IsAbs(p) && base != "" {
			p = filepath.Join(base, p)
		}
		out = append(out, filepath.Clean(p))
	}
	return out
}

// String returns a human-readable source name.
func (s Source) String() string {
	switch s {
	case SourceArgument:
		return "argument"
	case SourceInclude:
		return "configured include"
	case SourceWorkDir:
		return "working directory"
	default:
		return "unknown"
	}
}

// IsValid returns whether the Source is one of the defined sources,
// and a list of validation errors if it is not.
func (s Source) IsValid() (bool, []error) {
	switch s {
	case SourceArgument, SourceInclude, SourceWorkDir:
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w: %d", ErrInvalidSource, int(s))}
	}
}

// Paths returns the file paths in order.
func (r *Result) Paths() []string {
	out := make([]string, len(r.Files))
	for i, f := range r.Files {
		out[i] = f.Path
	}
	return out
}
