// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// FormatCUE is a CUE manifest.
	FormatCUE Format = "cue"
	// FormatTOML is a TOML manifest.
	FormatTOML Format = "toml"
	// FormatYAML is a YAML manifest.
	FormatYAML Format = "yaml"

	// Suffix precedes the format extension in manifest file names.
	Suffix = ".varpkg"
)

var (
	// ErrUnknownFormat is returned for a file name without a manifest extension.
	ErrUnknownFormat = errors.New("unknown manifest format")
	// ErrInvalidManifest is the sentinel error wrapped by InvalidManifestError.
	ErrInvalidManifest = errors.New("invalid manifest")
)

type (
	// Format is a manifest encoding.
	Format string

	// Manifest is the decoded form of one package manifest. Loader may hand out
	// the same *Manifest for identical content; callers must not modify it.
	Manifest struct {
		Package      string     `json:"package" toml:"package" yaml:"package"`
		Fields       []Variable `json:"fields,omitempty" toml:"fields,omitempty" yaml:"fields,omitempty"`
		SparseFields []Variable `json:"sparse_fields,omitempty" toml:"sparse_fields,omitempty" yaml:"sparse_fields,omitempty"`
		Swarms       []Swarm    `json:"swarms,omitempty" toml:"swarms,omitempty" yaml:"swarms,omitempty"`
	}

	// Variable declares a field, a sparse variant or a swarm value.
	Variable struct {
		Name       string   `json:"name" toml:"name" yaml:"name"`
		Flags      []string `json:"flags,omitempty" toml:"flags,omitempty" yaml:"flags,omitempty"`
		Dependency string   `json:"dependency,omitempty" toml:"dependency,omitempty" yaml:"dependency,omitempty"`
		Shape      []int    `json:"shape,omitempty" toml:"shape,omitempty" yaml:"shape,omitempty"`
		// ID is required for sparse variants and ignored elsewhere.
		ID         *int   `json:"id,omitempty" toml:"id,omitempty" yaml:"id,omitempty"`
		Associated string `json:"associated,omitempty" toml:"associated,omitempty" yaml:"associated,omitempty"`
	}

	// Swarm declares a swarm and its values.
	Swarm struct {
		Name       string     `json:"name" toml:"name" yaml:"name"`
		Flags      []string   `json:"flags,omitempty" toml:"flags,omitempty" yaml:"flags,omitempty"`
		Dependency string     `json:"dependency,omitempty" toml:"dependency,omitempty" yaml:"dependency,omitempty"`
		Shape      []int      `json:"shape,omitempty" toml:"shape,omitempty" yaml:"shape,omitempty"`
		Values     []Variable `json:"values,omitempty" toml:"values,omitempty" yaml:"values,omitempty"`
	}

	// InvalidManifestError locates a manifest problem found while mapping.
	InvalidManifestError struct {
		Path string
		// Field is the offending value, e.g. "sparse_fields[2].id".
		Field string
		Err   error
	}
)

// FormatOf returns the manifest format implied by a file name.
func FormatOf(path string) (Format, error) {
	lower := strings.ToLower(path)
	for ext, format := range map[string]Format{
		Suffix + ".cue":  FormatCUE,
		Suffix + ".toml": FormatTOML,
		Suffix + ".yaml": FormatYAML,
		Suffix + ".yml":  FormatYAML,
	} {
		if strings.HasSuffix(lower, ext) {
			return format, nil
		}
	}
	return "", fmt.Errorf("%w: %s (expected *%s.cue, *%s.toml, *%s.yaml or *%s.yml)",
		ErrUnknownFormat, path, Suffix, Suffix, Suffix, Suffix)
}

// IsManifest reports whether path names a manifest file.
func IsManifest(path string) bool {
	_, err := FormatOf(path)
	return err == nil
}

// Error implements the error interface.
func (e *InvalidManifestError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Field, e.Err)
}

// Unwrap returns ErrInvalidManifest and the cause for errors.Is() compatibility.
func (e *InvalidManifestError) Unwrap() []error { return []error{ErrInvalidManifest, e.Err} }
