// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// FormatText is the tab-separated namespace dump.
	FormatText OutputFormat = "text"
	// FormatMarkdown renders the namespace as a Markdown report.
	FormatMarkdown OutputFormat = "markdown"
	// FormatCBOR writes the deterministic CBOR snapshot.
	FormatCBOR OutputFormat = "cbor"

	// DefaultStyle is the glamour style used for Markdown output.
	DefaultStyle = "auto"
)

var (
	// ErrInvalidOutputFormat is the sentinel error wrapped by InvalidOutputFormatError.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidInclude is the sentinel error wrapped by InvalidIncludeError.
	ErrInvalidInclude = errors.New("invalid include path")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// OutputFormat selects how `varmerge resolve` writes the namespace.
	OutputFormat string

	// InvalidOutputFormatError is returned when an OutputFormat value is not recognized.
	InvalidOutputFormatError struct {
		Value OutputFormat
	}

	// InvalidIncludeError is returned for a blank or repeated include path.
	InvalidIncludeError struct {
		Index  int
		Path   string
		Reason string
	}

	// InvalidConfigError collects the field errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Includes lists directories or manifest files searched by default.
		Includes []string `json:"includes" mapstructure:"includes"`
		// Resolve configures resolution.
		Resolve ResolveConfig `json:"resolve" mapstructure:"resolve"`
		// Output configures result rendering.
		Output OutputConfig `json:"output" mapstructure:"output"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// ResolveConfig configures resolution.
	ResolveConfig struct {
		// Strict turns ambiguous overridable defaults into errors.
		Strict bool `json:"strict" mapstructure:"strict"`
		// WarnAmbiguous prints ambiguous-default warnings.
		WarnAmbiguous bool `json:"warn_ambiguous" mapstructure:"warn_ambiguous"`
	}

	// OutputConfig configures result rendering.
	OutputConfig struct {
		Format OutputFormat `json:"format" mapstructure:"format"`
		Style  string       `json:"style" mapstructure:"style"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables debug logging.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Includes: []string{},
		Resolve: ResolveConfig{
			Strict:        false,
			WarnAmbiguous: true,
		},
		Output: OutputConfig{
			Format: FormatText,
			Style:  DefaultStyle,
		},
	}
}

// Formats returns the accepted output formats.
func Formats() []OutputFormat {
	return []OutputFormat{FormatText, FormatMarkdown, FormatCBOR}
}

func (f OutputFormat) String() string { return string(f) }

// IsValid returns whether the OutputFormat is one of the defined formats.
func (f OutputFormat) IsValid() (bool, []error) {
	switch f {
	case FormatText, FormatMarkdown, FormatCBOR:
		return true, nil
	default:
		return false, []error{&InvalidOutputFormatError{Value: f}}
	}
}

// IsValid validates what the CUE schema cannot see: environment overrides and
// include uniqueness.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Output.Format.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	seen := make(map[string]int, len(c.Includes))
	for i, path := range c.Includes {
		if strings.TrimSpace(path) == "" {
			errs = append(errs, &InvalidIncludeError{Index: i, Path: path, Reason: "path is blank"})
			continue
		}
		clean := filepath.Clean(path)
		if first, exists := seen[clean]; exists {
			errs = append(errs, &InvalidIncludeError{Index: i, Path: path, Reason: fmt.Sprintf("same as includes[%d]", first)})
			continue
		}
		seen[clean] = i
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (expected text, markdown or cbor)", e.Value)
}

// Unwrap returns ErrInvalidOutputFormat for errors.Is() compatibility.
func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }

// Error implements the error interface.
func (e *InvalidIncludeError) Error() string {
	return fmt.Sprintf("includes[%d] %q: %s", e.Index, e.Path, e.Reason)
}

// Unwrap returns ErrInvalidInclude for errors.Is() compatibility.
func (e *InvalidIncludeError) Unwrap() error { return ErrInvalidInclude }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
