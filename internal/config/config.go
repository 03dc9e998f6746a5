// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/invowk/varmerge/internal/issue"
	"github.com/invowk/varmerge/pkg/cueutil"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "varmerge"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// LocalConfigFileName is the config file looked up in the working directory.
	LocalConfigFileName = AppName + "." + ConfigFileExt
	// EnvPrefix prefixes environment overrides (VARMERGE_OUTPUT_FORMAT, ...).
	EnvPrefix = "VARMERGE"
)

// ErrConfigExists is returned by WriteDefault when the file exists and force is off.
var ErrConfigExists = errors.New("config file already exists")

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the varmerge configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// FindConfigFile returns the file Load would read, or "" when defaults apply.
// An explicit ConfigFilePath is returned even if it does not exist.
func FindConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, nil
	}

	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	if cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt); fileExists(cuePath) {
		return cuePath, nil
	}

	localPath := filepath.Join(opts.WorkDir, LocalConfigFileName)
	if fileExists(localPath) {
		return localPath, nil
	}
	return "", nil
}

// loadWithOptions performs option-driven config loading. It returns the effective
// configuration and the file it came from ("" for defaults only).
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("includes", defaults.Includes)
	v.SetDefault("resolve.strict", defaults.Resolve.Strict)
	v.SetDefault("resolve.warn_ambiguous", defaults.Resolve.WarnAmbiguous)
	v.SetDefault("output.format", string(defaults.Output.Format))
	v.SetDefault("output.style", defaults.Output.Style)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath, err := FindConfigFile(opts)
	if err != nil {
		return nil, "", err
	}

	switch {
	case opts.ConfigFilePath != "" && !fileExists(opts.ConfigFilePath):
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(opts.ConfigFilePath).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Use 'varmerge config init' to create a default configuration").
			Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
			BuildError()
	case resolvedPath != "":
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("See 'varmerge config dump' for the expected layout").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Check VARMERGE_* environment variables for typos").
			WithSuggestion("Remove duplicate entries from includes").
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// cueutil.ParseAndDecode is not used here: the file decodes into a map for Viper
// and fields are optional, so validation runs with Concrete(false).
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	// Merging keeps defaults and env overrides working.
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// DefaultConfigPath returns the config file location inside ConfigDir.
func DefaultConfigPath() (string, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// WriteDefault writes the default configuration to path, creating parent
// directories. An existing file is kept unless force is set.
func WriteDefault(path string, force bool) error {
	if !force && fileExists(path) {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// varmerge configuration file\n\n")

	if len(cfg.Includes) > 0 {
		sb.WriteString("includes: [\n")
		for _, path := range cfg.Includes {
			fmt.Fprintf(&sb, "\t%q,\n", path)
		}
		sb.WriteString("]\n")
	} else {
		sb.WriteString("includes: []\n")
	}

	sb.WriteString("\nresolve: {\n")
	fmt.Fprintf(&sb, "\tstrict: %v\n", cfg.Resolve.Strict)
	fmt.Fprintf(&sb, "\twarn_ambiguous: %v\n", cfg.Resolve.WarnAmbiguous)
	sb.WriteString("}\n")

	sb.WriteString("\noutput: {\n")
	fmt.Fprintf(&sb, "\tformat: %q\n", cfg.Output.Format)
	fmt.Fprintf(&sb, "\tstyle: %q\n", cfg.Output.Style)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
