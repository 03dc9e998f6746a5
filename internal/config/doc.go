// SPDX-License-Identifier: MPL-2.0

// Package config handles varmerge configuration using Viper with CUE as the file format.
//
// The configuration file is read from the first of: an explicit path (--config), the
// user config directory (~/.config/varmerge/config.cue or the platform equivalent),
// and varmerge.cue in the working directory. Files are validated against the
// embedded config_schema.cue. Every key can be overridden through VARMERGE_*
// environment variables (e.g. VARMERGE_RESOLVE_STRICT=true).
package config
