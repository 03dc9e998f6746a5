// SPDX-License-Identifier: MPL-2.0

// Package discovery expands command-line paths and configured includes into
// the list of package manifests to resolve.
//
// Explicit paths win over configured includes, which win over the working
// directory. Directories are scanned one level deep. Problems with individual
// paths are reported as Diagnostics instead of failing the whole discovery.
package discovery
