// SPDX-License-Identifier: MPL-2.0

// Package varpkg models a package: a labeled, independently developed collection of
// variable declarations (plain fields, sparse fields and swarms with swarm values).
//
// Packages are built through the Add* methods, which enforce per-package uniqueness.
// Once handed to the resolver they are read-only except for Normalize, which rewrites
// unset dependency kinds to Provides in place.
package varpkg
