// SPDX-License-Identifier: MPL-2.0

// Package namespace implements the resolved namespace: the single, de-duplicated set of
// (name → metadata) bindings produced by merging every package.
//
// The mutation API distinguishes three outcomes. A fresh insertion reports added=true.
// An accepted duplicate (an already present plain field name, an already present sparse
// id) reports added=false with no error. Contract violations (mismatched sparse variants,
// plain/sparse name clashes, values for unknown swarms, duplicate swarm values) return
// typed errors.
package namespace
