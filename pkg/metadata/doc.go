// SPDX-License-Identifier: MPL-2.0

// Package metadata defines the capability record attached to every declared variable.
//
// A Metadata value carries a flag bitset, a dependency kind, an optional shape, a sparse id
// for variables that come in numbered variants, and an association back-reference. It is a
// value type: copies are independent, and the shape slice is cloned on the way in and out.
//
// This package is a leaf dependency: it imports only the standard library.
package metadata
