// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the varmerge command tree.
//
// Every command is built by a constructor that receives the App composition
// root, so tests can run the tree against in-memory writers and a stub
// configuration provider.
package cmd
