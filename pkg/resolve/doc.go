// SPDX-License-Identifier: MPL-2.0

// Package resolve merges the declarations of many packages into one namespace.
//
// Resolution runs in three phases over packages in ascending label order:
//
//  1. Normalize each package, then classify every plain field, every sparse variant and
//     every swarm by dependency kind. Private and Provides declarations are installed
//     immediately; Requires and Overridable declarations are only recorded.
//  2. Check that every required name is provided.
//  3. Install overridable defaults for names nobody provides, warning when more than one
//     package offered a default.
//
// Fields and swarms are tracked separately, so a field and a swarm may share a name.
// Resolution is synchronous and single-threaded; packages are normalized in place and
// must not be used concurrently while Resolve runs.
package resolve
