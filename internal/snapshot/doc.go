// SPDX-License-Identifier: MPL-2.0

// Package snapshot serializes resolved namespaces as deterministic CBOR documents.
//
// The encoding uses Core Deterministic Encoding (RFC 8949 §4.2) and lists every
// variable in ascending name order, so the same namespace always produces the same
// bytes. Fingerprint hashes those bytes with BLAKE3 and is stable across runs.
package snapshot
