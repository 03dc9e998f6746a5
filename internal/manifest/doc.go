// SPDX-License-Identifier: MPL-2.0

// Package manifest reads package manifests and turns them into varpkg packages.
//
// A manifest declares one package in CUE, TOML or YAML. The format follows from
// the file name: *.varpkg.cue, *.varpkg.toml, *.varpkg.yaml or *.varpkg.yml.
// CUE manifests are validated against the embedded manifest_schema.cue; TOML and
// YAML manifests are decoded strictly (unknown keys are errors) and validated
// while mapping.
package manifest
