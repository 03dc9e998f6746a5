// SPDX-License-Identifier: MPL-2.0

// Package cueutil decodes CUE documents against an embedded schema.
//
// Package manifests and the configuration file go through the same flow:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with the schema definition
//  3. Validate and decode into a Go struct
//
// # Usage
//
//	//go:embed manifest_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[Manifest](
//	    schemaBytes,
//	    data,
//	    "#Manifest",
//	    cueutil.WithFilename("hydro.varpkg.cue"),
//	)
//	if err != nil {
//	    return nil, err // includes the CUE path of the offending value
//	}
//	return result.Value, nil
package cueutil
