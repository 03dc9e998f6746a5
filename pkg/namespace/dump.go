// SPDX-License-Identifier: MPL-2.0

package namespace

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
)

// Banner bounds every section of the text dump.
const Banner = "# ---------------------------------------------------"

// WriteTo writes the human-readable dump of the namespace: plain variables, sparse
// variables and swarms, each section bounded by Banner lines. Names are sorted;
// sparse variants keep insertion order.
func (ns *Namespace) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: bufio.NewWriter(w)}

	cw.printf("# Package: %s\n", ns.label)
	cw.printf("%s\n# Variables:\n# Name\tMetadata flags\n%s\n", Banner, Banner)
	for _, name := range slices.Sorted(maps.Keys(ns.fields)) {
		cw.printf("%s\t%s\n", name, ns.fields[name])
	}

	cw.printf("%s\n# Sparse Variables:\n# Name\tsparse id\tMetadata flags\n%s\n", Banner, Banner)
	for _, name := range slices.Sorted(maps.Keys(ns.sparse)) {
		cw.printf("%s\n", name)
		for _, m := range ns.sparse[name] {
			cw.printf("    \t%s\t%s\n", strconv.Itoa(m.SparseID()), m)
		}
	}

	cw.printf("%s\n# Swarms:\n# Swarm\tValue\tmetadata\n%s\n", Banner, Banner)
	for _, swarm := range slices.Sorted(maps.Keys(ns.swarms)) {
		cw.printf("%s\n", swarm)
		values := ns.swarmValues[swarm]
		for _, value := range slices.Sorted(maps.Keys(values)) {
			cw.printf("     \t%s\t%s\n", value, values[value])
		}
	}
	cw.printf("%s\n", Banner)

	if cw.err != nil {
		return cw.n, cw.err
	}
	if err := cw.w.Flush(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// countingWriter keeps the first write error and stops writing after it.
type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countingWriter) printf(format string, args ...any) {
	if c.err != nil {
		return
	}
	n, err := fmt.Fprintf(c.w, format, args...)
	c.n += int64(n)
	c.err = err
}
