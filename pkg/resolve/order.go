// SPDX-License-Identifier: MPL-2.0

package resolve

import "github.com/invowk/varmerge/internal/dag"

// PackageOrder returns the resolved packages ordered so that every provider precedes
// the packages requiring its variables. Unrelated packages keep ascending label order.
// Mutually dependent packages yield a *dag.CycleError.
func (r *Result) PackageOrder() ([]string, error) {
	g := dag.New()
	for _, label := range r.Packages {
		g.AddNode(label)
	}
	for _, l := range r.Links {
		g.AddEdge(l.Provider, l.Consumer)
	}
	return g.TopologicalSort()
}
