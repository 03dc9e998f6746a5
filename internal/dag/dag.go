// SPDX-License-Identifier: MPL-2.0

// Package dag orders packages so that every provider comes before the packages that
// consume its variables. Nodes are package labels; an edge from A to B means B requires
// something A provides.
package dag

import (
	"fmt"
	"strings"
)

type (
	// CycleError indicates that packages depend on each other in a loop, so no
	// provider-first order exists.
	CycleError struct {
		// Cycle lists the packages still blocked when ordering stopped, in
		// insertion order.
		Cycle []string
	}

	// Graph is a directed graph of package labels.
	Graph struct {
		// adjacency maps each provider to its consumers.
		adjacency map[string][]string
		// edges deduplicates provider -> consumer pairs.
		edges map[[2]string]bool
		// nodes keeps insertion order for deterministic output.
		nodes   []string
		nodeSet map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("package dependency cycle: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		edges:     make(map[[2]string]bool),
		nodeSet:   make(map[string]bool),
	}
}

// AddNode adds a package. Adding an existing package is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge records that consumer depends on provider. Both nodes are added if
// missing; repeated edges and self edges are ignored.
func (g *Graph) AddEdge(provider, consumer string) {
	g.AddNode(provider)
	g.AddNode(consumer)
	if provider == consumer {
		return
	}
	key := [2]string{provider, consumer}
	if g.edges[key] {
		return
	}
	g.edges[key] = true
	g.adjacency[provider] = append(g.adjacency[provider], consumer)
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// TopologicalSort returns a provider-first order using Kahn's algorithm.
// Nodes that become ready at the same time keep insertion order.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, consumers := range g.adjacency {
		for _, consumer := range consumers {
			inDegree[consumer]++
		}
	}

	queue := make([]string, 0, len(g.nodes))
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	result := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, consumer := range g.adjacency[node] {
			inDegree[consumer]--
			if inDegree[consumer] == 0 {
				queue = append(queue, consumer)
			}
		}
	}

	if len(result) != len(g.nodes) {
		var blocked []string
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				blocked = append(blocked, node)
			}
		}
		return nil, &CycleError{Cycle: blocked}
	}

	return result, nil
}
