// Package engine implements the Scope façade (spec.md §4.4): the entry
// point composing the Object Repository, Sources Repository, Remotes
// binding, hooks, and migration runner into the six operations a caller
// drives a scope through.
package engine

import (
	"sort"

	"github.com/scopeengine/core"
)

// topoSortConsumers orders comps so that every component appears after
// every other component in the batch it depends on (spec.md §4.4.1 step
// 1): Kahn's algorithm emits dependents first, and that order is reversed
// so leaves come first. Edges are keyed on
// id-without-version (scope.BitId.Key), matching spec.md invariant 4
// ("no cycle exists... over (box,name) pairs").
//
// Grounded on the deterministic-order DFS topological sort in the pack's
// dag.DirectedAcyclicGraph.TopologicalSort (sort node and neighbor sets
// before visiting so repeated runs over the same graph always produce the
// same order) but implemented as Kahn's algorithm, per spec.md's explicit
// naming of that algorithm.
func topoSortConsumers(comps []ConsumerComponent) ([]ConsumerComponent, error) {
	n := len(comps)
	indexByKey := make(map[string]int, n)
	for i, c := range comps {
		indexByKey[c.Id().Key()] = i
	}

	// inBatchEdges[i] lists the indices of components in the batch that
	// comps[i] depends on.
	inBatchEdges := make([][]int, n)
	inDegree := make([]int, n)
	for i, c := range comps {
		seen := map[int]bool{}
		for _, depKey := range c.DependencyKeys() {
			j, ok := indexByKey[depKey]
			if !ok || j == i || seen[j] {
				continue
			}
			seen[j] = true
			inBatchEdges[i] = append(inBatchEdges[i], j)
			inDegree[j]++
		}
	}

	// Kahn's algorithm: repeatedly remove a node with no remaining
	// incoming edge from a node that hasn't been emitted yet. A node
	// "removed" first is a node nothing else in the batch depends on,
	// i.e. it belongs at the end of the consumer-first order before the
	// final reverse.
	remaining := make([]int, 0, n)
	for i := range comps {
		remaining = append(remaining, i)
	}

	order := make([]int, 0, n)
	emitted := make([]bool, n)
	remainingInDegree := append([]int(nil), inDegree...)

	for len(order) < n {
		var ready []int
		for _, i := range remaining {
			if !emitted[i] && remainingInDegree[i] == 0 {
				ready = append(ready, i)
			}
		}
		if len(ready) == 0 {
			return nil, scope.ErrDependencyCycle(cycleKeys(comps, emitted))
		}
		sort.Ints(ready)
		for _, i := range ready {
			emitted[i] = true
			order = append(order, i)
			// Removing i drops its outgoing edges i->j (i depends on j),
			// so j loses one incoming edge.
			for _, j := range inBatchEdges[i] {
				remainingInDegree[j]--
			}
		}
	}

	// order currently lists dependents first (in-degree-0 nodes are the
	// ones nothing else needs yet); reverse so leaves (the ones with no
	// unmet dependency) come first, matching spec.md's "reverse so leaves
	// come first".
	reversed := make([]ConsumerComponent, n)
	for i, idx := range order {
		reversed[n-1-i] = comps[idx]
	}
	return reversed, nil
}

func cycleKeys(comps []ConsumerComponent, emitted []bool) []string {
	var keys []string
	for i, c := range comps {
		if !emitted[i] {
			keys = append(keys, c.Id().Key())
		}
	}
	return keys
}
