package analysis

import (
	"slices"
	"sort"

	"github.com/mattlianje/pipeviz-sub000/pkg/graph"
)

// DetectCycles finds circular pipeline dependencies.
//
// The search runs over a dependency-only graph: each node is a pipeline, or
// its group when one is declared (sibling pipelines of a group collapse into
// one node so intra-group references don't read as self-dependencies), and
// edges come solely from upstream_pipelines references that resolve to
// another known node.
//
// Depth-first search tracks the current recursion stack; meeting a node
// already on the stack emits the cycle as the path slice from that node's
// first occurrence to the repeat, closed (first element repeated at the end).
// After a cycle is reported, discovered state is cleared except for the
// cycle's own members before the search continues from other unvisited
// roots - one cycle per strongly-connected region touched, not an exhaustive
// enumeration.
func DetectCycles(m *graph.Model) [][]string {
	adj := collapsedDependencyAdjacency(m)

	roots := make([]string, 0, len(adj))
	for n := range adj {
		roots = append(roots, n)
	}
	sort.Strings(roots)

	visited := make(map[string]bool, len(adj))
	var cycles [][]string

	for _, root := range roots {
		if visited[root] {
			continue
		}

		onStack := make(map[string]bool)
		var path []string
		var cycle []string

		var dfs func(node string) bool
		dfs = func(node string) bool {
			visited[node] = true
			onStack[node] = true
			path = append(path, node)

			for _, nb := range adj[node] {
				if onStack[nb] {
					start := slices.Index(path, nb)
					cycle = append(slices.Clone(path[start:]), nb)
					return true
				}
				if !visited[nb] && dfs(nb) {
					return true
				}
			}

			path = path[:len(path)-1]
			delete(onStack, node)
			return false
		}

		if dfs(root) {
			cycles = append(cycles, cycle)
			visited = make(map[string]bool, len(cycle))
			for _, member := range cycle {
				visited[member] = true
			}
		}
	}
	return cycles
}

// collapsedDependencyAdjacency builds the cycle detector's graph: pipelines
// projected through Collapse, edges only from resolved upstream_pipelines
// references, self-edges after collapsing dropped.
func collapsedDependencyAdjacency(m *graph.Model) map[string][]string {
	doc := m.Document()
	adj := make(map[string][]string)
	seen := make(map[[2]string]bool)

	for i := range doc.Pipelines {
		p := &doc.Pipelines[i]
		node := m.Collapse(p.Name)
		if _, ok := adj[node]; !ok {
			adj[node] = nil
		}
		for _, up := range p.UpstreamPipelines {
			if m.Pipeline(up) == nil {
				continue
			}
			from := m.Collapse(up)
			if from == node || seen[[2]string{from, node}] {
				continue
			}
			seen[[2]string{from, node}] = true
			adj[from] = append(adj[from], node)
		}
	}

	for k := range adj {
		sort.Strings(adj[k])
	}
	return adj
}
