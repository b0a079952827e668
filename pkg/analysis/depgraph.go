package analysis

import (
	"sort"

	"github.com/mattlianje/pipeviz-sub000/pkg/graph"
)

// dependencyAdjacency builds the combined pipeline-to-pipeline dependency
// graph used by the backfill planner and the path analyzers. Edges come from
// two places:
//
//   - explicit upstream_pipelines references that resolve to a declared
//     pipeline, and
//   - inferred producer→consumer edges wherever one pipeline's output_sources
//     overlap another's input_sources.
//
// Self-edges are skipped, as are inferred edges already present explicitly.
// Adjacency lists are sorted for deterministic traversal.
func dependencyAdjacency(m *graph.Model) map[string][]string {
	doc := m.Document()
	adj := make(map[string][]string, len(doc.Pipelines))
	seen := make(map[[2]string]bool)

	add := func(from, to string) {
		if from == to || seen[[2]string{from, to}] {
			return
		}
		seen[[2]string{from, to}] = true
		adj[from] = append(adj[from], to)
	}

	// Index producers by output source for the implicit edges.
	producers := make(map[string][]string)
	for i := range doc.Pipelines {
		p := &doc.Pipelines[i]
		adj[p.Name] = adj[p.Name] // ensure every pipeline is a key
		for _, out := range p.OutputSources {
			producers[out] = append(producers[out], p.Name)
		}
	}

	for i := range doc.Pipelines {
		p := &doc.Pipelines[i]
		for _, up := range p.UpstreamPipelines {
			if m.Pipeline(up) != nil {
				add(up, p.Name)
			}
		}
		for _, in := range p.InputSources {
			for _, producer := range producers[in] {
				add(producer, p.Name)
			}
		}
	}

	for k := range adj {
		sort.Strings(adj[k])
	}
	return adj
}

// reachable returns every node reachable from start over adj, excluding
// start itself unless a cycle leads back to it.
func reachable(adj map[string][]string, start string) map[string]bool {
	out := make(map[string]bool)
	frontier := []string{start}
	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]
		for _, nb := range adj[cur] {
			if !out[nb] {
				out[nb] = true
				frontier = append(frontier, nb)
			}
		}
	}
	return out
}

// edgesWithin returns the sorted edges of adj whose endpoints both lie in set.
func edgesWithin(adj map[string][]string, set map[string]bool) []graph.Edge {
	var edges []graph.Edge
	for from, tos := range adj {
		if !set[from] {
			continue
		}
		for _, to := range tos {
			if set[to] {
				edges = append(edges, graph.Edge{From: from, To: to})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}
