package analysis

import (
	"sort"

	"github.com/mattlianje/pipeviz-sub000/pkg/graph"
)

// PathWeight selects the numeric attribute a path analysis maximizes.
type PathWeight string

const (
	// WeightDuration maximizes total duration (the critical path).
	WeightDuration PathWeight = "duration"
	// WeightCost maximizes total cost (the costliest path).
	WeightCost PathWeight = "cost"
)

// PathNode is one pipeline on a critical or costliest path, with its start
// and finish offsets in the maximized weight.
type PathNode struct {
	Name     string  `json:"name"`
	Start    float64 `json:"start"`
	Finish   float64 `json:"finish"`
	Duration float64 `json:"duration"`
	Cost     float64 `json:"cost"`
}

// PathResult is the longest path through the pipeline dependency DAG under
// one weight. Both totals are reported regardless of which weight drove the
// walk, since the reconstruction accumulates duration and cost alike.
type PathResult struct {
	Weight        PathWeight `json:"weight"`
	TotalDuration float64    `json:"total_duration"`
	TotalCost     float64    `json:"total_cost"`
	Path          []PathNode `json:"path"`
	Covered       int        `json:"covered"`        // pipelines declaring the weight
	PipelineCount int        `json:"pipeline_count"` // all pipelines in the snapshot
}

// CriticalPath returns the longest-duration path through the pipeline DAG,
// or nil when no pipeline declares a duration.
func CriticalPath(m *graph.Model) *PathResult {
	return longestPath(m, WeightDuration)
}

// CostliestPath returns the highest-cost path through the pipeline DAG,
// or nil when no pipeline declares a cost.
func CostliestPath(m *graph.Model) *PathResult {
	return longestPath(m, WeightCost)
}

// longestPath runs a forward pass in topological order over the combined
// dependency graph of all pipelines. Nodes with no unresolved predecessor
// start at cumulative value zero; each edge u→v proposes
// value(u) + weight(v) and keeps the maximum, recording u as v's path
// predecessor. Longest path is well-defined here because the graph is
// treated as acyclic - cyclic declarations are a separate validity concern
// surfaced by DetectCycles, not guarded against in this pass.
func longestPath(m *graph.Model, kind PathWeight) *PathResult {
	doc := m.Document()

	weight := func(name string) float64 {
		p := m.Pipeline(name)
		var v *float64
		if kind == WeightDuration {
			v = p.Duration
		} else {
			v = p.Cost
		}
		if v == nil {
			return 0
		}
		return *v
	}

	covered := 0
	for i := range doc.Pipelines {
		p := &doc.Pipelines[i]
		declared := p.Duration
		if kind == WeightCost {
			declared = p.Cost
		}
		if declared != nil {
			covered++
		}
	}
	if covered == 0 {
		return nil // not applicable without any declared weight
	}

	adj := dependencyAdjacency(m)
	names := make([]string, 0, len(adj))
	inDegree := make(map[string]int, len(adj))
	for name := range adj {
		names = append(names, name)
		inDegree[name] += 0
	}
	for _, tos := range adj {
		for _, to := range tos {
			inDegree[to]++
		}
	}
	sort.Strings(names)

	// value holds the best cumulative weight per resolved node; absence means
	// the node has not been reached yet (distinct from a resolved zero).
	value := make(map[string]float64, len(names))
	pred := make(map[string]string, len(names))

	var queue []string
	for _, name := range names {
		if inDegree[name] == 0 {
			queue = append(queue, name)
			value[name] = 0 // no unresolved predecessor: start at cumulative 0
		}
	}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range adj[u] {
			if candidate := value[u] + weight(v); candidate > value[v] || !hasValue(value, v) {
				value[v] = candidate
				pred[v] = u
			}
			inDegree[v]--
			if inDegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}

	// The node holding the global maximum ends the path. Ties break by name
	// so repeated analyses of one snapshot are identical.
	end := ""
	for _, name := range names {
		if !hasValue(value, name) {
			continue // on a cycle, never resolved
		}
		if end == "" || value[name] > value[end] {
			end = name
		}
	}
	if end == "" {
		return nil
	}

	var ordered []string
	for cur := end; ; {
		ordered = append(ordered, cur)
		prev, ok := pred[cur]
		if !ok {
			break
		}
		cur = prev
	}
	for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	}

	result := &PathResult{Weight: kind, Covered: covered, PipelineCount: len(doc.Pipelines)}
	offset := 0.0
	for _, name := range ordered {
		p := m.Pipeline(name)
		node := PathNode{Name: name}
		if p.Duration != nil {
			node.Duration = *p.Duration
		}
		if p.Cost != nil {
			node.Cost = *p.Cost
		}
		node.Start = offset
		node.Finish = offset + weight(name)
		offset = node.Finish
		result.TotalDuration += node.Duration
		result.TotalCost += node.Cost
		result.Path = append(result.Path, node)
	}
	return result
}

func hasValue(value map[string]float64, name string) bool {
	_, ok := value[name]
	return ok
}
