package analysis

import (
	"sort"

	"github.com/mattlianje/pipeviz-sub000/pkg/errors"
	"github.com/mattlianje/pipeviz-sub000/pkg/graph"
)

// WaveMember is one pipeline of a backfill wave.
type WaveMember struct {
	Name     string `json:"name"`
	Schedule string `json:"schedule,omitempty"`
	Owner    string `json:"owner,omitempty"`
	Cluster  string `json:"cluster,omitempty"`
}

// Wave is one topological generation of a backfill plan: its members have
// every in-plan dependency in a strictly earlier wave and can run in parallel.
type Wave struct {
	Number      int          `json:"number"`
	Members     []WaveMember `json:"members"`
	Parallelism int          `json:"parallelism"`
}

// Plan is the ordered execution plan for backfilling a selection of
// pipelines together with everything downstream of them.
type Plan struct {
	Selection       []string     `json:"selection"`
	TrueSources     []string     `json:"true_sources"`
	TotalDownstream int          `json:"total_downstream"`
	WaveCount       int          `json:"wave_count"`
	MaxParallelism  int          `json:"max_parallelism"`
	Waves           []Wave       `json:"waves"`
	Edges           []graph.Edge `json:"edges"`
}

// PlanBackfill computes the wave plan for a non-empty set of pipeline names.
//
// The planner is pipeline-only: any selected name that is not a declared
// pipeline fails the whole request with an INVALID_SELECTION error naming
// the offenders. The dependency graph combines explicit upstream_pipelines
// edges with producer→consumer edges inferred from output/input overlap.
//
// True sources are the selected pipelines not reachable from any other
// selected pipeline; selections downstream of another selection fold into
// the plan instead of seeding it. From the true sources the planner collects
// every downstream pipeline, restricts the graph to that set, and runs a
// generation-based topological sort: wave 0 is the true sources, wave k+1 is
// everything whose restricted in-degree drops to zero after wave k.
//
// Returns nil (no error) when the selection has no downstream pipelines and
// every selected node is a true source - nothing to backfill is a valid
// outcome, not a one-wave plan.
func PlanBackfill(m *graph.Model, selection []string) (*Plan, error) {
	if len(selection) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidSelection, "backfill selection is empty")
	}
	var offenders []string
	for _, name := range selection {
		if m.Pipeline(name) == nil {
			offenders = append(offenders, name)
		}
	}
	if len(offenders) > 0 {
		sort.Strings(offenders)
		return nil, errors.WithNames(errors.ErrCodeInvalidSelection, offenders,
			"backfill planning is pipeline-only; selection contains non-pipeline entries")
	}

	adj := dependencyAdjacency(m)

	// A selected node reachable from another selected node is not a true
	// source: it is already covered by the plan seeded elsewhere.
	downstreamOf := make(map[string]map[string]bool, len(selection))
	for _, name := range selection {
		downstreamOf[name] = reachable(adj, name)
	}
	var trueSources []string
	for _, candidate := range selection {
		covered := false
		for _, other := range selection {
			if other != candidate && downstreamOf[other][candidate] {
				covered = true
				break
			}
		}
		if !covered {
			trueSources = append(trueSources, candidate)
		}
	}
	sort.Strings(trueSources)
	trueSources = dedupe(trueSources)

	// Collect every pipeline downstream of any true source. Discovery depth
	// only seeds traversal here; wave numbers come from topological order.
	inPlan := make(map[string]bool, len(trueSources))
	downstreamCount := 0
	for _, src := range trueSources {
		inPlan[src] = true
	}
	for _, src := range trueSources {
		for node := range reachable(adj, src) {
			if !inPlan[node] {
				inPlan[node] = true
				downstreamCount++
			}
		}
	}

	if downstreamCount == 0 {
		return nil, nil // no downstream pipelines to backfill
	}

	// Restricted in-degree: only edges with both endpoints in the plan count.
	inDegree := make(map[string]int, len(inPlan))
	for node := range inPlan {
		inDegree[node] = 0
	}
	for from, tos := range adj {
		if !inPlan[from] {
			continue
		}
		for _, to := range tos {
			if inPlan[to] {
				inDegree[to]++
			}
		}
	}

	// Kahn's algorithm by generations.
	var current []string
	for node, deg := range inDegree {
		if deg == 0 {
			current = append(current, node)
		}
	}
	sort.Strings(current)

	plan := &Plan{
		Selection:       sortedClone(selection),
		TrueSources:     trueSources,
		TotalDownstream: downstreamCount,
		Edges:           edgesWithin(adj, inPlan),
	}
	for number := 0; len(current) > 0; number++ {
		wave := Wave{Number: number, Parallelism: len(current)}
		for _, name := range current {
			wave.Members = append(wave.Members, waveMember(m, name))
		}
		plan.Waves = append(plan.Waves, wave)
		if wave.Parallelism > plan.MaxParallelism {
			plan.MaxParallelism = wave.Parallelism
		}

		var next []string
		for _, done := range current {
			for _, to := range adj[done] {
				if !inPlan[to] {
					continue
				}
				inDegree[to]--
				if inDegree[to] == 0 {
					next = append(next, to)
				}
			}
		}
		sort.Strings(next)
		current = next
	}
	plan.WaveCount = len(plan.Waves)
	return plan, nil
}

func waveMember(m *graph.Model, name string) WaveMember {
	p := m.Pipeline(name)
	return WaveMember{
		Name:     name,
		Schedule: p.Schedule,
		Owner:    p.Owner,
		Cluster:  p.Cluster,
	}
}

func sortedClone(xs []string) []string {
	out := make([]string, len(xs))
	copy(out, xs)
	sort.Strings(out)
	return dedupe(out)
}

// dedupe removes adjacent duplicates from a sorted slice.
func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, x := range sorted {
		if i == 0 || x != sorted[i-1] {
			out = append(out, x)
		}
	}
	return out
}
