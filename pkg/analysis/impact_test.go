package analysis

import (
	"testing"

	"github.com/mattlianje/pipeviz-sub000/pkg/errors"
)

const chainEstate = `{
	"pipelines": [
		{"name": "user-enrichment", "input_sources": ["raw_users"], "output_sources": ["enriched_users"], "schedule": "hourly", "cluster": "core"},
		{"name": "analytics-aggregation", "input_sources": ["enriched_users"], "output_sources": ["daily_metrics"]}
	]
}`

func TestBlastRadius_Chain(t *testing.T) {
	m := buildModel(t, chainEstate)

	impact, err := BlastRadius(m, "raw_users")
	if err != nil {
		t.Fatalf("BlastRadius() error = %v", err)
	}
	if impact == nil {
		t.Fatal("BlastRadius() = nil, want impact record")
	}
	if impact.TotalAffected != 4 {
		t.Errorf("TotalAffected = %d, want 4", impact.TotalAffected)
	}
	if impact.MaxDepth != 4 {
		t.Errorf("MaxDepth = %d, want 4", impact.MaxDepth)
	}

	depth1 := impact.Depths[0]
	if depth1.Depth != 1 || len(depth1.Nodes) != 1 || depth1.Nodes[0].Name != "user-enrichment" {
		t.Errorf("depth 1 = %+v, want user-enrichment", depth1)
	}
	if depth1.Nodes[0].Schedule != "hourly" || depth1.Nodes[0].Cluster != "core" {
		t.Errorf("pipeline node should carry schedule/cluster, got %+v", depth1.Nodes[0])
	}
	if depth1.Nodes[0].Kind != "pipeline" {
		t.Errorf("Kind = %q, want pipeline", depth1.Nodes[0].Kind)
	}
}

func TestBlastRadius_NoImpact(t *testing.T) {
	m := buildModel(t, chainEstate)

	impact, err := BlastRadius(m, "daily_metrics")
	if err != nil {
		t.Fatalf("BlastRadius() error = %v", err)
	}
	if impact != nil {
		t.Errorf("BlastRadius(sink) = %+v, want nil (no impact)", impact)
	}
}

func TestBlastRadius_UnknownNode(t *testing.T) {
	m := buildModel(t, chainEstate)
	_, err := BlastRadius(m, "phantom")
	if !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("BlastRadius(phantom) error = %v, want NODE_NOT_FOUND", err)
	}
}

func TestBlastRadius_Group(t *testing.T) {
	m := buildModel(t, `{
		"pipelines": [
			{"name": "load-a", "group": "load", "output_sources": ["staged"], "upstream_pipelines": ["load-b"]},
			{"name": "load-b", "group": "load"},
			{"name": "transform", "input_sources": ["staged"]}
		]
	}`)

	impact, err := BlastRadius(m, "load")
	if err != nil {
		t.Fatalf("BlastRadius(group) error = %v", err)
	}
	if !impact.IsGroup || impact.GroupSize != 2 {
		t.Errorf("IsGroup/GroupSize = %v/%d, want true/2", impact.IsGroup, impact.GroupSize)
	}
	// The load-b -> load-a dependency edge is intra-group and must not count.
	for _, g := range impact.Depths {
		for _, n := range g.Nodes {
			if n.Name == "load-a" || n.Name == "load-b" {
				t.Errorf("group member %s appears in its own blast radius", n.Name)
			}
		}
	}
	if impact.TotalAffected != 2 { // staged, transform
		t.Errorf("TotalAffected = %d, want 2", impact.TotalAffected)
	}
}

func TestBlastRadius_MinimumDepth(t *testing.T) {
	// Two routes to sink: direct edge (depth 2 via out) and long chain.
	m := buildModel(t, `{
		"pipelines": [
			{"name": "p1", "input_sources": ["src"], "output_sources": ["mid", "sink"]},
			{"name": "p2", "input_sources": ["mid"], "output_sources": ["sink"]}
		]
	}`)

	impact, err := BlastRadius(m, "src")
	if err != nil {
		t.Fatalf("BlastRadius() error = %v", err)
	}
	for _, g := range impact.Depths {
		for _, n := range g.Nodes {
			if n.Name == "sink" && g.Depth != 2 {
				t.Errorf("sink at depth %d, want minimum 2", g.Depth)
			}
		}
	}
}

func TestBlastRadius_CycleTerminates(t *testing.T) {
	m := buildModel(t, `{
		"pipelines": [
			{"name": "a", "upstream_pipelines": ["c"]},
			{"name": "b", "upstream_pipelines": ["a"]},
			{"name": "c", "upstream_pipelines": ["b"]}
		]
	}`)

	impact, err := BlastRadius(m, "a")
	if err != nil {
		t.Fatalf("BlastRadius() error = %v", err)
	}
	if impact.TotalAffected != 2 {
		t.Errorf("TotalAffected = %d, want 2 (self excluded)", impact.TotalAffected)
	}
}
