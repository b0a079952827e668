package analysis

import "testing"

func TestCriticalPath_NotApplicable(t *testing.T) {
	m := buildModel(t, `{
		"pipelines": [
			{"name": "a"},
			{"name": "b", "upstream_pipelines": ["a"], "cost": 5}
		]
	}`)

	if got := CriticalPath(m); got != nil {
		t.Errorf("CriticalPath() = %+v, want nil without any declared duration", got)
	}
	if got := CostliestPath(m); got == nil {
		t.Error("CostliestPath() = nil, want result (cost is declared)")
	}
}

func TestCriticalPath_PicksLongestBranch(t *testing.T) {
	// a -> b -> d (durations 10+20) beats a -> c -> d (10+5).
	m := buildModel(t, `{
		"pipelines": [
			{"name": "a", "duration": 10, "cost": 1},
			{"name": "b", "upstream_pipelines": ["a"], "duration": 20, "cost": 2},
			{"name": "c", "upstream_pipelines": ["a"], "duration": 5, "cost": 100},
			{"name": "d", "upstream_pipelines": ["b", "c"], "duration": 1, "cost": 1}
		]
	}`)

	got := CriticalPath(m)
	if got == nil {
		t.Fatal("CriticalPath() = nil, want result")
	}
	wantOrder := []string{"a", "b", "d"}
	if len(got.Path) != len(wantOrder) {
		t.Fatalf("Path = %+v, want %v", got.Path, wantOrder)
	}
	for i, name := range wantOrder {
		if got.Path[i].Name != name {
			t.Errorf("Path[%d] = %s, want %s", i, got.Path[i].Name, name)
		}
	}
	if got.TotalDuration != 31 {
		t.Errorf("TotalDuration = %v, want 31", got.TotalDuration)
	}
	// The same walk reports the path's cost too.
	if got.TotalCost != 4 {
		t.Errorf("TotalCost = %v, want 4 (1+2+1)", got.TotalCost)
	}
	if got.Covered != 4 || got.PipelineCount != 4 {
		t.Errorf("coverage = %d/%d, want 4/4", got.Covered, got.PipelineCount)
	}
}

func TestCriticalPath_Offsets(t *testing.T) {
	m := buildModel(t, `{
		"pipelines": [
			{"name": "a", "duration": 10},
			{"name": "b", "upstream_pipelines": ["a"], "duration": 20}
		]
	}`)

	got := CriticalPath(m)
	if got == nil {
		t.Fatal("CriticalPath() = nil")
	}
	if got.Path[0].Start != 0 || got.Path[0].Finish != 10 {
		t.Errorf("a offsets = [%v, %v], want [0, 10]", got.Path[0].Start, got.Path[0].Finish)
	}
	if got.Path[1].Start != 10 || got.Path[1].Finish != 30 {
		t.Errorf("b offsets = [%v, %v], want [10, 30]", got.Path[1].Start, got.Path[1].Finish)
	}
}

func TestCostliestPath_DiffersFromCritical(t *testing.T) {
	m := buildModel(t, `{
		"pipelines": [
			{"name": "a", "duration": 10, "cost": 1},
			{"name": "b", "upstream_pipelines": ["a"], "duration": 20, "cost": 2},
			{"name": "c", "upstream_pipelines": ["a"], "duration": 5, "cost": 100},
			{"name": "d", "upstream_pipelines": ["b", "c"], "duration": 1, "cost": 1}
		]
	}`)

	got := CostliestPath(m)
	if got == nil {
		t.Fatal("CostliestPath() = nil, want result")
	}
	wantOrder := []string{"a", "c", "d"}
	for i, name := range wantOrder {
		if got.Path[i].Name != name {
			t.Errorf("Path[%d] = %s, want %s", i, got.Path[i].Name, name)
		}
	}
	if got.TotalCost != 102 {
		t.Errorf("TotalCost = %v, want 102", got.TotalCost)
	}
}

func TestCriticalPath_MissingWeightsDefaultZero(t *testing.T) {
	m := buildModel(t, `{
		"pipelines": [
			{"name": "a", "duration": 10},
			{"name": "b", "upstream_pipelines": ["a"]},
			{"name": "c", "upstream_pipelines": ["b"], "duration": 7}
		]
	}`)

	got := CriticalPath(m)
	if got == nil {
		t.Fatal("CriticalPath() = nil")
	}
	if got.Covered != 2 || got.PipelineCount != 3 {
		t.Errorf("coverage = %d/%d, want 2/3", got.Covered, got.PipelineCount)
	}
	if got.TotalDuration != 17 {
		t.Errorf("TotalDuration = %v, want 17 (b defaults to 0)", got.TotalDuration)
	}
}

func TestCriticalPath_InferredEdgesParticipate(t *testing.T) {
	m := buildModel(t, `{
		"pipelines": [
			{"name": "producer", "output_sources": ["shared"], "duration": 3},
			{"name": "consumer", "input_sources": ["shared"], "duration": 4}
		]
	}`)

	got := CriticalPath(m)
	if got == nil {
		t.Fatal("CriticalPath() = nil")
	}
	if len(got.Path) != 2 || got.TotalDuration != 7 {
		t.Errorf("Path = %+v total %v, want producer->consumer total 7", got.Path, got.TotalDuration)
	}
}
