package engine

import (
	"reflect"
	"testing"

	"github.com/mattlianje/pipeviz-sub000/pkg/errors"
	"github.com/mattlianje/pipeviz-sub000/pkg/graph"
)

const estate = `{
	"version": "1",
	"pipelines": [
		{"name": "user-enrichment", "input_sources": ["raw_users"], "output_sources": ["enriched_users"], "duration": 10},
		{"name": "analytics-aggregation", "input_sources": ["enriched_users"], "output_sources": ["daily_metrics"], "duration": 5}
	],
	"datasources": [
		{"name": "raw_users", "attributes": [{"name": "id"}]},
		{"name": "enriched_users", "attributes": [{"name": "id", "from": "raw_users::id"}]}
	]
}`

func mustEngine(t *testing.T, src string) *Engine {
	t.Helper()
	e, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return e
}

func TestEngine_LineageMemoized(t *testing.T) {
	e := mustEngine(t, estate)

	first, err := e.Lineage("raw_users", graph.Downstream)
	if err != nil {
		t.Fatalf("Lineage() error = %v", err)
	}
	second, err := e.Lineage("raw_users", graph.Downstream)
	if err != nil {
		t.Fatalf("Lineage() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("memoized call differs: %v vs %v", first, second)
	}
	if len(first) != 4 {
		t.Errorf("closure size = %d, want 4", len(first))
	}
}

func TestEngine_LineageErrorNotCached(t *testing.T) {
	e := mustEngine(t, estate)
	for i := 0; i < 2; i++ {
		if _, err := e.Lineage("phantom", graph.Upstream); !errors.Is(err, errors.ErrCodeNodeNotFound) {
			t.Errorf("call %d: error = %v, want NODE_NOT_FOUND", i, err)
		}
	}
}

func TestEngine_SnapshotHashStable(t *testing.T) {
	a := mustEngine(t, estate)
	b := mustEngine(t, estate)
	if a.SnapshotHash() != b.SnapshotHash() {
		t.Error("same document should hash identically")
	}
	c := mustEngine(t, `{"pipelines": [{"name": "other"}]}`)
	if a.SnapshotHash() == c.SnapshotHash() {
		t.Error("different documents should hash differently")
	}
}

func TestEngine_DetectCyclesEmptyNotNil(t *testing.T) {
	e := mustEngine(t, estate)
	if cycles := e.DetectCycles(); cycles == nil || len(cycles) != 0 {
		t.Errorf("DetectCycles() = %v, want empty slice", cycles)
	}
}

func TestEngine_CriticalPathMemoized(t *testing.T) {
	e := mustEngine(t, estate)
	first := e.CriticalPath()
	second := e.CriticalPath()
	if first != second {
		t.Error("CriticalPath() should return the memoized record")
	}
	if first == nil || first.TotalDuration != 15 {
		t.Errorf("CriticalPath() = %+v, want total duration 15", first)
	}
}

func TestEngine_CostliestPathNilWithoutCosts(t *testing.T) {
	e := mustEngine(t, estate)
	if got := e.CostliestPath(); got != nil {
		t.Errorf("CostliestPath() = %+v, want nil", got)
	}
	// nil is memoized too; a second call must not recompute differently.
	if got := e.CostliestPath(); got != nil {
		t.Errorf("second CostliestPath() = %+v, want nil", got)
	}
}

func TestEngine_DataSourceLineageFallback(t *testing.T) {
	e := mustEngine(t, estate)

	// daily_metrics is auto-created and carries no attributes.
	lin, err := e.DataSourceLineage("daily_metrics")
	if err != nil {
		t.Fatalf("DataSourceLineage() error = %v", err)
	}
	if len(lin.Upstream) != 0 || len(lin.Downstream) != 0 {
		t.Errorf("lineage = %+v, want empty", lin)
	}

	if _, err := e.DataSourceLineage("phantom"); !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("error = %v, want NODE_NOT_FOUND", err)
	}
}

func TestEngine_ProjectAirflowNothingToBackfill(t *testing.T) {
	e := mustEngine(t, `{"pipelines": [{"name": "leaf"}]}`)
	projected, err := e.ProjectAirflow([]string{"leaf"})
	if err != nil {
		t.Fatalf("ProjectAirflow() error = %v", err)
	}
	if projected != nil {
		t.Errorf("ProjectAirflow() = %+v, want nil", projected)
	}
}

func TestEngine_InvalidDocumentRejected(t *testing.T) {
	if _, err := Parse([]byte(`{"datasources": []}`)); !errors.Is(err, errors.ErrCodeConfigInvalid) {
		t.Errorf("Parse() error = %v, want CONFIG_INVALID", err)
	}
}
