package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/mattlianje/pipeviz-sub000/pkg/analysis"
	"github.com/mattlianje/pipeviz-sub000/pkg/attrs"
	"github.com/mattlianje/pipeviz-sub000/pkg/config"
	"github.com/mattlianje/pipeviz-sub000/pkg/graph"
)

// Engine is the query boundary over one loaded configuration. It owns the
// immutable snapshot (document, derived graph model, attribute index) and
// every cache derived from it: construct one per snapshot, drop it on
// reload, and no derivative outlives it. There is no process-wide state.
//
// All operations are read-only and idempotent. The memo caches are guarded
// by a mutex, so an Engine is safe for concurrent readers (the HTTP façade
// serves many); each operation is a single synchronous call that fully owns
// its inputs for its duration.
type Engine struct {
	doc   *config.Document
	model *graph.Model
	attrs *attrs.Index
	hash  string

	mu      sync.Mutex
	lineage map[lineageKey][]graph.LineageEntry
	cycles  [][]string
	paths   map[analysis.PathWeight]*analysis.PathResult
}

type lineageKey struct {
	node string
	dir  graph.Direction
}

// New builds an engine from a validated document.
func New(doc *config.Document) *Engine {
	raw, _ := json.Marshal(doc)
	sum := sha256.Sum256(raw)
	return &Engine{
		doc:     doc,
		model:   graph.Build(doc),
		attrs:   attrs.BuildIndex(doc),
		hash:    hex.EncodeToString(sum[:]),
		lineage: make(map[lineageKey][]graph.LineageEntry),
		paths:   make(map[analysis.PathWeight]*analysis.PathResult),
	}
}

// Load reads, validates, and builds an engine from a file.
func Load(path string) (*Engine, error) {
	doc, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return New(doc), nil
}

// Parse validates and builds an engine from JSON bytes.
func Parse(data []byte) (*Engine, error) {
	doc, err := config.Parse(data)
	if err != nil {
		return nil, err
	}
	return New(doc), nil
}

// Document returns the immutable snapshot.
func (e *Engine) Document() *config.Document { return e.doc }

// Model returns the derived graph model.
func (e *Engine) Model() *graph.Model { return e.model }

// SnapshotHash identifies the loaded snapshot. External caches key on it, so
// a reload invalidates every stale entry by construction.
func (e *Engine) SnapshotHash() string { return e.hash }

// Lineage returns the depth-annotated closure of a node, memoized per
// (node, direction) - selections request it constantly.
func (e *Engine) Lineage(node string, dir graph.Direction) ([]graph.LineageEntry, error) {
	key := lineageKey{node: node, dir: dir}
	e.mu.Lock()
	if cached, ok := e.lineage[key]; ok {
		e.mu.Unlock()
		return cached, nil
	}
	e.mu.Unlock()

	closure, err := e.model.Lineage(node, dir)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.lineage[key] = closure
	e.mu.Unlock()
	return closure, nil
}

// DetectCycles reports circular pipeline dependencies, computed once per
// snapshot.
func (e *Engine) DetectCycles() [][]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cycles == nil {
		e.cycles = analysis.DetectCycles(e.model)
		if e.cycles == nil {
			e.cycles = [][]string{}
		}
	}
	return e.cycles
}

// BlastRadius computes the downstream impact of a node or group.
// A nil record means no impact.
func (e *Engine) BlastRadius(node string) (*analysis.Impact, error) {
	return analysis.BlastRadius(e.model, node)
}

// PlanBackfill computes the wave plan for a pipeline selection.
// A nil plan means there is nothing downstream to backfill.
func (e *Engine) PlanBackfill(selection []string) (*analysis.Plan, error) {
	return analysis.PlanBackfill(e.model, selection)
}

// ProjectAirflow plans a backfill and re-expresses it at Airflow DAG
// granularity. A nil result means there was nothing to backfill.
func (e *Engine) ProjectAirflow(selection []string) (*analysis.AirflowPlan, error) {
	plan, err := analysis.PlanBackfill(e.model, selection)
	if err != nil {
		return nil, err
	}
	return analysis.ProjectAirflow(e.model, plan)
}

// CriticalPath returns the longest-duration path, or nil when no pipeline
// declares a duration. Computed once per snapshot.
func (e *Engine) CriticalPath() *analysis.PathResult {
	return e.path(analysis.WeightDuration)
}

// CostliestPath returns the highest-cost path, or nil when no pipeline
// declares a cost. Computed once per snapshot.
func (e *Engine) CostliestPath() *analysis.PathResult {
	return e.path(analysis.WeightCost)
}

func (e *Engine) path(w analysis.PathWeight) *analysis.PathResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	if cached, ok := e.paths[w]; ok {
		return cached
	}
	var result *analysis.PathResult
	if w == analysis.WeightDuration {
		result = analysis.CriticalPath(e.model)
	} else {
		result = analysis.CostliestPath(e.model)
	}
	e.paths[w] = result
	return result
}

// AttributeLineage returns the column-level closures of one attribute.
func (e *Engine) AttributeLineage(id string) (*attrs.Lineage, error) {
	return e.attrs.AttributeLineage(id)
}

// DataSourceLineage returns the data-source-level rollup for one source.
// Data sources that exist in the estate graph but carry no attribute edges
// (including auto-created ones) report empty closures rather than an error.
func (e *Engine) DataSourceLineage(name string) (*attrs.Lineage, error) {
	lin, err := e.attrs.DataSourceLineage(name)
	if err == nil {
		return lin, nil
	}
	if n, ok := e.model.Node(name); ok && n.Kind == graph.KindDataSource {
		return &attrs.Lineage{}, nil
	}
	return nil, err
}

// Attributes returns every flattened attribute node, sorted by identifier.
func (e *Engine) Attributes() []*attrs.Node { return e.attrs.Nodes() }
