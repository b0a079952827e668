package graph

import (
	"slices"
	"sort"
	"strings"

	"github.com/mattlianje/pipeviz-sub000/pkg/config"
)

// NodeKind distinguishes pipelines from data sources in the derived graph.
type NodeKind int

const (
	// KindPipeline is a declared pipeline.
	KindPipeline NodeKind = iota
	// KindDataSource is a declared or implicit data source.
	KindDataSource
)

// String returns the wire name of the kind ("pipeline" or "datasource").
func (k NodeKind) String() string {
	if k == KindPipeline {
		return "pipeline"
	}
	return "datasource"
}

// Node is a vertex of the derived estate graph.
type Node struct {
	Name string
	Kind NodeKind
	// Implicit marks data sources that were referenced by some pipeline's
	// inputs or outputs but never declared. They are synthesized once per
	// name and tagged auto-created.
	Implicit bool
}

// Edge is a directed data-flow or dependency edge between two nodes.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Model holds the derived graph of one immutable document snapshot: the
// merged node set (pipelines, declared data sources, implicit data sources)
// and the two adjacency mappings built by scanning every pipeline's inputs,
// outputs, and upstream-pipeline list once. Model never mutates the document
// and is itself immutable after Build.
type Model struct {
	doc        *config.Document
	nodes      map[string]*Node
	downstream map[string][]string // node -> sorted successor names
	upstream   map[string][]string // node -> sorted predecessor names
	edges      []Edge              // sorted, deduplicated
	groups     map[string][]string // group -> sorted member pipeline names
}

// Build derives the graph model from a validated document. It is a pure
// function of the document: same input, same model.
//
// Edges are: source→pipeline for each input, pipeline→source for each output,
// upstream→pipeline for each upstream_pipelines entry that names a declared
// pipeline (unresolved upstream references produce no edge - there is no node
// to hang one on).
func Build(doc *config.Document) *Model {
	m := &Model{
		doc:        doc,
		nodes:      make(map[string]*Node),
		downstream: make(map[string][]string),
		upstream:   make(map[string][]string),
		groups:     make(map[string][]string),
	}

	for i := range doc.Pipelines {
		p := &doc.Pipelines[i]
		m.nodes[p.Name] = &Node{Name: p.Name, Kind: KindPipeline}
		if p.Group != "" {
			m.groups[p.Group] = append(m.groups[p.Group], p.Name)
		}
	}
	for i := range doc.DataSources {
		ds := &doc.DataSources[i]
		m.nodes[ds.Name] = &Node{Name: ds.Name, Kind: KindDataSource}
	}

	edgeSet := make(map[Edge]bool)
	addEdge := func(from, to string) {
		e := Edge{From: from, To: to}
		if edgeSet[e] {
			return
		}
		edgeSet[e] = true
		m.downstream[from] = append(m.downstream[from], to)
		m.upstream[to] = append(m.upstream[to], from)
		m.edges = append(m.edges, e)
	}
	// ensureSource synthesizes an implicit data source at most once per name.
	ensureSource := func(name string) {
		if _, ok := m.nodes[name]; !ok {
			m.nodes[name] = &Node{Name: name, Kind: KindDataSource, Implicit: true}
		}
	}

	for i := range doc.Pipelines {
		p := &doc.Pipelines[i]
		for _, in := range p.InputSources {
			ensureSource(in)
			addEdge(in, p.Name)
		}
		for _, out := range p.OutputSources {
			ensureSource(out)
			addEdge(p.Name, out)
		}
		for _, up := range p.UpstreamPipelines {
			if n, ok := m.nodes[up]; ok && n.Kind == KindPipeline {
				addEdge(up, p.Name)
			}
		}
	}

	for _, adj := range []map[string][]string{m.downstream, m.upstream} {
		for k := range adj {
			sort.Strings(adj[k])
		}
	}
	slices.SortFunc(m.edges, func(a, b Edge) int {
		if c := strings.Compare(a.From, b.From); c != 0 {
			return c
		}
		return strings.Compare(a.To, b.To)
	})
	for g := range m.groups {
		sort.Strings(m.groups[g])
	}
	return m
}

// Document returns the snapshot this model was built from.
func (m *Model) Document() *config.Document { return m.doc }

// Node returns the node with the given name and true, or nil and false.
func (m *Model) Node(name string) (*Node, bool) {
	n, ok := m.nodes[name]
	return n, ok
}

// Nodes returns all nodes sorted by name.
func (m *Model) Nodes() []*Node {
	nodes := make([]*Node, 0, len(m.nodes))
	for _, n := range m.nodes {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b *Node) int { return strings.Compare(a.Name, b.Name) })
	return nodes
}

// NodeCount returns the number of nodes in the derived graph.
func (m *Model) NodeCount() int { return len(m.nodes) }

// Edges returns all edges sorted by (from, to).
func (m *Model) Edges() []Edge { return slices.Clone(m.edges) }

// Downstream returns the sorted direct successors of a node.
// The returned slice is a read-only view.
func (m *Model) Downstream(name string) []string { return m.downstream[name] }

// Upstream returns the sorted direct predecessors of a node.
// The returned slice is a read-only view.
func (m *Model) Upstream(name string) []string { return m.upstream[name] }

// GroupMembers returns the sorted pipelines declaring the given group,
// or nil if no pipeline does.
func (m *Model) GroupMembers(group string) []string { return m.groups[group] }

// IsGroup reports whether any pipeline declares the given group.
func (m *Model) IsGroup(name string) bool { return len(m.groups[name]) > 0 }

// Pipeline returns the declared pipeline with the given name, or nil.
func (m *Model) Pipeline(name string) *config.Pipeline {
	if n, ok := m.nodes[name]; !ok || n.Kind != KindPipeline {
		return nil
	}
	return m.doc.PipelineByName(name)
}

// Collapse maps a pipeline name to its group name when the pipeline declares
// one, and to itself otherwise. Dependency-oriented analyses apply it before
// building their graphs so sibling pipelines of one logical unit don't read
// as self-dependencies.
func (m *Model) Collapse(pipelineName string) string {
	if p := m.Pipeline(pipelineName); p != nil && p.Group != "" {
		return p.Group
	}
	return pipelineName
}
