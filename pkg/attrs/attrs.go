// Package attrs implements column-level lineage within and across data
// sources.
//
// Every data source's attribute tree is flattened into attribute nodes
// identified by the owning data source name plus the ::-joined path through
// nested attribute names (the same shape `from` references use:
// datasource::path::to::field). A non-leaf attribute is structural - it has
// no lineage edges of its own, but its descendants may. Each `from`
// reference produces one upstream edge on the referencing attribute and the
// mirrored downstream edge on the referenced one.
//
// A coarser data-source-level rollup projects every attribute edge onto the
// owning data sources, dropping edges internal to one source, and answers
// "which data sources feed/consume this one" without attribute-level detail.
package attrs

import (
	"sort"
	"strings"

	"github.com/mattlianje/pipeviz-sub000/pkg/config"
	"github.com/mattlianje/pipeviz-sub000/pkg/errors"
	"github.com/mattlianje/pipeviz-sub000/pkg/graph"
)

// Separator joins the segments of an attribute identifier.
const Separator = "::"

// Node is one flattened attribute.
type Node struct {
	ID         string `json:"id"`
	DataSource string `json:"datasource"`
	// Structural marks attributes with nested children; they carry no
	// lineage edges of their own.
	Structural bool `json:"structural,omitempty"`
	// Declared is false for attributes that exist only because a `from`
	// reference names them - the column-level analogue of an implicit
	// data source.
	Declared bool `json:"declared"`
}

// Lineage is the two-directional closure of one attribute or data source.
type Lineage struct {
	Upstream   []graph.LineageEntry `json:"upstream"`
	Downstream []graph.LineageEntry `json:"downstream"`
}

// Index holds the flattened attribute graph of one document snapshot plus
// its data-source-level projection. Like the estate model it is immutable
// after construction and never writes back to the document.
type Index struct {
	nodes        map[string]*Node
	upstream     map[string][]string
	downstream   map[string][]string
	dsUpstream   map[string][]string
	dsDownstream map[string][]string
	dsKnown      map[string]bool
}

// BuildIndex flattens every data source's attribute tree and wires the
// lineage edges declared by `from` references. References to attributes that
// were never declared still become nodes (their owning source is the first
// identifier segment), mirroring how the estate graph synthesizes implicit
// data sources.
func BuildIndex(doc *config.Document) *Index {
	ix := &Index{
		nodes:        make(map[string]*Node),
		upstream:     make(map[string][]string),
		downstream:   make(map[string][]string),
		dsUpstream:   make(map[string][]string),
		dsDownstream: make(map[string][]string),
		dsKnown:      make(map[string]bool),
	}

	type pendingRef struct{ from, to string }
	var refs []pendingRef

	var flatten func(ds string, prefix string, attrs []config.Attribute)
	flatten = func(ds string, prefix string, attrList []config.Attribute) {
		for i := range attrList {
			a := &attrList[i]
			id := prefix + Separator + a.Name
			ix.nodes[id] = &Node{
				ID:         id,
				DataSource: ds,
				Structural: len(a.Attributes) > 0,
				Declared:   true,
			}
			for _, ref := range a.From {
				refs = append(refs, pendingRef{from: ref, to: id})
			}
			flatten(ds, id, a.Attributes)
		}
	}

	for i := range doc.DataSources {
		ds := &doc.DataSources[i]
		ix.dsKnown[ds.Name] = true
		flatten(ds.Name, ds.Name, ds.Attributes)
	}

	edgeSet := make(map[[2]string]bool)
	dsEdgeSet := make(map[[2]string]bool)
	for _, r := range refs {
		if _, ok := ix.nodes[r.from]; !ok {
			ix.nodes[r.from] = &Node{ID: r.from, DataSource: ownerOf(r.from)}
			ix.dsKnown[ownerOf(r.from)] = true
		}
		if edgeSet[[2]string{r.from, r.to}] {
			continue
		}
		edgeSet[[2]string{r.from, r.to}] = true
		ix.upstream[r.to] = append(ix.upstream[r.to], r.from)
		ix.downstream[r.from] = append(ix.downstream[r.from], r.to)

		fromDS, toDS := ownerOf(r.from), ownerOf(r.to)
		if fromDS != toDS && !dsEdgeSet[[2]string{fromDS, toDS}] {
			dsEdgeSet[[2]string{fromDS, toDS}] = true
			ix.dsUpstream[toDS] = append(ix.dsUpstream[toDS], fromDS)
			ix.dsDownstream[fromDS] = append(ix.dsDownstream[fromDS], toDS)
		}
	}

	for _, adj := range []map[string][]string{ix.upstream, ix.downstream, ix.dsUpstream, ix.dsDownstream} {
		for k := range adj {
			sort.Strings(adj[k])
		}
	}
	return ix
}

// ownerOf returns the data source segment of an attribute identifier.
func ownerOf(id string) string {
	if i := strings.Index(id, Separator); i >= 0 {
		return id[:i]
	}
	return id
}

// Node returns the attribute node with the given identifier, or nil.
func (ix *Index) Node(id string) *Node { return ix.nodes[id] }

// Nodes returns all attribute nodes sorted by identifier.
func (ix *Index) Nodes() []*Node {
	out := make([]*Node, 0, len(ix.nodes))
	for _, n := range ix.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AttributeLineage computes the full upstream and downstream closures of one
// attribute, depth-annotated and sorted, with the same cycle guard and
// minimum-depth contract as node-level lineage. The attribute itself is
// never part of either closure.
//
// Returns ATTRIBUTE_NOT_FOUND when the identifier matches neither a declared
// attribute nor one synthesized from a reference.
func (ix *Index) AttributeLineage(id string) (*Lineage, error) {
	if _, ok := ix.nodes[id]; !ok {
		return nil, errors.New(errors.ErrCodeAttributeNotFound, "attribute %q does not exist", id)
	}
	return &Lineage{
		Upstream:   bfs(ix.upstream, id),
		Downstream: bfs(ix.downstream, id),
	}, nil
}

// DataSourceLineage computes which data sources feed and consume the given
// one, at data-source granularity (attribute edges internal to one source
// are dropped by the projection).
//
// Returns NODE_NOT_FOUND when the name is neither a declared data source nor
// one referenced by any attribute edge.
func (ix *Index) DataSourceLineage(name string) (*Lineage, error) {
	if !ix.dsKnown[name] {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "datasource %q does not exist", name)
	}
	return &Lineage{
		Upstream:   bfs(ix.dsUpstream, name),
		Downstream: bfs(ix.dsDownstream, name),
	}, nil
}

// bfs walks adj breadth-first from start, excluding start itself, guarding
// revisits, and recording minimum hop depths. Entries sort by depth then id.
func bfs(adj map[string][]string, start string) []graph.LineageEntry {
	visited := map[string]bool{start: true}
	var closure []graph.LineageEntry
	frontier := []string{start}
	for depth := 1; len(frontier) > 0; depth++ {
		var next []string
		for _, cur := range frontier {
			for _, nb := range adj[cur] {
				if visited[nb] {
					continue
				}
				visited[nb] = true
				closure = append(closure, graph.LineageEntry{ID: nb, Depth: depth})
				next = append(next, nb)
			}
		}
		frontier = next
	}
	sort.Slice(closure, func(i, j int) bool {
		if closure[i].Depth != closure[j].Depth {
			return closure[i].Depth < closure[j].Depth
		}
		return closure[i].ID < closure[j].ID
	})
	return closure
}
