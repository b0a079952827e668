package graph

import (
	"slices"
	"strings"

	"github.com/mattlianje/pipeviz-sub000/pkg/errors"
)

// Direction selects which adjacency mapping a lineage walk follows.
type Direction string

const (
	// Upstream walks predecessor edges (what feeds this node).
	Upstream Direction = "upstream"
	// Downstream walks successor edges (what this node feeds).
	Downstream Direction = "downstream"
)

// ParseDirection validates a direction string from the wire.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Upstream, Downstream:
		return Direction(s), nil
	default:
		return "", errors.New(errors.ErrCodeInvalidSelection, "direction must be %q or %q, got %q", Upstream, Downstream, s)
	}
}

// LineageEntry is one node of a lineage closure with its hop distance from
// the start node.
type LineageEntry struct {
	ID    string `json:"id"`
	Depth int    `json:"depth"`
}

// Lineage computes the transitive closure of a node in the given direction.
//
// Discovery is breadth-first, so each node's recorded depth is its true
// shortest hop distance from the start; a node reachable through several call
// sites is recorded once, at its minimum depth. The start node is never part
// of its own closure, and the visited guard makes the walk terminate even
// when the underlying edges contain cycles. Entries are sorted ascending by
// depth, then by name.
//
// Returns NODE_NOT_FOUND if the node is not part of the derived graph.
func (m *Model) Lineage(name string, dir Direction) ([]LineageEntry, error) {
	if _, ok := m.nodes[name]; !ok {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "node %q does not exist", name)
	}

	adj := m.downstream
	if dir == Upstream {
		adj = m.upstream
	}

	visited := map[string]bool{name: true}
	var closure []LineageEntry
	frontier := []string{name}
	for depth := 1; len(frontier) > 0; depth++ {
		var next []string
		for _, cur := range frontier {
			for _, nb := range adj[cur] {
				if visited[nb] {
					continue
				}
				visited[nb] = true
				closure = append(closure, LineageEntry{ID: nb, Depth: depth})
				next = append(next, nb)
			}
		}
		frontier = next
	}

	slices.SortFunc(closure, func(a, b LineageEntry) int {
		if a.Depth != b.Depth {
			return a.Depth - b.Depth
		}
		return strings.Compare(a.ID, b.ID)
	})
	return closure, nil
}
