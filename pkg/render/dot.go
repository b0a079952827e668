package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/mattlianje/pipeviz-sub000/pkg/graph"
)

// Options configures diagram generation.
type Options struct {
	// Detailed includes schedule, owner, and cluster in node labels.
	// When false, only the node name is shown.
	Detailed bool
}

// ToDOT converts an estate model to Graphviz DOT source. The result can be
// rendered with [RenderSVG] or processed by external Graphviz tooling.
//
// Auto-created data sources (referenced by a pipeline but never declared)
// are drawn with dashed outlines to flag gaps in the declared estate.
func ToDOT(m *graph.Model, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph estate {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range m.Nodes() {
		attrs := nodeAttrs(m, n, opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range m.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(m *graph.Model, n *graph.Node, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", nodeLabel(m, n, opts))}
	switch {
	case n.Kind == graph.KindPipeline:
		attrs = append(attrs, "shape=box", `style="rounded,filled"`, "fillcolor=lightblue")
	case n.Implicit:
		attrs = append(attrs, "shape=ellipse", `style="filled,dashed"`, "fillcolor=white")
	default:
		attrs = append(attrs, "shape=ellipse", "style=filled", "fillcolor=lightgrey")
	}
	return attrs
}

func nodeLabel(m *graph.Model, n *graph.Node, opts Options) string {
	if !opts.Detailed {
		return n.Name
	}
	parts := []string{n.Name}
	if p := m.Pipeline(n.Name); p != nil {
		if p.Schedule != "" {
			parts = append(parts, "schedule: "+p.Schedule)
		}
		if p.Owner != "" {
			parts = append(parts, "owner: "+p.Owner)
		}
		if p.Cluster != "" {
			parts = append(parts, "cluster: "+p.Cluster)
		}
	}
	if n.Kind == graph.KindDataSource {
		if ds := m.Document().DataSourceByName(n.Name); ds != nil {
			if ds.Type != "" {
				parts = append(parts, "type: "+ds.Type)
			}
			if ds.Owner != "" {
				parts = append(parts, "owner: "+ds.Owner)
			}
		}
		if n.Implicit {
			parts = append(parts, "(auto-created)")
		}
	}
	return strings.Join(parts, "\n")
}

// RenderSVG lays out a DOT graph and renders it to SVG in-process.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
