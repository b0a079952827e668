// Package render produces node-link diagrams of an estate graph.
//
// # Overview
//
// The engine describes structure only; all geometry is delegated to
// Graphviz. [ToDOT] serializes a model as DOT source, and [RenderSVG] lays
// it out in-process via [github.com/goccy/go-graphviz].
//
// # Usage
//
// Convert a model to DOT, then render:
//
//	dot := render.ToDOT(model, render.Options{})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # DOT Format
//
// Generated DOT uses left-to-right layout (rankdir=LR). Pipelines render as
// rounded boxes, data sources as ellipses, and auto-created data sources get
// dashed outlines so gaps in the declared estate stay visible.
package render
