// Package graph derives the estate graph from a parsed document and answers
// reachability questions over it.
//
// Build scans every pipeline's inputs, outputs, and upstream-pipeline list
// once and produces the merged node set (including auto-created data sources)
// plus upstream and downstream adjacency mappings. The model is immutable: it
// never writes back to the document, and every analysis in sibling packages
// reads the same snapshot.
//
// Lineage computes depth-annotated transitive closures with a visited guard,
// so it terminates even when the declared edges contain cycles (which the
// analysis package detects separately).
package graph
