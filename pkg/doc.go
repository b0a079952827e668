// Package pkg provides the core libraries for pipeviz estate analysis.
//
// # Overview
//
// Pipeviz reads a declarative description of a data estate (pipelines, data
// sources, clusters, attribute mappings) and answers structural questions
// about it. The pkg directory is organized into three main areas:
//
//  1. Configuration - [config] parses and validates estate documents;
//     [errors] defines the shared error taxonomy.
//  2. Analysis - [graph] derives the estate graph and lineage closures;
//     [analysis] implements cycles, blast radius, backfill waves, and path
//     finding; [attrs] indexes column-level lineage; [engine] is the memoized
//     query boundary over one snapshot.
//  3. Presentation - [render] produces DOT/SVG diagrams; [cache] backs the
//     HTTP façade's response cache; [buildinfo] carries version metadata.
//
// The command-line interface and HTTP façade live under internal/ and build
// entirely on these packages.
package pkg
