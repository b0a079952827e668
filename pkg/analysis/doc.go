// Package analysis implements the structural analyses over a derived estate
// graph: cycle detection, blast radius, backfill wave planning (with Airflow
// DAG projection), and critical/costliest path computation.
//
// Every function here is a pure, synchronous computation over an immutable
// [graph.Model]; nothing mutates the snapshot, and degenerate-but-valid
// situations (no impact, nothing to backfill, no numeric attributes) are
// reported as nil records, distinct from errors.
package analysis
