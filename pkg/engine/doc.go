// Package engine exposes the query boundary over a loaded estate
// configuration.
//
// An Engine wraps one immutable snapshot and answers every structural
// question the analyses support: lineage closures, cycle detection, blast
// radius, backfill wave plans (plus Airflow projection), critical/costliest
// paths, and attribute-level lineage. Results that are computed repeatedly
// for the same snapshot (closures, cycles, paths) memoize inside the engine;
// the memo dies with the engine, so reloading a document can never serve
// stale derivatives.
package engine
