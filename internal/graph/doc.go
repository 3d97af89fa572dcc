// Package graph holds the live node graph: node instances with typed pins,
// the connections between them, and the validation that keeps the structure
// a usable DAG.
//
// The graph is the single source of truth for structure (which nodes exist,
// how pins are wired) and for per-run execution state (status, outputs,
// errors), which the executor mutates while workers run nodes in parallel.
// All operations are concurrency-safe.
package graph
