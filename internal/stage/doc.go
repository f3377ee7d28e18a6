// Package stage defines the node model of the stage dependency graph: one
// node per tensor-producing op, its read/write edges, its computational kind,
// and its compute-at classification. The package holds data definitions only;
// graph construction lives in internal/graph and placement decisions in
// internal/analysis.
package stage
