// Package analysis decides, for every stage in the graph, how it attaches to
// the final schedule: inlined into its consumers, fused into a downstream
// root, or scheduled as a root loop nest of its own. The pass assigns exactly
// one classification per node and is deterministic for a given graph and
// output set.
package analysis
