// Package graph builds the stage dependency graph for a set of requested
// output buffers. It discovers every op reachable from the outputs, creates
// one stage node per op, links producer/consumer edges in both directions,
// and rejects cyclic definitions before any scheduling pass runs.
package graph
