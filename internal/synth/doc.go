// Package synth is the schedule-synthesis core. Given a set of requested
// output buffers it builds the stage dependency graph, annotates each stage's
// compute location, resolves the master stage of every fused group, and
// dispatches each root group to the scheduling strategy matching its master's
// kind, producing a fully scheduled schedule object.
//
// One call, one schedule: the pipeline is synchronous, owns all of its
// intermediate state, and aborts on the first failure. There is no retry and
// no partial schedule.
package synth
