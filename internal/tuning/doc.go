// Package tuning holds the autotuning configuration consumed by the
// scheduling strategies: a flat set of named knobs with typed accessors, a
// loader for knob files, and the process-wide current configuration handle.
// The synthesis core passes the handle through unmodified and treats it as
// read-only for the duration of a call.
package tuning
