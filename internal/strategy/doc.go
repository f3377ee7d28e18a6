// Package strategy provides the kind-specific scheduling strategies invoked
// by the dispatcher: one per computational shape of a root group's master
// stage. Each strategy mutates the schedule object in place, shaping the
// master's loop nest according to the current tuning knobs. The synthesis
// core treats them as opaque; nothing here feeds back into placement.
package strategy
