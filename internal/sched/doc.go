// Package sched provides the mutable schedule object the synthesis core and
// the scheduling strategies operate on. A Schedule records, per op, an
// ordered list of loop-nest directives; it is created once per synthesis
// call, mutated in place, and never shared between calls.
package sched
