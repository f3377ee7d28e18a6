package sched

import (
	"fmt"
	"io"
	"strings"

	"github.com/vk/tensorgridgo/internal/ir"
)

// DirectiveKind enumerates the loop-nest transformations a strategy can
// record on a stage.
type DirectiveKind int

const (
	// DirectiveSplit splits an axis into an outer/inner pair by a factor.
	DirectiveSplit DirectiveKind = iota
	// DirectiveFuseAxes collapses several axes into one iteration domain.
	DirectiveFuseAxes
	// DirectiveReorder fixes the loop order of the listed axes.
	DirectiveReorder
	// DirectiveParallel marks an axis for parallel execution.
	DirectiveParallel
	// DirectiveRFactor splits a reduction into a partial stage plus a
	// combining stage along the named axis.
	DirectiveRFactor
	// DirectiveComputeAt attaches this stage's loop nest inside another
	// stage's axis.
	DirectiveComputeAt
)

// String returns the directive name used by Render.
func (k DirectiveKind) String() string {
	switch k {
	case DirectiveSplit:
		return "split"
	case DirectiveFuseAxes:
		return "fuse"
	case DirectiveReorder:
		return "reorder"
	case DirectiveParallel:
		return "parallel"
	case DirectiveRFactor:
		return "rfactor"
	case DirectiveComputeAt:
		return "compute_at"
	}
	return "unknown"
}

// Directive is one recorded loop-nest transformation.
type Directive struct {
	Kind DirectiveKind
	// Axes names the axes the directive applies to.
	Axes []string
	// Factor is the split/rfactor factor, zero when not applicable.
	Factor int
	// Target names the host stage for compute_at directives.
	Target string
}

// Stage is the mutable per-op schedule record.
type Stage struct {
	Op *ir.Op
	// Inlined marks the stage as folded into its consumers; an inlined
	// stage has no loop nest of its own.
	Inlined bool
	// Directives are applied in order during lowering.
	Directives []Directive
}

// Apply appends a directive to the stage's plan.
func (s *Stage) Apply(d Directive) {
	s.Directives = append(s.Directives, d)
}

// Schedule is the mutable schedule object for one synthesis call. Not safe
// for concurrent mutation; each call owns its own instance.
type Schedule struct {
	stages  map[*ir.Op]*Stage
	order   []*ir.Op
	outputs map[*ir.Op]bool
}

// New constructs a schedule seeded with the final-output ops. Seeded ops are
// pinned: they always materialize as independent loop nests and can never be
// inlined away.
func New(sinkOps []*ir.Op) *Schedule {
	s := &Schedule{
		stages:  make(map[*ir.Op]*Stage),
		outputs: make(map[*ir.Op]bool, len(sinkOps)),
	}
	for _, op := range sinkOps {
		s.outputs[op] = true
		s.StageFor(op)
	}
	return s
}

// StageFor returns the schedule record for an op, creating it on first use.
func (s *Schedule) StageFor(op *ir.Op) *Stage {
	if st, ok := s.stages[op]; ok {
		return st
	}
	st := &Stage{Op: op}
	s.stages[op] = st
	s.order = append(s.order, op)
	return st
}

// InlineEliminate folds an op's computation into each consumer site,
// removing it as an independent stage. Final outputs are pinned and cannot
// be eliminated.
func (s *Schedule) InlineEliminate(op *ir.Op) error {
	if s.outputs[op] {
		return fmt.Errorf("cannot inline final output stage '%s'", op.Name)
	}
	s.StageFor(op).Inlined = true
	return nil
}

// IsOutput reports whether the op was seeded as a final output.
func (s *Schedule) IsOutput(op *ir.Op) bool {
	return s.outputs[op]
}

// Roots returns the non-inlined stage records in seed/creation order.
func (s *Schedule) Roots() []*Stage {
	var roots []*Stage
	for _, op := range s.order {
		if st := s.stages[op]; !st.Inlined {
			roots = append(roots, st)
		}
	}
	return roots
}

// Render writes a human-readable plan, one line per stage directive, in the
// order stages entered the schedule.
func (s *Schedule) Render(w io.Writer) error {
	for _, op := range s.order {
		st := s.stages[op]
		if st.Inlined {
			if _, err := fmt.Fprintf(w, "%s: inlined\n", op.Name); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s:\n", op.Name); err != nil {
			return err
		}
		for _, d := range st.Directives {
			if _, err := fmt.Fprintf(w, "  %s\n", formatDirective(d)); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatDirective(d Directive) string {
	parts := append([]string{}, d.Axes...)
	if d.Factor > 0 {
		parts = append(parts, fmt.Sprintf("factor=%d", d.Factor))
	}
	if d.Target != "" {
		parts = append(parts, fmt.Sprintf("at=%s", d.Target))
	}
	return fmt.Sprintf("%s(%s)", d.Kind, strings.Join(parts, ", "))
}
