package strategy

import (
	"context"
	"fmt"

	"github.com/vk/tensorgridgo/internal/ctxlog"
	"github.com/vk/tensorgridgo/internal/sched"
	"github.com/vk/tensorgridgo/internal/stage"
	"github.com/vk/tensorgridgo/internal/tuning"
)

// Knob names shared by the strategies. Absent knobs fall back to the
// defaults below.
const (
	knobTileX      = "tile_x"
	knobRFactorLen = "rfactor_len"
	knobParallel   = "parallel"

	defaultTileX      = 8
	defaultRFactorLen = 16
)

// Func is the signature of a kind-specific scheduling strategy. It mutates
// the schedule in place and must not touch any stage outside the master's
// loop nest.
type Func func(ctx context.Context, s *sched.Schedule, cfg *tuning.Config, master *stage.Node) error

// OtherRoot schedules a generic (elementwise) root stage: collapse the
// spatial axes into one iteration domain, tile it, and parallelize the outer
// loop.
func OtherRoot(ctx context.Context, s *sched.Schedule, cfg *tuning.Config, master *stage.Node) error {
	logger := ctxlog.FromContext(ctx)
	st := s.StageFor(master.Op)

	axes := spatialNames(master)
	if len(axes) == 0 {
		return fmt.Errorf("generic root stage '%s' has no spatial axes", master.Name())
	}

	fused := "fused"
	if len(axes) > 1 {
		st.Apply(sched.Directive{Kind: sched.DirectiveFuseAxes, Axes: axes})
	} else {
		fused = axes[0]
	}

	tile := cfg.Int(knobTileX, defaultTileX)
	st.Apply(sched.Directive{Kind: sched.DirectiveSplit, Axes: []string{fused}, Factor: tile})
	if cfg.Bool(knobParallel, true) {
		st.Apply(sched.Directive{Kind: sched.DirectiveParallel, Axes: []string{fused + ".outer"}})
	}

	logger.Debug("Scheduled generic root.", "stage", master.Name(), "tile", tile)
	return nil
}

// SimpleReduce schedules a single-stage accumulation: parallelize the spatial
// axes and keep the reduction loop innermost and sequential.
func SimpleReduce(ctx context.Context, s *sched.Schedule, cfg *tuning.Config, master *stage.Node) error {
	logger := ctxlog.FromContext(ctx)
	st := s.StageFor(master.Op)

	spatial := spatialNames(master)
	reduce := reduceNames(master)
	if len(reduce) == 0 {
		return fmt.Errorf("simple-reduce stage '%s' has no reduction axes", master.Name())
	}

	st.Apply(sched.Directive{Kind: sched.DirectiveReorder, Axes: append(append([]string{}, spatial...), reduce...)})
	if len(spatial) > 0 && cfg.Bool(knobParallel, true) {
		st.Apply(sched.Directive{Kind: sched.DirectiveParallel, Axes: []string{spatial[0]}})
	}
	attachFused(st, master)

	logger.Debug("Scheduled simple reduction.", "stage", master.Name())
	return nil
}

// ComplexReduce schedules a reduction with input reuse: factor the first
// reduction axis into a partial stage, then tile and parallelize the spatial
// domain of the combining stage.
func ComplexReduce(ctx context.Context, s *sched.Schedule, cfg *tuning.Config, master *stage.Node) error {
	logger := ctxlog.FromContext(ctx)
	st := s.StageFor(master.Op)

	spatial := spatialNames(master)
	reduce := reduceNames(master)
	if len(reduce) == 0 {
		return fmt.Errorf("complex-reduce stage '%s' has no reduction axes", master.Name())
	}

	factor := cfg.Int(knobRFactorLen, defaultRFactorLen)
	st.Apply(sched.Directive{Kind: sched.DirectiveSplit, Axes: []string{reduce[0]}, Factor: factor})
	st.Apply(sched.Directive{Kind: sched.DirectiveRFactor, Axes: []string{reduce[0] + ".inner"}, Factor: factor})

	tile := cfg.Int(knobTileX, defaultTileX)
	for _, axis := range spatial {
		st.Apply(sched.Directive{Kind: sched.DirectiveSplit, Axes: []string{axis}, Factor: tile})
	}
	if len(spatial) > 0 && cfg.Bool(knobParallel, true) {
		st.Apply(sched.Directive{Kind: sched.DirectiveParallel, Axes: []string{spatial[0] + ".outer"}})
	}
	attachFused(st, master)

	logger.Debug("Scheduled complex reduction.", "stage", master.Name(), "rfactor_len", factor, "tile", tile)
	return nil
}

// attachFused records the attachment of a fused master inside its target
// root's loop nest. Masters scheduled at root level need no attachment.
func attachFused(st *sched.Stage, master *stage.Node) {
	if master.FuseTarget == nil {
		return
	}
	st.Apply(sched.Directive{Kind: sched.DirectiveComputeAt, Target: master.FuseTarget.Name()})
}

func spatialNames(n *stage.Node) []string {
	names := make([]string, len(n.Op.SpatialAxes))
	for i, axis := range n.Op.SpatialAxes {
		names[i] = axis.Name
	}
	return names
}

func reduceNames(n *stage.Node) []string {
	names := make([]string, len(n.Op.ReduceAxes))
	for i, axis := range n.Op.ReduceAxes {
		names[i] = axis.Name
	}
	return names
}
