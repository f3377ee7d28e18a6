package synth

import (
	"context"
	"fmt"

	"github.com/vk/tensorgridgo/internal/ctxlog"
	"github.com/vk/tensorgridgo/internal/sched"
	"github.com/vk/tensorgridgo/internal/stage"
	"github.com/vk/tensorgridgo/internal/strategy"
	"github.com/vk/tensorgridgo/internal/tuning"
)

// Strategies bundles the kind-specific scheduling strategies the dispatcher
// invokes. Each is an opaque mutator of the schedule object.
type Strategies struct {
	ComplexReduce strategy.Func
	SimpleReduce  strategy.Func
	OtherRoot     strategy.Func
}

// DefaultStrategies wires the reference strategies.
func DefaultStrategies() Strategies {
	return Strategies{
		ComplexReduce: strategy.ComplexReduce,
		SimpleReduce:  strategy.SimpleReduce,
		OtherRoot:     strategy.OtherRoot,
	}
}

// dispatch mutates the schedule into its final form. The inline pass must
// complete before any root is scheduled: root dispatch only visits
// root-classified stages and assumes everything else has already been folded
// into an inline site or recorded as a fusion.
func (p *Pipeline) dispatch(
	ctx context.Context,
	s *sched.Schedule,
	ginfo *GlobalInfo,
	cfg *tuning.Config,
) error {
	logger := ctxlog.FromContext(ctx)

	// Step 1: inline elimination.
	for _, n := range ginfo.Nodes.Nodes() {
		if n.ComputeAt != stage.ComputeAtInline {
			continue
		}
		if err := s.InlineEliminate(n.Op); err != nil {
			return fmt.Errorf("inlining stage '%s': %w", n.Name(), err)
		}
		logger.Debug("Inlined stage.", "stage", n.Name())
	}

	// Step 2: root dispatch, in node registration order for reproducible
	// output on identical input graphs.
	for _, n := range ginfo.Nodes.Nodes() {
		if n.ComputeAt != stage.ComputeAtRoot {
			continue
		}

		master := n
		if m, ok := ginfo.RootToMaster[n]; ok {
			master = m
		}

		var err error
		switch master.Kind {
		case stage.KindComplexReduction:
			err = p.strategies.ComplexReduce(ctx, s, cfg, master)
		case stage.KindSimpleReduction:
			err = p.strategies.SimpleReduce(ctx, s, cfg, master)
		case stage.KindPlaceholder:
			// Externally supplied buffer, no loop nest to schedule.
		case stage.KindOther:
			err = p.strategies.OtherRoot(ctx, s, cfg, master)
		default:
			return &UnknownKindError{Stage: master.Name(), Kind: master.Kind}
		}
		if err != nil {
			return fmt.Errorf("scheduling root '%s' (master '%s'): %w", n.Name(), master.Name(), err)
		}
		logger.Debug("Dispatched root stage.",
			"root", n.Name(),
			"master", master.Name(),
			"kind", master.Kind.String(),
		)
	}

	return nil
}
