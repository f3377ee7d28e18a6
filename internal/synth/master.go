package synth

import (
	"context"
	"fmt"

	"github.com/vk/tensorgridgo/internal/ctxlog"
	"github.com/vk/tensorgridgo/internal/stage"
)

// resolveMasters maps every fusion target to the single stage fused into it.
// Absence of an entry means a root stage is its own master. Inline stages are
// a separate action and never enter the mapping. The outcome is independent
// of iteration order: the duplicate-target check is symmetric in the two
// conflicting stages.
func resolveMasters(ctx context.Context, nodes *stage.NodeMap) (map[*stage.Node]*stage.Node, error) {
	logger := ctxlog.FromContext(ctx)
	rootToMaster := make(map[*stage.Node]*stage.Node)

	for _, n := range nodes.Nodes() {
		switch n.ComputeAt {
		case stage.ComputeAtFuse:
			target := n.FuseTarget
			if target == nil {
				return nil, fmt.Errorf("stage '%s' is classified fuse but names no target", n.Name())
			}
			if existing, ok := rootToMaster[target]; ok {
				return nil, &FusionConflictError{
					Target:   target.Name(),
					Existing: existing.Name(),
					Incoming: n.Name(),
				}
			}
			rootToMaster[target] = n
			logger.Debug("Resolved fusion master.", "target", target.Name(), "master", n.Name())
		case stage.ComputeAtTune:
			return nil, &UnimplementedClassificationError{
				Stage:          n.Name(),
				Classification: n.ComputeAt,
			}
		case stage.ComputeAtInline, stage.ComputeAtRoot:
			// Inlining is handled by the dispatcher; roots need no entry.
		}
	}

	return rootToMaster, nil
}
