package analysis

import (
	"context"

	"github.com/vk/tensorgridgo/internal/ctxlog"
	"github.com/vk/tensorgridgo/internal/ir"
	"github.com/vk/tensorgridgo/internal/stage"
)

// AnnotateComputeLocation assigns a compute-at classification to every node
// in the graph. Rules, in order:
//
//   - requested outputs, sinks, and placeholders are roots;
//   - a remaining elementwise stage is inlined into its consumers;
//   - a remaining reduction fuses into the root its consumers funnel into,
//     when that root is a plain elementwise stage and no other reduction has
//     claimed it; otherwise it becomes a root of its own.
//
// Placeholders are classified root so the dispatcher sees them and skips
// them; they have no loop nest to attach anywhere.
func AnnotateComputeLocation(ctx context.Context, nodes *stage.NodeMap, bufs []*ir.Tensor) {
	logger := ctxlog.FromContext(ctx)

	outputs := make(map[*ir.Op]bool, len(bufs))
	for _, buf := range bufs {
		outputs[buf.Op] = true
	}

	// First pass: stages that must materialize as independent loop nests.
	for _, n := range nodes.Nodes() {
		if outputs[n.Op] || n.IsSink() || n.Kind == stage.KindPlaceholder {
			n.ComputeAt = stage.ComputeAtRoot
		}
	}

	// Second pass: place everything still unclassified relative to the
	// roots chosen above. Each fusion target accepts one reduction only.
	claimed := make(map[*stage.Node]bool)
	for _, n := range nodes.Nodes() {
		if n.ComputeAt != stage.ComputeAtUnset {
			continue
		}

		if n.Kind == stage.KindOther {
			n.ComputeAt = stage.ComputeAtInline
			continue
		}

		if target := fusionRoot(n); target != nil && target.Kind == stage.KindOther && !claimed[target] {
			claimed[target] = true
			n.ComputeAt = stage.ComputeAtFuse
			n.FuseTarget = target
			continue
		}
		n.ComputeAt = stage.ComputeAtRoot
	}

	for _, n := range nodes.Nodes() {
		logger.Debug("Annotated stage.",
			"stage", n.Name(),
			"kind", n.Kind.String(),
			"compute_at", n.ComputeAt.String(),
		)
	}
}

// fusionRoot follows the consumer chain of a reduction through inlinable
// elementwise stages. It returns the root the chain ends at, or nil when the
// chain fans out or ends somewhere that cannot host a fused reduction.
func fusionRoot(n *stage.Node) *stage.Node {
	current := n
	for {
		if len(current.WriteEdges) != 1 {
			return nil
		}
		next := current.WriteEdges[0]
		if next.ComputeAt == stage.ComputeAtRoot {
			return next
		}
		if next.Kind != stage.KindOther {
			return nil
		}
		current = next
	}
}
