package stage

import "github.com/vk/tensorgridgo/internal/ir"

// Kind classifies the computational shape of a stage. It is assigned once
// during graph construction and is immutable afterwards.
type Kind int

const (
	// KindPlaceholder is an externally supplied buffer with no loop nest.
	KindPlaceholder Kind = iota
	// KindSimpleReduction is a single-stage accumulation, e.g. a row sum.
	KindSimpleReduction
	// KindComplexReduction is a reduction with input reuse across several
	// spatial axes, e.g. matmul or conv.
	KindComplexReduction
	// KindOther is everything else: elementwise and generic ops.
	KindOther
)

// String returns the kind name used in logs and rendered schedules.
func (k Kind) String() string {
	switch k {
	case KindPlaceholder:
		return "placeholder"
	case KindSimpleReduction:
		return "simple_reduction"
	case KindComplexReduction:
		return "complex_reduction"
	case KindOther:
		return "other"
	}
	return "unknown"
}

// ComputeAt classifies how a stage attaches to the final schedule. It is
// assigned exactly once by the annotation pass and is immutable afterwards.
type ComputeAt int

const (
	// ComputeAtUnset means the annotation pass has not run yet.
	ComputeAtUnset ComputeAt = iota
	// ComputeAtInline folds the stage into each consumer site.
	ComputeAtInline
	// ComputeAtFuse attaches the stage inside its FuseTarget's loop nest.
	ComputeAtFuse
	// ComputeAtRoot schedules the stage as its own top-level loop nest.
	ComputeAtRoot
	// ComputeAtTune defers placement to a per-stage tuning decision. The
	// classification is recognized but has no handling yet; synthesis
	// fails hard when it encounters one.
	ComputeAtTune
)

// String returns the classification name used in logs.
func (c ComputeAt) String() string {
	switch c {
	case ComputeAtUnset:
		return "unset"
	case ComputeAtInline:
		return "inline"
	case ComputeAtFuse:
		return "fuse"
	case ComputeAtRoot:
		return "root"
	case ComputeAtTune:
		return "tune"
	}
	return "unknown"
}

// Node is one compute stage in the dependency graph. Edges are non-owning
// references; the NodeMap owns all nodes of a graph.
type Node struct {
	// Op is the underlying operation. The synthesis core only passes it to
	// schedule primitives, never mutates it.
	Op *ir.Op
	// ReadEdges are the producer stages this stage consumes from.
	ReadEdges []*Node
	// WriteEdges are the consumer stages reading this stage's output. A
	// stage with no write edges is a sink.
	WriteEdges []*Node
	// Kind is the computational shape, fixed at graph construction.
	Kind Kind
	// ComputeAt is the placement decision of the annotation pass.
	ComputeAt ComputeAt
	// FuseTarget names the root stage this stage fuses into. Valid only
	// when ComputeAt is ComputeAtFuse.
	FuseTarget *Node
}

// Name returns the op name, for logs and error messages.
func (n *Node) Name() string {
	return n.Op.Name
}

// IsSink reports whether the stage has no consumers and therefore must
// materialize as a final output loop nest.
func (n *Node) IsSink() bool {
	return len(n.WriteEdges) == 0
}

// ClassifyKind derives the stage kind from the op's shape. Reductions whose
// output keeps two or more spatial axes reuse their inputs across those axes
// and get the multi-stage treatment; everything else reducing is simple.
func ClassifyKind(op *ir.Op) Kind {
	switch {
	case op.Placeholder:
		return KindPlaceholder
	case len(op.ReduceAxes) == 0:
		return KindOther
	case len(op.SpatialAxes) >= 2:
		return KindComplexReduction
	default:
		return KindSimpleReduction
	}
}

// NodeMap is the arena owning all stage nodes of one graph, keyed by op
// identity. Iteration order is registration order, so every synthesis pass
// over the same graph visits nodes in the same sequence.
type NodeMap struct {
	byOp  map[*ir.Op]*Node
	order []*Node
}

// NewNodeMap creates an empty node arena.
func NewNodeMap() *NodeMap {
	return &NodeMap{byOp: make(map[*ir.Op]*Node)}
}

// Add registers a node for its op. Adding a second node for the same op is a
// graph-construction bug and panics.
func (m *NodeMap) Add(n *Node) {
	if _, exists := m.byOp[n.Op]; exists {
		panic("stage: duplicate node for op " + n.Op.Name)
	}
	m.byOp[n.Op] = n
	m.order = append(m.order, n)
}

// Lookup returns the node for an op, or nil if the op is not in the graph.
func (m *NodeMap) Lookup(op *ir.Op) *Node {
	return m.byOp[op]
}

// Len returns the number of registered nodes.
func (m *NodeMap) Len() int {
	return len(m.order)
}

// Nodes returns all nodes in registration order. The returned slice is the
// arena's own backing storage and must not be mutated.
func (m *NodeMap) Nodes() []*Node {
	return m.order
}

// Sinks returns the nodes with no consumers, in registration order.
func (m *NodeMap) Sinks() []*Node {
	var sinks []*Node
	for _, n := range m.order {
		if n.IsSink() {
			sinks = append(sinks, n)
		}
	}
	return sinks
}
