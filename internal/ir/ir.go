package ir

import "fmt"

// Axis is one loop axis of an operation, either spatial (one per output
// dimension) or a reduction axis iterated inside the stage.
type Axis struct {
	// Name is the loop variable name, used only for rendering.
	Name string
	// Extent is the trip count of the axis.
	Extent int
}

// Op is one tensor-producing operation. Identity is pointer identity: the
// stage graph, the schedule, and all synthesis mappings key on *Op and never
// copy it.
type Op struct {
	// Name uniquely identifies the op within one graph definition.
	Name string
	// Inputs are the tensors this op reads. Empty for placeholders.
	Inputs []*Tensor
	// SpatialAxes are the output iteration axes, one per output dimension.
	SpatialAxes []Axis
	// ReduceAxes are the reduction axes. Empty for elementwise ops and
	// placeholders.
	ReduceAxes []Axis
	// Placeholder marks an externally supplied buffer with no computation
	// of its own.
	Placeholder bool
}

// Tensor is the output buffer of a single op.
type Tensor struct {
	// Name is the buffer name, used for rendering and HCL references.
	Name string
	// Shape is the extent of each output dimension.
	Shape []int
	// Op is the operation producing this tensor. Never nil for a
	// well-formed tensor.
	Op *Op
}

// NewPlaceholder declares an externally supplied input buffer.
func NewPlaceholder(name string, shape []int) *Tensor {
	op := &Op{
		Name:        name,
		SpatialAxes: spatialAxes(shape),
		Placeholder: true,
	}
	return attach(op, name, shape)
}

// NewCompute declares an elementwise (or otherwise reduction-free) op over
// the given inputs.
func NewCompute(name string, shape []int, inputs ...*Tensor) *Tensor {
	op := &Op{
		Name:        name,
		Inputs:      inputs,
		SpatialAxes: spatialAxes(shape),
	}
	return attach(op, name, shape)
}

// NewReduce declares an op that reduces over the given extents while
// producing an output of the given shape.
func NewReduce(name string, shape []int, reduceExtents []int, inputs ...*Tensor) *Tensor {
	op := &Op{
		Name:        name,
		Inputs:      inputs,
		SpatialAxes: spatialAxes(shape),
	}
	for i, extent := range reduceExtents {
		op.ReduceAxes = append(op.ReduceAxes, Axis{Name: fmt.Sprintf("k%d", i), Extent: extent})
	}
	return attach(op, name, shape)
}

func attach(op *Op, name string, shape []int) *Tensor {
	return &Tensor{Name: name, Shape: shape, Op: op}
}

func spatialAxes(shape []int) []Axis {
	axes := make([]Axis, len(shape))
	for i, extent := range shape {
		axes[i] = Axis{Name: fmt.Sprintf("i%d", i), Extent: extent}
	}
	return axes
}
