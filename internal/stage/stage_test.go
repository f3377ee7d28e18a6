package stage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/tensorgridgo/internal/ir"
)

func TestClassifyKind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		buf  *ir.Tensor
		want Kind
	}{
		{"placeholder", ir.NewPlaceholder("data", []int{8, 8}), KindPlaceholder},
		{"elementwise", ir.NewCompute("relu", []int{8, 8}), KindOther},
		{"row sum", ir.NewReduce("rowsum", []int{8}, []int{8}), KindSimpleReduction},
		{"full sum", ir.NewReduce("total", []int{1}, []int{64}), KindSimpleReduction},
		{"matmul", ir.NewReduce("dense", []int{8, 8}, []int{8}), KindComplexReduction},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ClassifyKind(tc.buf.Op))
		})
	}
}

func TestNodeMap_PreservesRegistrationOrder(t *testing.T) {
	t.Parallel()

	m := NewNodeMap()
	var added []*Node
	for _, name := range []string{"c", "a", "b"} {
		n := &Node{Op: ir.NewCompute(name, []int{4}).Op}
		m.Add(n)
		added = append(added, n)
	}

	require.Equal(t, 3, m.Len())
	assert.Equal(t, added, m.Nodes())
	assert.Same(t, added[1], m.Lookup(added[1].Op))
}

func TestNodeMap_DuplicateOpPanics(t *testing.T) {
	t.Parallel()

	m := NewNodeMap()
	n := &Node{Op: ir.NewCompute("x", []int{4}).Op}
	m.Add(n)

	assert.Panics(t, func() {
		m.Add(&Node{Op: n.Op})
	})
}

func TestSinks(t *testing.T) {
	t.Parallel()

	m := NewNodeMap()
	producer := &Node{Op: ir.NewCompute("producer", []int{4}).Op}
	consumer := &Node{Op: ir.NewCompute("consumer", []int{4}).Op}
	producer.WriteEdges = []*Node{consumer}
	m.Add(producer)
	m.Add(consumer)

	sinks := m.Sinks()
	require.Len(t, sinks, 1)
	assert.Same(t, consumer, sinks[0])
}

func TestEnumStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "simple_reduction", KindSimpleReduction.String())
	assert.Equal(t, "unknown", Kind(42).String())
	assert.Equal(t, "fuse", ComputeAtFuse.String())
	assert.Equal(t, "tune", ComputeAtTune.String())
	assert.Equal(t, "unknown", ComputeAt(42).String())
}
