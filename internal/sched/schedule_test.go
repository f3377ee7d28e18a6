package sched

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/tensorgridgo/internal/ir"
)

func TestNew_SeedsOutputStages(t *testing.T) {
	t.Parallel()

	out := ir.NewCompute("out", []int{4})
	s := New([]*ir.Op{out.Op})

	require.Len(t, s.Roots(), 1)
	assert.Same(t, out.Op, s.Roots()[0].Op)
	assert.True(t, s.IsOutput(out.Op))
}

func TestInlineEliminate_RemovesStageFromRoots(t *testing.T) {
	t.Parallel()

	out := ir.NewCompute("out", []int{4})
	mid := ir.NewCompute("mid", []int{4})
	s := New([]*ir.Op{out.Op})

	require.NoError(t, s.InlineEliminate(mid.Op))

	for _, root := range s.Roots() {
		assert.NotSame(t, mid.Op, root.Op)
	}
}

func TestInlineEliminate_RefusesPinnedOutput(t *testing.T) {
	t.Parallel()

	out := ir.NewCompute("out", []int{4})
	s := New([]*ir.Op{out.Op})

	err := s.InlineEliminate(out.Op)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "final output")
	assert.Len(t, s.Roots(), 1)
}

func TestStageFor_IsIdempotent(t *testing.T) {
	t.Parallel()

	op := ir.NewCompute("x", []int{4}).Op
	s := New(nil)

	first := s.StageFor(op)
	second := s.StageFor(op)

	assert.Same(t, first, second)
	assert.Len(t, s.Roots(), 1)
}

func TestRender_ListsDirectivesInOrder(t *testing.T) {
	t.Parallel()

	out := ir.NewCompute("out", []int{16})
	mid := ir.NewCompute("mid", []int{16})
	s := New([]*ir.Op{out.Op})

	st := s.StageFor(out.Op)
	st.Apply(Directive{Kind: DirectiveSplit, Axes: []string{"i0"}, Factor: 8})
	st.Apply(Directive{Kind: DirectiveParallel, Axes: []string{"i0.outer"}})
	require.NoError(t, s.InlineEliminate(mid.Op))

	var b strings.Builder
	require.NoError(t, s.Render(&b))

	got := b.String()
	assert.Contains(t, got, "out:\n  split(i0, factor=8)\n  parallel(i0.outer)")
	assert.Contains(t, got, "mid: inlined")
}
