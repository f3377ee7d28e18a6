package synth

import (
	"context"
	"fmt"

	"github.com/vk/tensorgridgo/internal/analysis"
	"github.com/vk/tensorgridgo/internal/ctxlog"
	"github.com/vk/tensorgridgo/internal/graph"
	"github.com/vk/tensorgridgo/internal/ir"
	"github.com/vk/tensorgridgo/internal/sched"
	"github.com/vk/tensorgridgo/internal/stage"
	"github.com/vk/tensorgridgo/internal/tuning"
)

// AnnotateFunc assigns a compute-at classification to every node of the
// graph. It must leave no node unclassified.
type AnnotateFunc func(ctx context.Context, nodes *stage.NodeMap, bufs []*ir.Tensor) error

// GlobalInfo caches the analysis results of one synthesis call. It is
// constructed on the stack at the start of CreateSchedule, passed by
// reference through the call chain, and discarded when the call returns.
type GlobalInfo struct {
	// Nodes is the stage graph, op identity to node.
	Nodes *stage.NodeMap
	// RootToMaster maps each fusion target to the stage fused into it.
	RootToMaster map[*stage.Node]*stage.Node
	// Bufs is the original requested output buffer set.
	Bufs []*ir.Tensor
}

// Pipeline runs schedule synthesis with a fixed set of collaborators. The
// zero configuration (NewPipeline with no options) uses the built-in
// annotator and the reference strategies.
type Pipeline struct {
	annotate   AnnotateFunc
	strategies Strategies
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithAnnotator replaces the compute-location annotation pass.
func WithAnnotator(fn AnnotateFunc) Option {
	return func(p *Pipeline) {
		p.annotate = fn
	}
}

// WithStrategies replaces the kind-specific scheduling strategies.
func WithStrategies(s Strategies) Option {
	return func(p *Pipeline) {
		p.strategies = s
	}
}

// NewPipeline creates a synthesis pipeline.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		annotate: func(ctx context.Context, nodes *stage.NodeMap, bufs []*ir.Tensor) error {
			analysis.AnnotateComputeLocation(ctx, nodes, bufs)
			return nil
		},
		strategies: DefaultStrategies(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CreateSchedule synthesizes a complete schedule for the requested output
// buffers using the default pipeline and the process-wide tuning
// configuration.
func CreateSchedule(ctx context.Context, bufs []*ir.Tensor) (*sched.Schedule, error) {
	return NewPipeline().CreateSchedule(ctx, bufs)
}

// CreateSchedule runs the synthesis pipeline: graph construction, compute
// location annotation, master resolution, and strategy dispatch. Any failure
// aborts the call; no partial schedule is returned.
func (p *Pipeline) CreateSchedule(ctx context.Context, bufs []*ir.Tensor) (*sched.Schedule, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting schedule synthesis.", "outputs", len(bufs))

	// Stage analysis.
	nodes, err := graph.Build(ctx, bufs)
	if err != nil {
		return nil, fmt.Errorf("building stage graph: %w", err)
	}

	// Compute location annotation.
	if err := p.annotate(ctx, nodes, bufs); err != nil {
		return nil, fmt.Errorf("annotating compute location: %w", err)
	}
	for _, n := range nodes.Nodes() {
		if n.ComputeAt == stage.ComputeAtUnset {
			return nil, fmt.Errorf("annotation left stage '%s' unclassified", n.Name())
		}
	}

	// Compute rewrite. Deliberately empty extension point between
	// annotation and dispatch; kept named so a future rewrite pass has an
	// explicit slot.
	computeRewrite(ctx, nodes)

	// Cache analysis results for the remainder of this call.
	ginfo := &GlobalInfo{Nodes: nodes, Bufs: bufs}

	// Fresh schedule seeded with the final-output stages. Sinks always
	// materialize as independent loop nests, whatever their
	// classification.
	var sinkOps []*ir.Op
	for _, n := range nodes.Sinks() {
		sinkOps = append(sinkOps, n.Op)
	}
	s := sched.New(sinkOps)

	// Master resolution, then strategy dispatch.
	ginfo.RootToMaster, err = resolveMasters(ctx, nodes)
	if err != nil {
		return nil, err
	}
	if err := p.dispatch(ctx, s, ginfo, tuning.Current()); err != nil {
		return nil, err
	}

	logger.Debug("Schedule synthesis complete.", "stages", nodes.Len(), "roots", len(s.Roots()))
	return s, nil
}

// computeRewrite is the reserved rewrite slot between annotation and
// dispatch. It currently performs no transformation.
func computeRewrite(ctx context.Context, nodes *stage.NodeMap) {
	ctxlog.FromContext(ctx).Debug("Compute rewrite pass skipped (no rewrites defined).", "stages", nodes.Len())
}
