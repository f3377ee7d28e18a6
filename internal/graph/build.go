package graph

import (
	"context"
	"fmt"

	"github.com/vk/tensorgridgo/internal/ctxlog"
	"github.com/vk/tensorgridgo/internal/ir"
	"github.com/vk/tensorgridgo/internal/stage"
)

// Build constructs a validated stage graph from the requested output buffers.
// Ops are registered in depth-first discovery order starting from the first
// output, so repeated builds over the same buffers yield the same node order.
func Build(ctx context.Context, bufs []*ir.Tensor) (*stage.NodeMap, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: starting stage graph construction.", "outputs", len(bufs))

	nodes := stage.NewNodeMap()

	// First pass: create all reachable nodes and read edges.
	for i, buf := range bufs {
		if buf == nil {
			return nil, fmt.Errorf("output buffer %d is nil", i)
		}
		if _, err := visit(buf, nodes); err != nil {
			return nil, err
		}
	}
	logger.Debug("Build: node creation complete.", "node_count", nodes.Len())

	// Second pass: mirror read edges as write edges.
	for _, n := range nodes.Nodes() {
		for _, producer := range n.ReadEdges {
			producer.WriteEdges = append(producer.WriteEdges, n)
		}
	}
	logger.Debug("Build: edge linking complete.")

	if err := detectCycles(nodes); err != nil {
		return nil, fmt.Errorf("error validating stage graph: %w", err)
	}
	logger.Debug("Build: cycle detection passed.")

	return nodes, nil
}

// visit registers the producing op of buf and, recursively, of every tensor
// it reads. Returns the existing node when the op was already discovered
// through another consumer.
func visit(buf *ir.Tensor, nodes *stage.NodeMap) (*stage.Node, error) {
	if buf.Op == nil {
		return nil, fmt.Errorf("tensor %q has no producing op", buf.Name)
	}
	if existing := nodes.Lookup(buf.Op); existing != nil {
		return existing, nil
	}

	n := &stage.Node{
		Op:        buf.Op,
		Kind:      stage.ClassifyKind(buf.Op),
		ComputeAt: stage.ComputeAtUnset,
	}
	nodes.Add(n)

	for _, input := range buf.Op.Inputs {
		producer, err := visit(input, nodes)
		if err != nil {
			return nil, err
		}
		n.ReadEdges = append(n.ReadEdges, producer)
	}
	return n, nil
}

// detectCycles runs a depth-first search with three node sets:
// permanent nodes are fully visited and known safe, temporary nodes are in
// the current recursion stack, everything else is unvisited.
func detectCycles(nodes *stage.NodeMap) error {
	permanent := make(map[*stage.Node]bool)
	temporary := make(map[*stage.Node]bool)

	var visit func(n *stage.Node) error
	visit = func(n *stage.Node) error {
		if permanent[n] {
			return nil
		}
		if temporary[n] {
			// A node already on the recursion stack means a cycle.
			return fmt.Errorf("cycle detected involving stage '%s'", n.Name())
		}

		temporary[n] = true
		for _, producer := range n.ReadEdges {
			if err := visit(producer); err != nil {
				return err
			}
		}
		delete(temporary, n)
		permanent[n] = true
		return nil
	}

	for _, n := range nodes.Nodes() {
		if !permanent[n] {
			if err := visit(n); err != nil {
				return err
			}
		}
	}
	return nil
}
