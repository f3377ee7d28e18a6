package hclgraph

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/tensorgridgo/internal/ctxlog"
	"github.com/vk/tensorgridgo/internal/fsutil"
	"github.com/vk/tensorgridgo/internal/ir"
)

// stageBlock is one `stage "name" { ... }` block.
type stageBlock struct {
	Name        string   `hcl:"name,label"`
	Shape       []int    `hcl:"shape"`
	Inputs      []string `hcl:"inputs,optional"`
	Reduce      []int    `hcl:"reduce,optional"`
	Placeholder bool     `hcl:"placeholder,optional"`
}

// graphFile is the top-level structure of one definition file.
type graphFile struct {
	Stages  []stageBlock `hcl:"stage,block"`
	Outputs []string     `hcl:"outputs,optional"`
}

// Load reads all graph definition files at path (a file or a directory of
// .hcl files) and returns the requested output buffers. Stage names are
// global across files; at least one file must declare outputs.
func Load(ctx context.Context, path string) ([]*ir.Tensor, error) {
	logger := ctxlog.FromContext(ctx)

	filePaths, err := fsutil.CollectFiles(path, ".hcl")
	if err != nil {
		return nil, err
	}
	logger.Debug("Loading graph definitions.", "files", filePaths)

	parser := hclparse.NewParser()
	var stages []stageBlock
	var outputs []string

	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse graph file %s: %w", filePath, diags)
		}

		var gf graphFile
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &gf); diags.HasErrors() {
			return nil, fmt.Errorf("invalid graph definition in %s: %w", filePath, diags)
		}
		stages = append(stages, gf.Stages...)
		outputs = append(outputs, gf.Outputs...)
	}

	if len(outputs) == 0 {
		return nil, fmt.Errorf("graph definition at %s declares no outputs", path)
	}

	tensors, err := buildTensors(stages)
	if err != nil {
		return nil, err
	}

	bufs := make([]*ir.Tensor, 0, len(outputs))
	for _, name := range outputs {
		buf, ok := tensors[name]
		if !ok {
			return nil, fmt.Errorf("output %q references an undeclared stage", name)
		}
		bufs = append(bufs, buf)
	}

	logger.Debug("Graph definitions loaded.", "stages", len(stages), "outputs", len(bufs))
	return bufs, nil
}

// buildTensors materializes the declared stages as ir tensors, resolving
// input references recursively. Declaration order does not matter; cycles
// and unknown references are rejected.
func buildTensors(stages []stageBlock) (map[string]*ir.Tensor, error) {
	byName := make(map[string]stageBlock, len(stages))
	for _, s := range stages {
		if _, exists := byName[s.Name]; exists {
			return nil, fmt.Errorf("stage %q declared more than once", s.Name)
		}
		byName[s.Name] = s
	}

	tensors := make(map[string]*ir.Tensor, len(stages))
	building := make(map[string]bool)

	var build func(name string) (*ir.Tensor, error)
	build = func(name string) (*ir.Tensor, error) {
		if t, ok := tensors[name]; ok {
			return t, nil
		}
		if building[name] {
			return nil, fmt.Errorf("stage %q is part of a dependency cycle", name)
		}

		s, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("reference to undeclared stage %q", name)
		}
		if s.Placeholder && (len(s.Inputs) > 0 || len(s.Reduce) > 0) {
			return nil, fmt.Errorf("placeholder stage %q cannot declare inputs or reductions", name)
		}

		building[name] = true
		defer delete(building, name)

		var inputs []*ir.Tensor
		for _, inputName := range s.Inputs {
			input, err := build(inputName)
			if err != nil {
				return nil, fmt.Errorf("resolving input of stage %q: %w", name, err)
			}
			inputs = append(inputs, input)
		}

		var t *ir.Tensor
		switch {
		case s.Placeholder:
			t = ir.NewPlaceholder(s.Name, s.Shape)
		case len(s.Reduce) > 0:
			t = ir.NewReduce(s.Name, s.Shape, s.Reduce, inputs...)
		default:
			t = ir.NewCompute(s.Name, s.Shape, inputs...)
		}
		tensors[name] = t
		return t, nil
	}

	for _, s := range stages {
		if _, err := build(s.Name); err != nil {
			return nil, err
		}
	}
	return tensors, nil
}
