package tuning

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/tensorgridgo/internal/ctxlog"
)

// LoadHCL reads a knob file: a flat HCL document whose top-level attributes
// are knob values, e.g.
//
//	tile_x      = 16
//	rfactor_len = 32
//	parallel    = true
func LoadHCL(ctx context.Context, path string) (*Config, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading tuning knobs.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse tuning file %s: %w", path, diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid tuning file %s: %w", path, diags)
	}

	knobs := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid value for knob %q: %w", name, diags)
		}
		knobs[name] = val
	}

	cfg := NewConfig(knobs)
	logger.Debug("Tuning knobs loaded.", "count", len(knobs), "knobs", cfg.Names())
	return cfg, nil
}
