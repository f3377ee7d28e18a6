package app

import (
	"context"
	"fmt"

	"github.com/vk/tensorgridgo/internal/ctxlog"
	"github.com/vk/tensorgridgo/internal/hclgraph"
	"github.com/vk/tensorgridgo/internal/synth"
	"github.com/vk/tensorgridgo/internal/tuning"
)

// Run executes the main application logic: load the graph definition, apply
// the tuning knobs, synthesize the schedule, and render it.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	bufs, err := hclgraph.Load(ctx, cfg.GraphPath)
	if err != nil {
		return fmt.Errorf("failed to load graph definition: %w", err)
	}
	a.logger.Debug("Graph definition loaded.", "outputs", len(bufs))

	if cfg.TuningPath != "" {
		knobs, err := tuning.LoadHCL(ctx, cfg.TuningPath)
		if err != nil {
			return fmt.Errorf("failed to load tuning knobs: %w", err)
		}
		prev := tuning.SetCurrent(knobs)
		defer tuning.SetCurrent(prev)
		a.logger.Debug("Tuning knobs applied.", "knobs", knobs.Names())
	}

	a.logger.Info("Starting schedule synthesis.", "graph", cfg.GraphPath)
	s, err := a.pipeline.CreateSchedule(ctx, bufs)
	if err != nil {
		return fmt.Errorf("schedule synthesis failed: %w", err)
	}
	a.logger.Info("Schedule synthesis finished.", "roots", len(s.Roots()))

	if err := s.Render(a.outW); err != nil {
		return fmt.Errorf("failed to render schedule: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// Pipeline exposes the synthesis pipeline, primarily for tests that inject
// recording strategies.
func (a *App) Pipeline() *synth.Pipeline {
	return a.pipeline
}
