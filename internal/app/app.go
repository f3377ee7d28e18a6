package app

import (
	"io"
	"log/slog"

	"github.com/vk/tensorgridgo/internal/synth"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle. Log output goes to errW; the rendered schedule goes to outW.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	pipeline *synth.Pipeline
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and synthesis
// pipeline.
func NewApp(outW, errW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:     outW,
		logger:   logger,
		pipeline: synth.NewPipeline(),
	}
}

// Logger returns the application's logger. This is primarily for testing.
func (a *App) Logger() *slog.Logger {
	return a.logger
}
