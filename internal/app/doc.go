// Package app contains the core application logic: configuration, logger
// setup, and the load-graph/load-knobs/synthesize/render lifecycle, decoupled
// from any specific entrypoint like a CLI.
package app
