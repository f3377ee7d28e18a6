package tuning

import (
	"fmt"
	"sort"
	"sync"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Config is one immutable set of tuning knobs. Strategies read knobs through
// the typed accessors and fall back to their own defaults for absent knobs.
type Config struct {
	knobs map[string]cty.Value
}

// NewConfig builds a config from raw knob values. The map is copied; later
// mutation of the argument does not affect the config.
func NewConfig(knobs map[string]cty.Value) *Config {
	copied := make(map[string]cty.Value, len(knobs))
	for name, val := range knobs {
		copied[name] = val
	}
	return &Config{knobs: copied}
}

// Int returns an integer knob, or fallback when the knob is absent or not
// convertible to a whole number.
func (c *Config) Int(name string, fallback int) int {
	val, ok := c.knobs[name]
	if !ok {
		return fallback
	}
	var out int
	if err := gocty.FromCtyValue(val, &out); err != nil {
		return fallback
	}
	return out
}

// Bool returns a boolean knob, or fallback when absent or mistyped.
func (c *Config) Bool(name string, fallback bool) bool {
	val, ok := c.knobs[name]
	if !ok {
		return fallback
	}
	var out bool
	if err := gocty.FromCtyValue(val, &out); err != nil {
		return fallback
	}
	return out
}

// Names returns the defined knob names, sorted for stable logging.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.knobs))
	for name := range c.knobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String summarizes the config for logs.
func (c *Config) String() string {
	return fmt.Sprintf("tuning.Config(%d knobs)", len(c.knobs))
}

// current is the process-wide tuning configuration. Synthesis calls read it
// once at dispatch time and never write it.
var (
	currentMu sync.RWMutex
	current   = NewConfig(nil)
)

// Current returns the process-wide tuning configuration. Never nil; with no
// configuration applied every knob reads as its fallback.
func Current() *Config {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// SetCurrent installs cfg as the process-wide configuration and returns the
// previous one, so callers can restore it.
func SetCurrent(cfg *Config) *Config {
	if cfg == nil {
		cfg = NewConfig(nil)
	}
	currentMu.Lock()
	defer currentMu.Unlock()
	prev := current
	current = cfg
	return prev
}
