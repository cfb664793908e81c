// Package vhier extracts module hierarchies from HDL source files.
//
// Given a set of Verilog/SystemVerilog sources, Load finds every module
// definition, finds every instantiation of a known module inside each
// definition's body, and expands instantiations recursively into one
// hierarchy root per defined module. Callers pick "top" modules from the
// result themselves.
package vhier

import (
	"errors"
	"log/slog"

	"github.com/golanghdl/vhier/internal/types"
)

// ErrNoSource is returned when Load is called without a source.
var ErrNoSource = errors.New("no HDL source provided")

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-item iteration logging (identifiers, instantiation sites).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = types.LevelTrace

// LoadOption configures Load.
type LoadOption func(*loadConfig)

type loadConfig struct {
	logger *slog.Logger
}

// WithLogger sets the logger for debug/trace output.
// If not set, no logging occurs (zero overhead).
func WithLogger(logger *slog.Logger) LoadOption {
	return func(c *loadConfig) { c.logger = logger }
}
