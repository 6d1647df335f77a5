package engine

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Config holds configuration for the mapping engine.
type Config struct {
	// StrictShapes aborts the run on the first non-scalar value found where
	// a scalar is expected, instead of dropping the record.
	StrictShapes bool
	// ValidateLinks checks every link target against the written records,
	// even when the target class never drops records.
	ValidateLinks bool
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		StrictShapes:  false,
		ValidateLinks: false,
	}
}

// Options are the optional collaborators of an Engine.
type Options struct {
	Config Config
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Registerer enables the engine counters when set.
	Registerer prometheus.Registerer
}
