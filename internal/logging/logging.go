// Package logging builds the zap loggers used by the command line and the
// language server.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// New returns a logger writing to stderr at the given level ("debug",
// "info", "warn" or "error"). Debug uses the human-readable development
// encoder; every other level logs JSON.
func New(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if lvl.Level() == zap.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}
