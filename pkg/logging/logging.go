// Package logging wires up structured logging for the pipeline CLIs. One
// logger is constructed per invocation and passed explicitly down through
// constructors; there is no package-level global logger.
package logging

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format selects the zap encoder used for output.
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// New builds a *zap.Logger for the given level name ("debug", "info",
// "warn", "error") and output format. JSON is intended for production runs
// piped into log aggregation; console is intended for interactive use.
func New(level string, format Format) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if format == FormatConsole {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true

	return cfg.Build()
}

// Stage logs the start of a pipeline stage and returns a function to call on
// completion, recording elapsed time under the same stage name.
func Stage(log *zap.Logger, name string) func(err *error) {
	log.Info("stage started", zap.String("stage", name))
	start := time.Now()
	return func(err *error) {
		elapsed := zap.Duration("elapsed", time.Since(start))
		if err != nil && *err != nil {
			log.Error("stage failed", zap.String("stage", name), elapsed, zap.Error(*err))
			return
		}
		log.Info("stage complete", zap.String("stage", name), elapsed)
	}
}
