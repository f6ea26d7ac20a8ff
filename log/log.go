// Package log builds the zap logger used throughout the pool. There is no
// package-level logger singleton here: callers build one and hand it to
// instance.New, which threads it through to the pool and its workers.
package log

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls logger construction.
type Options struct {
	// Location is used to render timestamps. Defaults to UTC.
	Location *time.Location
	// Development enables human-readable, non-JSON console output.
	Development bool
}

// New builds a production-style zap logger with a timezone-aware time
// encoder and colorized level names, matching the shape of a service log
// rather than the library default.
func New(opts Options) (*zap.Logger, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	var cfg zap.Config
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	cfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.In(loc).Format(time.RFC3339))
	}
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	return cfg.Build()
}

// Nop returns a logger that discards everything, for tests that don't care
// about log output.
func Nop() *zap.Logger {
	return zap.NewNop()
}
