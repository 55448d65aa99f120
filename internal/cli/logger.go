package cli

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// LogLevelInfo sets the log level to info.
	LogLevelInfo = "info"

	// LogLevelDebug sets the log level to debug.
	LogLevelDebug = "debug"

	// LogLevelNone disables logging.
	LogLevelNone = "none"
)

// newLogger builds a zap logger with the given level. Harness logs go
// to stderr so the report stays readable on stdout.
func newLogger(logLevel string) (*zap.Logger, error) {
	if logLevel == LogLevelNone {
		return zap.NewNop(), nil
	}
	zapConfig := zap.NewProductionConfig()
	zapConfig.OutputPaths = []string{"stderr"}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, err
	}
	zapConfig.Level = zap.NewAtomicLevelAt(lvl)
	return zapConfig.Build()
}
