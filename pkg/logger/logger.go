package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"

	errInvalidLogLevelFmt  = "invalid log level %q: %w"
	errInvalidLogFormatFmt = "invalid log format %q (want json or console)"
	errBuildLoggerFmt      = "failed to build logger: %w"
)

// New builds the process logger. Level is any zap level name; format is json or console.
func New(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf(errInvalidLogLevelFmt, level, err)
	}

	var cfg zap.Config
	switch strings.ToLower(format) {
	case "", FormatJSON:
		cfg = zap.NewProductionConfig()
	case FormatConsole:
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf(errInvalidLogFormatFmt, format)
	}

	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = lvl > zapcore.DebugLevel

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf(errBuildLoggerFmt, err)
	}
	return l, nil
}

// Safe returns a zap string field whose value has been passed through the sanitizer.
func Safe(key, value string) zap.Field {
	return zap.String(key, SanitizeLogMessage(value))
}
