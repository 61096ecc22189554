package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format is the encoding of log entries.
type Format string

const (
	// FormatJSON writes one JSON object per entry. Used by the server.
	FormatJSON    Format = "json"
	// FormatConsole writes human-readable lines. Used by interactive CLI runs.
	FormatConsole Format = "console"
)

// Logger wraps the zap logger used across the replay engine.
type Logger struct {
	*zap.Logger
}

// NewLogger creates a JSON logger at info level.
func NewLogger() (*Logger, error) {
	return New("info", FormatJSON)
}

// NewLoggerWithLevel creates a JSON logger that emits entries at or above level.
func NewLoggerWithLevel(level string) (*Logger, error) {
	return New(level, FormatJSON)
}

// New creates a logger writing entries at or above level to stdout, and its
// own errors to stderr. Accepted levels are the zap level names.
func New(level string, format Format) (*Logger, error) {
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var config zap.Config

	switch format {
	case FormatJSON, "":
		config = zap.NewProductionConfig()
	case FormatConsole:
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}

	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{Logger: zapLogger}, nil
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// ForRun returns a child logger tagging every entry with the replay run id and symbol.
func (l *Logger) ForRun(runID string, symbol string) *Logger {
	return &Logger{Logger: l.With(zap.String("run_id", runID), zap.String("symbol", symbol))}
}

// Sync flushes buffered entries. It is safe on a Logger without a zap logger.
func (l *Logger) Sync() error {
	if l == nil || l.Logger == nil {
		return nil
	}

	return l.Logger.Sync()
}
