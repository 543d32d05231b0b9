// Package zap adapts a zap.SugaredLogger to the aerolink Logger interface.
//
// zap's sugared logger spells its key/value methods Debugw, Infow, and so on;
// this package maps them onto aerolink's Debug/Info/Warn/Error/Fatal names:
//
//	zlog, _ := zap.NewProduction()
//	client, _ := aerolink.New(cfg,
//	    aerolink.WithLogger(zaplog.New(zlog.Sugar())),
//	)
package zap

import (
	"go.uber.org/zap"

	"github.com/aerolink/aerolink/types"
)

// Logger wraps a zap.SugaredLogger.
type Logger struct {
	s *zap.SugaredLogger
}

// Compile-time assertion that Logger implements types.Logger.
var _ types.Logger = (*Logger)(nil)

// New wraps the given sugared logger.
//
// Parameters:
//   - s: The zap sugared logger to adapt
//
// Returns:
//   - *Logger: An aerolink-compatible logger
func New(s *zap.SugaredLogger) *Logger {
	return &Logger{s: s}
}

// Debug logs a message at debug level with key/value pairs.
func (l *Logger) Debug(msg string, keysAndValues ...any) {
	l.s.Debugw(msg, keysAndValues...)
}

// Info logs a message at info level with key/value pairs.
func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.s.Infow(msg, keysAndValues...)
}

// Warn logs a message at warn level with key/value pairs.
func (l *Logger) Warn(msg string, keysAndValues ...any) {
	l.s.Warnw(msg, keysAndValues...)
}

// Error logs a message at error level with key/value pairs.
func (l *Logger) Error(msg string, keysAndValues ...any) {
	l.s.Errorw(msg, keysAndValues...)
}

// Fatal logs a message at fatal level with key/value pairs, then exits.
func (l *Logger) Fatal(msg string, keysAndValues ...any) {
	l.s.Fatalw(msg, keysAndValues...)
}
