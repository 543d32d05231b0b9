package types

// Logger defines the structured logging interface used throughout aerolink.
//
// The method set follows zap.SugaredLogger's key/value style; zap users can
// adapt a sugared logger via contrib/log/zap:
//
//	zlog, _ := zap.NewProduction()
//	client, _ := aerolink.New(cfg, aerolink.WithLogger(zaplog.New(zlog.Sugar())))
//
// Implementations should be thread-safe as methods may be called concurrently.
type Logger interface {
	// Debug logs a message at debug level with key/value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs a message at info level with key/value pairs.
	Info(msg string, keysAndValues ...any)

	// Warn logs a message at warn level with key/value pairs.
	Warn(msg string, keysAndValues ...any)

	// Error logs a message at error level with key/value pairs.
	Error(msg string, keysAndValues ...any)

	// Fatal logs a message at fatal level with key/value pairs.
	Fatal(msg string, keysAndValues ...any)
}
