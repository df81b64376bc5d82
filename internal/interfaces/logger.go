package interfaces

// Logger is the structured logger used across the service. keyvals are
// alternating key/value pairs; an error value is logged under its key.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
	SetLevel(level string)
	// With returns a child logger that adds fields to every line.
	With(fields map[string]any) Logger
}
