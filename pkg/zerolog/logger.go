package zerolog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/haguru/bloguser/internal/interfaces"
	"github.com/rs/zerolog"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options controls where and how log lines are written.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// Logger implements interfaces.Logger using zerolog.
type Logger struct {
	zlog zerolog.Logger
}

// NewZerologLogger builds a logger tagged with the service name. Console output
// is human readable; any other format writes one JSON object per line.
func NewZerologLogger(serviceName string, opts Options) interfaces.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	var w io.Writer = out
	if opts.Format == "" || opts.Format == FormatConsole {
		console := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		console.FormatLevel = func(i any) string {
			return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
		}
		w = console
	}

	l := &Logger{
		zlog: zerolog.New(w).
			With().
			Timestamp().
			Str("service", serviceName).
			Logger(),
	}
	l.SetLevel(opts.Level)
	return l
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() interfaces.Logger {
	return &Logger{zlog: zerolog.Nop()}
}

func (l *Logger) Info(msg string, keyvals ...any) {
	withFields(l.zlog.Info(), keyvals).Msg(msg)
}

func (l *Logger) Warn(msg string, keyvals ...any) {
	withFields(l.zlog.Warn(), keyvals).Msg(msg)
}

func (l *Logger) Error(msg string, keyvals ...any) {
	withFields(l.zlog.Error(), keyvals).Msg(msg)
}

func (l *Logger) Debug(msg string, keyvals ...any) {
	withFields(l.zlog.Debug(), keyvals).Msg(msg)
}

// SetLevel changes the minimum level of this logger. Unknown levels fall back
// to info.
func (l *Logger) SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	l.zlog = l.zlog.Level(lvl)
}

// With returns a child logger carrying fields.
func (l *Logger) With(fields map[string]any) interfaces.Logger {
	child := l.zlog.With()
	for key, value := range fields {
		child = child.Interface(key, value)
	}
	return &Logger{zlog: child.Logger()}
}

// withFields attaches key/value pairs to an event. Non-string keys and a
// trailing key without value are dropped.
func withFields(event *zerolog.Event, keyvals []any) *zerolog.Event {
	for i := 0; i < len(keyvals)-1; i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			continue
		}
		if err, ok := keyvals[i+1].(error); ok {
			event = event.AnErr(key, err)
			continue
		}
		event = event.Interface(key, keyvals[i+1])
	}
	return event
}
