package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/killallgit/cinechat/pkg/config"
	"github.com/rs/zerolog"
)

// Logger writes leveled, structured log lines. Key/value pairs passed to the
// level methods become fields on the line.
type Logger struct {
	zl   zerolog.Logger
	file *os.File
}

var (
	mu            sync.RWMutex
	defaultLogger *Logger
)

// Init initializes the logger with configuration from global config
func Init() error {
	mu.Lock()
	defer mu.Unlock()

	if defaultLogger != nil {
		return nil // Already initialized
	}

	settings := config.Get().Logging
	logger, err := New(settings.Level, settings.LogFile, settings.Preserve)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	defaultLogger = logger
	return nil
}

// New creates a Logger writing to logFile. Relative paths are placed in the
// settings directory. The file is truncated unless preserve is set.
func New(level, logFile string, preserve bool) (*Logger, error) {
	logPath := logFile
	if !filepath.IsAbs(logPath) {
		logPath = config.BuildSettingsPath(logPath)
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if preserve {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	file, err := os.OpenFile(logPath, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := NewWithWriter(file, level)
	l.file = file
	return l, nil
}

// NewWithWriter creates a Logger that writes JSON lines to w.
func NewWithWriter(w io.Writer, level string) *Logger {
	zl := zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
	return &Logger{zl: zl}
}

// ParseLevel converts a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// With returns a child logger that adds the given fields to every line.
func (l *Logger) With(kv ...any) *Logger {
	return &Logger{zl: l.zl.With().Fields(fields(kv)).Logger()}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, kv ...any) {
	l.zl.Debug().Fields(fields(kv)).Msg(msg)
}

// Info logs an info message
func (l *Logger) Info(msg string, kv ...any) {
	l.zl.Info().Fields(fields(kv)).Msg(msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, kv ...any) {
	l.zl.Warn().Fields(fields(kv)).Msg(msg)
}

// Error logs an error message
func (l *Logger) Error(msg string, kv ...any) {
	l.zl.Error().Fields(fields(kv)).Msg(msg)
}

// Close closes the log file
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// fields turns a flat key/value list into a field map. A dangling key is
// kept with a nil value; non-string keys are formatted.
func fields(kv []any) map[string]any {
	if len(kv) == 0 {
		return nil
	}
	out := make(map[string]any, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		var value any
		if i+1 < len(kv) {
			value = kv[i+1]
		}
		if d, ok := value.(time.Duration); ok {
			value = d.String()
		}
		out[key] = value
	}
	return out
}

func current() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// WithComponent returns a logger tagged with the component name. Before Init
// it discards everything.
func WithComponent(name string) *Logger {
	l := current()
	if l == nil {
		return &Logger{zl: zerolog.Nop()}
	}
	return l.With("component", name)
}

// Package-level convenience functions using the default logger

// Debug logs a debug message using the default logger
func Debug(msg string, kv ...any) {
	if l := current(); l != nil {
		l.Debug(msg, kv...)
	}
}

// Info logs an info message using the default logger
func Info(msg string, kv ...any) {
	if l := current(); l != nil {
		l.Info(msg, kv...)
	}
}

// Warn logs a warning message using the default logger
func Warn(msg string, kv ...any) {
	if l := current(); l != nil {
		l.Warn(msg, kv...)
	}
}

// Error logs an error message using the default logger
func Error(msg string, kv ...any) {
	if l := current(); l != nil {
		l.Error(msg, kv...)
	}
}

// SetOutput replaces the default logger with one writing to w at debug
// level (useful for testing)
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = NewWithWriter(w, "debug")
}

// Close closes the default logger and forgets it
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if defaultLogger == nil {
		return nil
	}
	err := defaultLogger.Close()
	defaultLogger = nil
	return err
}
