// Package logging provides leveled key-value logging for cmwatch. Diagnostic
// output goes to stderr so it never interleaves with rendered tables and
// panels on stdout.
package logging

import (
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
)

// Level represents a log level.
type Level int

const (
	// LevelDebug is for request tracing and other verbose output.
	LevelDebug Level = iota
	// LevelInfo is for general informational messages.
	LevelInfo
	// LevelWarn is for recoverable problems, such as skipped API entries.
	LevelWarn
	// LevelError is for failures that end a command.
	LevelError
)

var levelNames = [...]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

func (l Level) String() string {
	if l >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel converts a level name (case-insensitive) to a Level.
func ParseLevel(name string) (Level, error) {
	for i, levelName := range levelNames {
		if strings.EqualFold(name, levelName) {
			return Level(i), nil
		}
	}
	return LevelWarn, fmt.Errorf("unknown log level %q", name)
}

// Fields are key-value pairs attached to every message of a Logger.
type Fields map[string]any

// Logger writes leveled messages with attached key-value fields. Loggers
// derived with With share the level and output of their parent.
type Logger struct {
	core   *core
	fields Fields
}

// core is the mutable state shared by a logger and its derivatives.
type core struct {
	mu       sync.RWMutex
	minLevel Level
	output   *log.Logger
}

var defaultLogger = New()

// New creates a Logger writing to stderr at warn level.
func New() *Logger {
	return &Logger{
		core: &core{
			minLevel: LevelWarn,
			output:   log.New(os.Stderr, "", log.LstdFlags),
		},
	}
}

// NewWriter creates a Logger writing to w without timestamps, at the given level.
func NewWriter(w io.Writer, level Level) *Logger {
	l := New()
	l.core.minLevel = level
	l.core.output = log.New(w, "", 0)
	return l
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return NewWriter(io.Discard, LevelError+1)
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	l.core.minLevel = level
}

// Level returns the minimum log level.
func (l *Logger) Level() Level {
	l.core.mu.RLock()
	defer l.core.mu.RUnlock()
	return l.core.minLevel
}

// SetOutput sets the output logger.
func (l *Logger) SetOutput(output *log.Logger) {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	l.core.output = output
}

// With returns a derived Logger that adds the given key-value pairs to
// every message.
func (l *Logger) With(keyVals ...any) *Logger {
	return l.WithFields(pairs(keyVals))
}

// WithFields returns a derived Logger with additional fields.
func (l *Logger) WithFields(fields Fields) *Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	maps.Copy(merged, l.fields)
	maps.Copy(merged, fields)
	return &Logger{core: l.core, fields: merged}
}

func (l *Logger) log(level Level, msg string, keyVals []any) {
	l.core.mu.RLock()
	enabled := level >= l.core.minLevel
	output := l.core.output
	l.core.mu.RUnlock()

	if !enabled {
		return
	}

	fields := l.fields
	if len(keyVals) > 0 {
		fields = make(Fields, len(l.fields)+len(keyVals)/2)
		maps.Copy(fields, l.fields)
		maps.Copy(fields, pairs(keyVals))
	}
	output.Print(formatLine(level, msg, fields))
}

// pairs turns alternating keys and values into Fields. Non-string keys and
// a trailing key without a value are dropped.
func pairs(keyVals []any) Fields {
	fields := make(Fields, len(keyVals)/2)
	for i := 0; i+1 < len(keyVals); i += 2 {
		if key, ok := keyVals[i].(string); ok {
			fields[key] = keyVals[i+1]
		}
	}
	return fields
}

// formatLine renders "LEVEL: msg | k1=v1 k2=v2" with keys in sorted order.
func formatLine(level Level, msg string, fields Fields) string {
	var sb strings.Builder
	sb.WriteString(level.String())
	sb.WriteString(": ")
	sb.WriteString(msg)

	if len(fields) == 0 {
		return sb.String()
	}

	sb.WriteString(" |")
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		fmt.Fprintf(&sb, " %s=%s", k, formatValue(fields[k]))
	}
	return sb.String()
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		if val == "" || strings.ContainsAny(val, " \t\n\"") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case error:
		return fmt.Sprintf("%q", val.Error())
	default:
		return fmt.Sprint(v)
	}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, keyVals ...any) { l.log(LevelDebug, msg, keyVals) }

// Info logs at info level.
func (l *Logger) Info(msg string, keyVals ...any) { l.log(LevelInfo, msg, keyVals) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, keyVals ...any) { l.log(LevelWarn, msg, keyVals) }

// Error logs at error level.
func (l *Logger) Error(msg string, keyVals ...any) { l.log(LevelError, msg, keyVals) }

// Default returns the package-level logger.
func Default() *Logger {
	return defaultLogger
}

// SetLevel sets the minimum log level for the default logger.
func SetLevel(level Level) {
	defaultLogger.SetLevel(level)
}

// SetOutput sets the output for the default logger.
func SetOutput(output *log.Logger) {
	defaultLogger.SetOutput(output)
}

// With returns a Logger derived from the default logger.
func With(keyVals ...any) *Logger {
	return defaultLogger.With(keyVals...)
}

// Debug logs at debug level using the default logger.
func Debug(msg string, keyVals ...any) {
	defaultLogger.Debug(msg, keyVals...)
}

// Info logs at info level using the default logger.
func Info(msg string, keyVals ...any) {
	defaultLogger.Info(msg, keyVals...)
}

// Warn logs at warn level using the default logger.
func Warn(msg string, keyVals ...any) {
	defaultLogger.Warn(msg, keyVals...)
}

// Error logs at error level using the default logger.
func Error(msg string, keyVals ...any) {
	defaultLogger.Error(msg, keyVals...)
}
