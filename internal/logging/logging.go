// Package logging provides the structured field logger shared by the server and CLI.
//
// Entries go through zerolog and are rendered as "time level msg key=value ..."
// lines so they stay greppable without a log shipper.
package logging

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Level orders log severities.
type Level int

// Log levels, lowest first.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return "level(" + strconv.Itoa(int(l)) + ")"
}

// ParseLevel maps a level name to a Level. Unknown names fall back to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	}
	return LevelInfo
}

// Logger is the logging contract used across go-folio.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Field is a single key/value pair attached to a log line.
type Field struct {
	Key   string
	Value any
}

// String creates a string field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int creates an int field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Int64 creates an int64 field.
func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }

// Float creates a float64 field.
func Float(key string, value float64) Field { return Field{Key: key, Value: value} }

// Duration creates a duration field.
func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

// Err creates an "error" field. A nil error is logged as "<nil>".
func Err(err error) Field { return Field{Key: "error", Value: err} }

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (NopLogger) With(...Field) Logger   { return NopLogger{} }

// ZeroLogger adapts a zerolog.Logger to Logger.
// Safe for concurrent use; derived loggers share the writer lock.
type ZeroLogger struct {
	zl  zerolog.Logger
	now func() time.Time
}

// New creates a ZeroLogger writing text lines to w and dropping entries below min.
func New(w io.Writer, min Level) *ZeroLogger {
	console := zerolog.ConsoleWriter{
		Out:           w,
		NoColor:       true,
		TimeFormat:    time.RFC3339,
		TimeLocation:  time.UTC,
		FormatLevel:   formatLevel,
		FormatMessage: formatMessage,
	}
	return &ZeroLogger{
		zl:  zerolog.New(zerolog.SyncWriter(console)).Level(min.zerologLevel()),
		now: time.Now,
	}
}

// Compile-time interface checks.
var (
	_ Logger = (*ZeroLogger)(nil)
	_ Logger = NopLogger{}
)

func (l *ZeroLogger) Debug(msg string, fields ...Field) { l.log(l.zl.Debug(), msg, fields) }
func (l *ZeroLogger) Info(msg string, fields ...Field)  { l.log(l.zl.Info(), msg, fields) }
func (l *ZeroLogger) Warn(msg string, fields ...Field)  { l.log(l.zl.Warn(), msg, fields) }
func (l *ZeroLogger) Error(msg string, fields ...Field) { l.log(l.zl.Error(), msg, fields) }

// With returns a logger that adds fields to every entry.
func (l *ZeroLogger) With(fields ...Field) Logger {
	return &ZeroLogger{zl: l.zl.With().Fields(keyValues(fields)).Logger(), now: l.now}
}

func (l *ZeroLogger) log(e *zerolog.Event, msg string, fields []Field) {
	if e == nil {
		return
	}
	e.Time(zerolog.TimestampFieldName, l.now()).Fields(keyValues(fields)).Msg(msg)
}

func (lv Level) zerologLevel() zerolog.Level {
	switch lv {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	}
	return zerolog.InfoLevel
}

// keyValues flattens fields for zerolog. Durations and errors are rendered
// as text so lines read "took=1.5s error=bad" rather than raw numbers.
func keyValues(fields []Field) []any {
	kv := make([]any, 0, 2*len(fields))
	for _, f := range fields {
		kv = append(kv, f.Key, fieldValue(f.Value))
	}
	return kv
}

func fieldValue(v any) any {
	switch val := v.(type) {
	case nil:
		return "<nil>"
	case error:
		return val.Error()
	case time.Duration:
		return val.String()
	case fmt.Stringer:
		return val.String()
	}
	return v
}

func formatLevel(i any) string {
	s, _ := i.(string)
	return s
}

// formatMessage quotes messages containing spaces so the message stays one token.
func formatMessage(i any) string {
	s, _ := i.(string)
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
