// Package logger provides leveled structured logging.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Level represents a logging level.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) slog() slog.Level {
	switch l {
	case DebugLevel:
		return slog.LevelDebug
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger provides leveled logging.
type Logger struct {
	level   Level
	format  string
	handler slog.Handler
}

var (
	mu            sync.RWMutex
	defaultLogger *Logger
)

// ParseLevel maps a level name to a Level, defaulting to InfoLevel.
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Init initializes the default logger with the specified level and format,
// writing to stderr. format "json" emits JSON records; anything else emits
// text records with the caller's source location.
func Init(level string, format string) {
	InitWithWriter(level, format, os.Stderr)
}

// InitWithWriter is Init with an explicit destination.
func InitWithWriter(level string, format string, w io.Writer) {
	l := ParseLevel(level)
	format = strings.ToLower(format)

	mu.Lock()
	defer mu.Unlock()
	defaultLogger = &Logger{
		level:   l,
		format:  format,
		handler: newHandler(l, format, w),
	}
}

// SetOutput redirects the default logger, keeping its level and format.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		return
	}
	defaultLogger.handler = newHandler(defaultLogger.level, defaultLogger.format, w)
}

func newHandler(l Level, format string, w io.Writer) slog.Handler {
	if format == "json" {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: l.slog()})
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: l.slog(), AddSource: true})
}

func output(l Level, format string, args ...interface{}) {
	mu.RLock()
	lg := defaultLogger
	mu.RUnlock()
	if lg == nil || lg.level > l {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(3, pcs[:]) // skip Callers, output and the exported wrapper
	r := slog.NewRecord(time.Now(), l.slog(), fmt.Sprintf(format, args...), pcs[0])
	_ = lg.handler.Handle(context.Background(), r)
}

func Debug(format string, args ...interface{}) {
	output(DebugLevel, format, args...)
}

func Info(format string, args ...interface{}) {
	output(InfoLevel, format, args...)
}

func Warn(format string, args ...interface{}) {
	output(WarnLevel, format, args...)
}

func Error(format string, args ...interface{}) {
	output(ErrorLevel, format, args...)
}

// Fatal logs at error level, marked fatal, and exits.
func Fatal(format string, args ...interface{}) {
	output(ErrorLevel, "FATAL: "+format, args...)
	os.Exit(1)
}
