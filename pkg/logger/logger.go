// Package logger provides the leveled key/value logger used across the
// service.
package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"prescription-reader/internal/domain"
)

// Level is a log severity. A logger emits records at or above its minimum.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// AppLogger writes one line per record to stdout and satisfies domain.Logger.
// Records look like:
//
//	2026-08-30T10:12:03Z INFO  Extraction succeeded stage=ocr file=rx.pdf
type AppLogger struct {
	min Level
	out *log.Logger
}

// NewLogger builds a logger with the given minimum level name. Unknown names
// fall back to info.
func NewLogger(level string) domain.Logger {
	return &AppLogger{
		min: levelFrom(level),
		out: log.New(os.Stdout, "", 0),
	}
}

func (l *AppLogger) Debug(msg string, fields ...interface{}) {
	l.emit(LevelDebug, "DEBUG", msg, fields)
}

func (l *AppLogger) Info(msg string, fields ...interface{}) {
	l.emit(LevelInfo, "INFO", msg, fields)
}

func (l *AppLogger) Warn(msg string, fields ...interface{}) {
	l.emit(LevelWarn, "WARN", msg, fields)
}

func (l *AppLogger) Error(msg string, err error, fields ...interface{}) {
	l.emit(LevelError, "ERROR", msg, append([]interface{}{"error", err}, fields...))
}

func (l *AppLogger) emit(level Level, tag, msg string, fields []interface{}) {
	if level < l.min {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %-5s %s", time.Now().UTC().Format(time.RFC3339), tag, msg)
	// Fields come as key/value pairs; a trailing odd key is dropped.
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	l.out.Println(b.String())
}

// levelFrom maps a config string to a Level.
func levelFrom(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
