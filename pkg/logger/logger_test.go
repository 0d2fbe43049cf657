package logger

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
)

func TestLevelFrom(t *testing.T) {
	cases := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"DEBUG", LevelDebug},
		{" error ", LevelError},
		{"", LevelInfo},
		{"nonsense", LevelInfo},
	}

	for _, c := range cases {
		if got := levelFrom(c.input); got != c.want {
			t.Errorf("levelFrom(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func captureLogger(min Level) (*AppLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return &AppLogger{min: min, out: log.New(&buf, "", 0)}, &buf
}

func TestEmit_RendersTagMessageAndFields(t *testing.T) {
	l, buf := captureLogger(LevelDebug)

	l.Info("Extraction succeeded", "stage", "ocr", "file", "rx.pdf")

	line := buf.String()
	for _, fragment := range []string{"INFO", "Extraction succeeded", "stage=ocr", "file=rx.pdf"} {
		if !strings.Contains(line, fragment) {
			t.Errorf("expected log line to contain %q, got: %s", fragment, line)
		}
	}
}

func TestEmit_ErrorFieldComesFirst(t *testing.T) {
	l, buf := captureLogger(LevelDebug)

	l.Error("Stage failed", errors.New("connection refused"), "stage", "ocr")

	line := buf.String()
	if !strings.Contains(line, "ERROR") || !strings.Contains(line, "error=connection refused") {
		t.Errorf("unexpected error line: %s", line)
	}
	if strings.Index(line, "error=") > strings.Index(line, "stage=") {
		t.Errorf("expected error field before caller fields: %s", line)
	}
}

func TestEmit_BelowMinimumSuppressed(t *testing.T) {
	l, buf := captureLogger(LevelError)

	l.Debug("suppressed")
	l.Info("suppressed")
	l.Warn("suppressed")

	if buf.Len() != 0 {
		t.Errorf("expected no output below the minimum level, got: %s", buf.String())
	}

	l.Error("kept", errors.New("boom"))
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("expected error record to be emitted, got: %s", buf.String())
	}
}

func TestEmit_OddTrailingFieldDropped(t *testing.T) {
	l, buf := captureLogger(LevelDebug)

	l.Info("message", "key", "value", "dangling")

	line := buf.String()
	if !strings.Contains(line, "key=value") {
		t.Errorf("expected paired field rendered, got: %s", line)
	}
	if strings.Contains(line, "dangling") {
		t.Errorf("expected dangling key dropped, got: %s", line)
	}
}
