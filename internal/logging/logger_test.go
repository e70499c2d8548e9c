package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestInitializeAndLogWrites(t *testing.T) {
	logDir := t.TempDir()
	if err := Initialize(logDir, LevelInfo); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	logPath := GetLogPath()
	if logPath == "" {
		t.Fatalf("GetLogPath returned empty path")
	}

	Info("hello %s", "world")
	if err := Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "INFO: hello world") {
		t.Fatalf("expected log line to contain message, got: %q", string(data))
	}
	if GetLogPath() != "" {
		t.Fatalf("expected no log path after Close")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, LevelWarn)
	t.Cleanup(func() { _ = Close() })

	Info("info message")
	Warn("warn message")
	Error("error message")

	out := buf.String()
	if strings.Contains(out, "info message") {
		t.Fatalf("info should be filtered, got %q", out)
	}
	if !strings.Contains(out, "WARN: warn message") || !strings.Contains(out, "ERROR: error message") {
		t.Fatalf("expected warn and error lines, got %q", out)
	}
}

func TestSetEnabledDisablesLogging(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, LevelDebug)
	t.Cleanup(func() { _ = Close() })

	SetEnabled(false)
	Info("should not write")
	if buf.Len() != 0 {
		t.Fatalf("expected no log output when disabled, got: %q", buf.String())
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, LevelError)
	t.Cleanup(func() { _ = Close() })

	Debug("hidden")
	SetLevel(LevelDebug)
	Debug("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "DEBUG: shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestLoggingWithoutInitializeIsNoop(t *testing.T) {
	_ = Close()
	Info("nobody listens")
	WithError(os.ErrNotExist, "lookup")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		" INFO ":  LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"bogus":   LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
