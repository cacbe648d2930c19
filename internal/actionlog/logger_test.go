package actionlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
}

func TestLogger_DisabledWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.log")
	l, err := NewLogger(LogConfig{Enabled: false, FilePath: path})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	l.Log(ActionOpen, "notes-window", nil)
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no log file, got %v", err)
	}
}

func TestLogger_FormatAndLevelFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "actions.log")
	l, err := NewLogger(LogConfig{Enabled: true, Level: LevelInfo, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	l.now = fixedClock

	l.Log(ActionOpen, "notes-window", map[string]any{"title": "Notes", "z": 20})
	l.Log(ActionFocus, "notes-window", nil)
	l.Log(ActionArrange, "", map[string]any{"mode": "grid"})
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	want := []string{
		`2024-05-01 09:30:00 [OPEN] window=notes-window title="Notes" z=20`,
		`2024-05-01 09:30:00 [ARRANGE] mode="grid"`,
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %q", len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestLogger_Rotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.log")
	if err := os.WriteFile(path, []byte(strings.Repeat("x", 1024*1024)), 0600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	l, err := NewLogger(LogConfig{Enabled: true, Level: LevelDebug, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	l.Log(ActionClose, "files-window", nil)
	l.Close()

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Fatalf("expected rotated file: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "[CLOSE] window=files-window") {
		t.Fatalf("expected fresh log with entry, got %q", data)
	}
}

func TestParseLogLevelAndActionFor(t *testing.T) {
	tests := map[string]LogLevel{"debug": LevelDebug, "WARNING": LevelWarn, "error": LevelError, "": LevelInfo}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Fatalf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if ActionFor("minimize") != ActionMinimize {
		t.Fatalf("expected MINIMIZE")
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Log(ActionOpen, "x", nil)
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
