package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewStderrLogger(t *testing.T) {
	lg, closer, err := Config{Level: "debug"}.New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if lg == nil {
		t.Fatal("nil logger")
	}
	if err := closer(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runpack.log")
	lg, closer, err := Config{File: path, Level: "info"}.New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	lg.Info("exported", slog.String("path", "run1-primary.msgpack"))
	if err := closer(); err != nil {
		t.Fatalf("close: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "run1-primary.msgpack") {
		t.Fatalf("log file missing entry: %s", b)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q): expected %v, got %v", in, want, got)
		}
	}
}
